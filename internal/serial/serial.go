// Package serial parses the payload of the legacy data-upload endpoint.
// The endpoint historically fed attacker-controlled bytes into a
// general object deserializer; this version only accepts a fixed JSON
// schema and rejects everything else. The endpoint itself stays behind
// a default-off feature flag.
package serial

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrBadEncoding = errors.New("payload is not valid urlsafe base64")
	ErrBadSchema   = errors.New("payload does not match the expected schema")
)

// Payload is the only shape the sink accepts. Unknown fields are
// rejected outright.
type Payload struct {
	Kind      string    `json:"kind"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
	Records   []Record  `json:"records"`
}

type Record struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const maxDecodedSize = 1 << 20 // 1MB of decoded payload is plenty

// Decode unpacks a urlsafe-base64 blob into a Payload. The result is
// validated but carries no behavior; callers are free to discard it.
func Decode(data string) (*Payload, error) {
	raw, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		// Tolerate unpadded input as well.
		raw, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return nil, ErrBadEncoding
		}
	}

	if len(raw) > maxDecodedSize {
		return nil, fmt.Errorf("%w: payload too large", ErrBadSchema)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	payload := &Payload{}
	err = dec.Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSchema, err)
	}

	// A second document after the first is not a valid payload.
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrBadSchema)
	}

	if payload.Kind == "" {
		return nil, fmt.Errorf("%w: missing kind", ErrBadSchema)
	}

	return payload, nil
}
