package serial

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestDecodeValidPayload(t *testing.T) {
	blob := encode(`{"kind":"export","source":"backup","timestamp":"2025-01-02T03:04:05Z","records":[{"key":"a","value":"1"}]}`)

	payload, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, "export", payload.Kind)
	assert.Len(t, payload.Records, 1)
	assert.Equal(t, "a", payload.Records[0].Key)
}

func TestDecodeUnpaddedBase64(t *testing.T) {
	blob := base64.RawURLEncoding.EncodeToString([]byte(`{"kind":"export"}`))

	payload, err := Decode(blob)
	require.NoError(t, err)
	assert.Equal(t, "export", payload.Kind)
}

func TestDecodeRejectsBadEncoding(t *testing.T) {
	_, err := Decode("not base64!!!")
	assert.ErrorIs(t, err, ErrBadEncoding)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	// Arbitrary object graphs must not slip through the schema.
	blob := encode(`{"kind":"export","__class__":"os.system","args":["id"]}`)

	_, err := Decode(blob)
	assert.ErrorIs(t, err, ErrBadSchema)
}

func TestDecodeRejectsMissingKind(t *testing.T) {
	blob := encode(`{"source":"backup"}`)

	_, err := Decode(blob)
	assert.ErrorIs(t, err, ErrBadSchema)
}

func TestDecodeRejectsTrailingData(t *testing.T) {
	blob := encode(`{"kind":"export"}{"kind":"second"}`)

	_, err := Decode(blob)
	assert.ErrorIs(t, err, ErrBadSchema)
}

func TestDecodeRejectsNonJSON(t *testing.T) {
	// A pickle-style binary blob.
	blob := base64.URLEncoding.EncodeToString([]byte{0x80, 0x04, 0x95, 0x20, 0x00})

	_, err := Decode(blob)
	assert.ErrorIs(t, err, ErrBadSchema)
}
