package handler

import (
	"log/slog"
	"net/http"

	"github.com/notedrop/notedrop/internal/serial"
)

// SerialHandler accepts the legacy serialized-data upload. It only
// exists when the feature flag enables it; the parsed result is
// discarded, matching the historical endpoint's behavior.
type SerialHandler struct{}

func NewSerialHandler() *SerialHandler {
	return &SerialHandler{}
}

func (h *SerialHandler) UploadSerialData(w http.ResponseWriter, r *http.Request) {
	data := r.FormValue("data")

	payload, err := serial.Decode(data)
	if err != nil {
		slog.Warn("serial upload rejected", "error", err)
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	slog.Info("serial upload accepted and discarded", "kind", payload.Kind, "records", len(payload.Records))
	http.Redirect(w, r, "/private/", http.StatusSeeOther)
}
