package handler

import (
	"net/http"

	"github.com/notedrop/notedrop/internal/service"
	"github.com/notedrop/notedrop/internal/ui"
)

// FetchHandler exposes the URL-fetch relay. The route deliberately
// carries no gate: it mirrors a legacy endpoint that was reachable
// anonymously. Treat it as untrusted egress and keep it off the public
// internet without an allow-list in front of it.
type FetchHandler struct {
	fetchService   *service.FetchService
	contentService *service.ContentService
}

func NewFetchHandler(fetchService *service.FetchService, contentService *service.ContentService) *FetchHandler {
	return &FetchHandler{
		fetchService:   fetchService,
		contentService: contentService,
	}
}

func (h *FetchHandler) FetchURL(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.Page("public")
	if err != nil {
		Fail(w, r, err)
		return
	}

	targetURL := r.URL.Query().Get("url")
	if targetURL == "" {
		ui.Render(w, r, "public", page.Title, &publicPage{Page: page, Response: "Please provide a URL"})
		return
	}

	body := h.fetchService.Fetch(r.Context(), targetURL)
	ui.Render(w, r, "public", page.Title, &publicPage{Page: page, Response: body})
}
