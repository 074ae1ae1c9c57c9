package handler

import (
	"log/slog"
	"net/http"

	"github.com/notedrop/notedrop/internal/service"
	"github.com/notedrop/notedrop/internal/ui"
)

type HomeHandler struct {
	contentService *service.ContentService
}

func NewHomeHandler(contentService *service.ContentService) *HomeHandler {
	return &HomeHandler{
		contentService: contentService,
	}
}

type publicPage struct {
	Page     *service.Page
	Response string
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.Page("index")
	if err != nil {
		slog.Error("failed to load landing content", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, "index", page.Title, page)
}

func (h *HomeHandler) PublicPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.Page("public")
	if err != nil {
		slog.Error("failed to load public content", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	ui.Render(w, r, "public", page.Title, &publicPage{Page: page})
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	RenderError(w, r, http.StatusNotFound)
}

// Robots keeps crawlers out of the gated areas.
func (h *HomeHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("User-agent: *\nDisallow: /private/\nDisallow: /admin/\n"))
}
