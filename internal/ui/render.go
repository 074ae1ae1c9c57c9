package ui

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/notedrop/notedrop/internal/ctxkeys"
	"github.com/notedrop/notedrop/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// View is the envelope every template receives.
type View struct {
	Title   string
	AppName string
	User    *model.User
	Flash   string
	Data    any
}

// Render writes a template with the shared envelope filled from the
// request context. Render errors are logged and turn into a 500; the
// page name comes from our own code, never from the client.
func Render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	RenderStatus(w, r, http.StatusOK, name, title, data)
}

func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	view := &View{
		Title: title,
		User:  ctxkeys.User(r.Context()),
		Flash: r.URL.Query().Get("flash"),
		Data:  data,
	}
	if cfg := ctxkeys.Config(r.Context()); cfg != nil {
		view.AppName = cfg.AppName
	}

	// Render to a buffer first so a template failure can still produce
	// a clean 500 instead of a half-written page.
	var buf bytes.Buffer
	err := templates.ExecuteTemplate(&buf, name+".html", view)
	if err != nil {
		slog.Error("render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
