package routes

import (
	"log/slog"
	"net/http"

	"github.com/notedrop/notedrop/internal/app"
	"github.com/notedrop/notedrop/internal/handler"
	"github.com/notedrop/notedrop/internal/middleware"
)

func SetupRoutes(a *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(a.ContentService)
	auth := handler.NewAuthHandler(a.SessionService)
	private := handler.NewPrivateHandler(a.Gate, a.NoteService, a.ImageService, a.ContentService)
	note := handler.NewNoteHandler(a.Gate, a.NoteService)
	image := handler.NewImageHandler(a.Gate, a.ImageService, a.Cfg.MaxUploadBytes)
	admin := handler.NewAdminHandler(a.Gate, a.UserService)
	fetch := handler.NewFetchHandler(a.FetchService, a.ContentService)

	mux := http.NewServeMux()

	// Public pages
	mux.HandleFunc("GET /{$}", home.HomePage)
	mux.HandleFunc("GET /public/", home.PublicPage)
	mux.HandleFunc("GET /robots.txt", home.Robots)

	// Session (rate limited login)
	rateLimiter := middleware.RateLimitLogin(a.Cfg.TrustProxyHeaders)
	mux.HandleFunc("POST /login", rateLimiter(auth.Login))
	mux.HandleFunc("GET /logout/", auth.Logout)

	// Private dashboard, notes and images
	mux.HandleFunc("GET /private/", private.PrivatePage)
	mux.HandleFunc("POST /write_note", note.WriteNote)
	mux.HandleFunc("GET /delete_note/{id}", note.DeleteNote)
	mux.HandleFunc("POST /upload_image", image.UploadImage)
	mux.HandleFunc("GET /delete_image/{uid}", image.DeleteImage)
	mux.HandleFunc("GET /images", image.ServeImage)

	// Admin panel
	mux.HandleFunc("GET /admin/", admin.AdminPage)
	mux.HandleFunc("POST /add_user", admin.AddUser)
	mux.HandleFunc("GET /delete_user/{id}/", admin.DeleteUser)

	// Ungated relay
	mux.HandleFunc("GET /fetch", fetch.FetchURL)

	// Legacy data sink, off unless explicitly enabled
	if a.Cfg.SerialSinkEnabled {
		slog.Warn("serialized-data upload endpoint is ENABLED; it accepts anonymous input and should stay off in production")
		serialHandler := handler.NewSerialHandler()
		mux.HandleFunc("POST /upload_serial_data", serialHandler.UploadSerialData)
	}

	// 404. The catch-all is GET-only so that a wrong-method request to a
	// real route still gets ServeMux's 405.
	mux.HandleFunc("GET /{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.Config(a.Cfg),
		middleware.SecurityHeaders,
		middleware.RequestLogging,
		middleware.Session(a.SessionService, a.UserService),
		middleware.WithURLPath,
	)

	return h
}
