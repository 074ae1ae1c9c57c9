package handler

import (
	"html/template"
	"net/http"

	"github.com/notedrop/notedrop/internal/authz"
	"github.com/notedrop/notedrop/internal/ctxkeys"
	"github.com/notedrop/notedrop/internal/model"
	"github.com/notedrop/notedrop/internal/service"
	"github.com/notedrop/notedrop/internal/ui"
)

type PrivateHandler struct {
	gate           *authz.Gate
	noteService    *service.NoteService
	imageService   *service.ImageService
	contentService *service.ContentService
}

func NewPrivateHandler(gate *authz.Gate, noteService *service.NoteService, imageService *service.ImageService, contentService *service.ContentService) *PrivateHandler {
	return &PrivateHandler{
		gate:           gate,
		noteService:    noteService,
		imageService:   imageService,
		contentService: contentService,
	}
}

type noteRow struct {
	ID   string
	Body template.HTML
}

type privatePage struct {
	Notes  []noteRow
	Images []*model.Image
}

// PrivatePage shows the caller's own notes and images.
func (h *PrivateHandler) PrivatePage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.gate.Allow(authz.IdentityFor(user), authz.OpViewPrivate, nil)
	if err != nil {
		Fail(w, r, err)
		return
	}

	notes, err := h.noteService.ByOwner(user.ID)
	if err != nil {
		Fail(w, r, err)
		return
	}

	rows := make([]noteRow, 0, len(notes))
	for _, note := range notes {
		rows = append(rows, noteRow{
			ID:   note.ID,
			Body: h.contentService.RenderNote(note.Text),
		})
	}

	images, err := h.imageService.ByOwner(user.ID)
	if err != nil {
		Fail(w, r, err)
		return
	}

	ui.Render(w, r, "private", "Private", &privatePage{
		Notes:  rows,
		Images: images,
	})
}
