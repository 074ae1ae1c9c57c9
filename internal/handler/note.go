package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/notedrop/notedrop/internal/authz"
	"github.com/notedrop/notedrop/internal/ctxkeys"
	"github.com/notedrop/notedrop/internal/repository"
	"github.com/notedrop/notedrop/internal/service"
)

type NoteHandler struct {
	gate        *authz.Gate
	noteService *service.NoteService
}

func NewNoteHandler(gate *authz.Gate, noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{
		gate:        gate,
		noteService: noteService,
	}
}

func (h *NoteHandler) WriteNote(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.gate.Allow(authz.IdentityFor(user), authz.OpWriteNote, nil)
	if err != nil {
		Fail(w, r, err)
		return
	}

	text := r.FormValue("text_note_to_take")
	_, err = h.noteService.Create(user.ID, text)
	if err != nil {
		if errors.Is(err, service.ErrNoteTooLong) {
			http.Redirect(w, r, "/private/?flash="+url.QueryEscape("Note is too long"), http.StatusSeeOther)
			return
		}
		Fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/private/", http.StatusSeeOther)
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	noteID := r.PathValue("id")

	note, err := h.noteService.ByID(noteID)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			// Unknown note: the gate still decides whether the caller
			// may attempt deletions at all.
			err = h.gate.Allow(authz.IdentityFor(user), authz.OpDeleteNote, nil)
			if err != nil {
				Fail(w, r, err)
				return
			}
			RenderError(w, r, http.StatusNotFound)
			return
		}
		Fail(w, r, err)
		return
	}

	err = h.gate.Allow(authz.IdentityFor(user), authz.OpDeleteNote, &authz.Resource{OwnerID: note.OwnerID})
	if err != nil {
		Fail(w, r, err)
		return
	}

	err = h.noteService.Delete(noteID)
	if err != nil {
		Fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/private/", http.StatusSeeOther)
}
