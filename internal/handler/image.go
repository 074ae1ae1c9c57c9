package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/notedrop/notedrop/internal/authz"
	"github.com/notedrop/notedrop/internal/ctxkeys"
	"github.com/notedrop/notedrop/internal/repository"
	"github.com/notedrop/notedrop/internal/service"
	"github.com/notedrop/notedrop/internal/storage"
	"github.com/notedrop/notedrop/internal/validation"
)

type ImageHandler struct {
	gate           *authz.Gate
	imageService   *service.ImageService
	maxUploadBytes int64
}

func NewImageHandler(gate *authz.Gate, imageService *service.ImageService, maxUploadBytes int64) *ImageHandler {
	return &ImageHandler{
		gate:           gate,
		imageService:   imageService,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.gate.Allow(authz.IdentityFor(user), authz.OpUploadImage, nil)
	if err != nil {
		Fail(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			RenderError(w, r, http.StatusRequestEntityTooLarge)
			return
		}
		http.Redirect(w, r, "/private/?flash="+url.QueryEscape("No file selected"), http.StatusSeeOther)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		http.Redirect(w, r, "/private/?flash="+url.QueryEscape("No file selected"), http.StatusSeeOther)
		return
	}

	_, err = h.imageService.Upload(user.ID, header.Filename, file)
	if err != nil {
		if errors.Is(err, validation.ErrInvalidFile) {
			// Soft failure: a flash message, not an error page.
			http.Redirect(w, r, "/private/?flash="+url.QueryEscape("Only jpg images are accepted"), http.StatusSeeOther)
			return
		}
		Fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/private/", http.StatusSeeOther)
}

func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	uid, err := strconv.ParseInt(r.PathValue("uid"), 10, 64)
	if err != nil {
		RenderError(w, r, http.StatusNotFound)
		return
	}

	image, err := h.imageService.ByUID(uid)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			err = h.gate.Allow(authz.IdentityFor(user), authz.OpDeleteImage, nil)
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

	err = h.gate.Allow(authz.IdentityFor(user), authz.OpDeleteImage, &authz.Resource{OwnerID: image.OwnerID})
	if err != nil {
		Fail(w, r, err)
		return
	}

	err = h.imageService.Delete(uid)
	if err != nil {
		Fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/private/", http.StatusSeeOther)
}

// ServeImage streams a pool file by name. The pool confines lookups to
// its own namespace, so a traversal path cannot reach past it.
func (h *ImageHandler) ServeImage(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("path")
	if name == "" {
		RenderError(w, r, http.StatusNotFound)
		return
	}

	rc, err := h.imageService.Open(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			RenderError(w, r, http.StatusNotFound)
			return
		}
		Fail(w, r, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = io.Copy(w, rc)
}
