package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/middlemost/radio"
)

// fileHandler represents an HTTP handler for audio files.
type fileHandler struct {
	router chi.Router

	fileService radio.FileService
}

// newFileHandler returns a new instance of fileHandler.
func newFileHandler() *fileHandler {
	h := &fileHandler{router: chi.NewRouter()}
	h.router.Get("/{name}", h.handleGet)
	return h
}

// ServeHTTP implements http.Handler.
func (h *fileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *fileHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	// Fetch file.
	f, rc, err := h.fileService.FindFileByName(ctx, name)
	if err != nil {
		Error(w, r, err)
		return
	}
	defer rc.Close()

	// Set headers.
	w.Header().Set("Content-Type", radio.ContentType(f.Name))
	if f.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(f.Size, 10))
	}

	// Write file contents to response. Headers are already sent on failure.
	if _, err := io.Copy(w, rc); err != nil {
		logf(ctx, "http: file copy error: name=%q err=%s", f.Name, err)
		return
	}
}
