package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/middlemost/radio"
)

// trackHandler represents an HTTP handler for listing playable files.
type trackHandler struct {
	router chi.Router

	fileService radio.FileService
}

// newTrackHandler returns a new instance of trackHandler.
func newTrackHandler() *trackHandler {
	h := &trackHandler{router: chi.NewRouter()}
	h.router.Get("/", h.handleList)
	return h
}

// ServeHTTP implements http.Handler.
func (h *trackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// handleList returns the names of all playable files as a JSON array.
func (h *trackHandler) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.fileService.ListFiles(r.Context())
	if err != nil {
		Error(w, r, err)
		return
	} else if names == nil {
		names = []string{}
	}
	encodeJSON(w, r, names)
}
