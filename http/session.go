package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/middlemost/radio"
)

// sessionHandler represents an HTTP handler for the playback session.
// The playback surface reports progress and finished tracks here.
type sessionHandler struct {
	router chi.Router

	session *radio.Session
	hub     *hub
}

// newSessionHandler returns a new instance of sessionHandler.
func newSessionHandler() *sessionHandler {
	h := &sessionHandler{router: chi.NewRouter()}
	h.router.Get("/", h.handleGet)
	h.router.Post("/next", h.handlePostNext)
	h.router.Post("/ended", h.handlePostNext)
	h.router.Post("/progress", h.handlePostProgress)
	h.router.Get("/events", h.handleEvents)
	return h
}

// ServeHTTP implements http.Handler.
func (h *sessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *sessionHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	encodeJSON(w, r, h.session.State())
}

// handlePostNext advances to the next track. Skips and finished tracks are
// handled identically.
func (h *sessionHandler) handlePostNext(w http.ResponseWriter, r *http.Request) {
	h.session.Advance()
	encodeJSON(w, r, h.session.State())
}

func (h *sessionHandler) handlePostProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, r, ErrInvalidJSON)
		return
	} else if req.Progress == nil {
		Error(w, r, ErrProgressRequired)
		return
	}

	h.session.SetProgress(*req.Progress)
	encodeJSON(w, r, &progressResponse{Progress: h.session.Progress()})
}

// handleEvents upgrades to a websocket that receives session state updates.
func (h *sessionHandler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		Error(w, r, ErrEventsDisabled)
		return
	}
	h.hub.serveWS(w, r)
}

type progressRequest struct {
	Progress *float64 `json:"progress"`
}

type progressResponse struct {
	Progress float64 `json:"progress"`
}
