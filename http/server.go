package http

import (
	"io"
	"io/ioutil"
	"log"
	"net"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/middlemost/radio"
	"golang.org/x/crypto/acme/autocert"
)

// Server represents an HTTP server.
type Server struct {
	ln  net.Listener
	hub *hub

	// Services
	FileService radio.FileService
	Session     *radio.Session

	// Server options.
	Addr        string // bind address
	Host        string // external hostname
	Autocert    bool   // ACME autocert
	Recoverable bool   // panic recovery

	LogOutput io.Writer
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	return &Server{
		Recoverable: true,
		LogOutput:   ioutil.Discard,
	}
}

// Open opens the server.
func (s *Server) Open() error {
	// Open listener on specified bind address.
	// Use HTTPS port if autocert is enabled.
	if s.Autocert {
		s.ln = autocert.NewListener(s.Host)
	} else {
		ln, err := net.Listen("tcp", s.Addr)
		if err != nil {
			return err
		}
		s.ln = ln
	}

	// Start pushing session changes to websocket clients.
	s.hub = newHub(s.Session)
	s.hub.logOutput = s.LogOutput
	s.hub.open()

	// Start HTTP server.
	go http.Serve(s.ln, s.Handler())

	return nil
}

// Close closes the socket and disconnects websocket clients.
func (s *Server) Close() error {
	if s.ln != nil {
		s.ln.Close()
	}
	if s.hub != nil {
		s.hub.close()
	}
	return nil
}

// URL returns a base URL string with the scheme and host.
// This is available after the server has been opened.
func (s *Server) URL() url.URL {
	if s.ln == nil {
		return url.URL{}
	}

	if s.Autocert {
		return url.URL{Scheme: "https", Host: s.Host}
	}
	return url.URL{Scheme: "http", Host: s.ln.Addr().String()}
}

// Handler returns the server's router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Attach router middleware.
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.New(s.LogOutput, "", log.LstdFlags),
		NoColor: true,
	}))
	if s.Recoverable {
		r.Use(middleware.Recoverer)
	}
	r.Use(s.withLogOutput)
	r.Mount("/debug", middleware.Profiler())

	// Audio content is served as-is.
	r.Mount("/music", s.fileHandler())

	// Session routes carry a websocket and stay uncompressed.
	r.Mount("/api/session", s.sessionHandler())

	// Create API routes.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Compress(5, "application/json"))
		r.Get("/ping", s.handlePing)
		r.Mount("/api/tracks", s.trackHandler())
		r.Mount("/api/playlist.rss", s.playlistHandler())
	})

	return r
}

// withLogOutput attaches the server's log output to the request context.
func (s *Server) withLogOutput(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s.LogOutput)))
	})
}

// handlePing returns a success.
func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (s *Server) fileHandler() *fileHandler {
	h := newFileHandler()
	h.fileService = s.FileService
	return h
}

func (s *Server) trackHandler() *trackHandler {
	h := newTrackHandler()
	h.fileService = s.FileService
	return h
}

func (s *Server) playlistHandler() *playlistHandler {
	h := newPlaylistHandler()
	h.session = s.Session
	return h
}

func (s *Server) sessionHandler() *sessionHandler {
	h := newSessionHandler()
	h.session = s.Session
	h.hub = s.hub
	return h
}
