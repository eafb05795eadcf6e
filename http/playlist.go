package http

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/middlemost/radio"
)

// playlistHandler represents an HTTP handler for the session playlist feed.
type playlistHandler struct {
	router chi.Router

	session *radio.Session
}

// newPlaylistHandler returns a new instance of playlistHandler.
func newPlaylistHandler() *playlistHandler {
	h := &playlistHandler{router: chi.NewRouter()}
	h.router.Get("/", h.handleGet)
	return h
}

// ServeHTTP implements http.Handler.
func (h *playlistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *playlistHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	tracks := h.session.Tracks()

	// Track addresses are resolved against the requested host.
	baseURL := url.URL{Scheme: "http", Host: r.Host, Path: "/"}
	if r.TLS != nil {
		baseURL.Scheme = "https"
	}

	// Convert playlist to RSS feed.
	rss := playlistRSS{
		Channel: channelRSS{
			Title:         "Radio",
			Description:   cdata{"Now playing."},
			Summary:       cdata{"Now playing."},
			LastBuildDate: time.Now().UTC().Format(time.RFC1123Z),
			Items:         make([]itemRSS, len(tracks)),
		},
	}
	if cur := h.session.Current(); cur != nil {
		rss.Channel.Description = cdata{fmt.Sprintf("Now playing: %s - %s", cur.Artist, cur.Title)}
	}

	// Convert tracks to RSS.
	for i, track := range tracks {
		enclosureURL := track.URL
		if u, err := baseURL.Parse(track.URL); err == nil {
			enclosureURL = u.String()
		}

		rss.Channel.Items[i] = itemRSS{
			Title:       track.Title,
			Description: cdata{track.Artist},
			Summary:     cdata{track.Artist},
			Link:        enclosureURL,
			Duration:    formatDuration(time.Duration(track.Duration * float64(time.Second))),
			Enclosure: enclosureRSS{
				URL:  enclosureURL,
				Type: radio.ContentType(track.File),
			},
		}
	}

	w.Header().Set("Content-Type", "text/xml")
	if err := xml.NewEncoder(w).EncodeElement(
		rss,
		xml.StartElement{
			Name: xml.Name{Local: "rss"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "xmlns:itunes"}, Value: "http://www.itunes.com/dtds/podcast-1.0.dtd"},
				{Name: xml.Name{Local: "xmlns:atom"}, Value: "http://www.w3.org/2005/Atom"},
				{Name: xml.Name{Local: "version"}, Value: "2.0"},
			},
		},
	); err != nil {
		Error(w, r, err)
		return
	}
}

// playlistRSS represents an RSS feed for a playlist.
type playlistRSS struct {
	Channel channelRSS `xml:"channel"`
}

type channelRSS struct {
	Title         string    `xml:"title"`
	Description   cdata     `xml:"description"`
	Summary       cdata     `xml:"itunes:summary"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []itemRSS `xml:"item"`
}

type itemRSS struct {
	Title       string       `xml:"title"`
	Description cdata        `xml:"description"`
	Summary     cdata        `xml:"itunes:summary"`
	Link        string       `xml:"link"`
	Duration    string       `xml:"itunes:duration,omitempty"`
	Enclosure   enclosureRSS `xml:"enclosure"`
}

type enclosureRSS struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

type cdata struct {
	Value string `xml:",cdata"`
}

// formatDuration formats d in HH:MM:SS format.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return ""
	}

	s := (d / time.Second) % 60
	m := (d / time.Minute) % 60
	h := d / time.Hour
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
