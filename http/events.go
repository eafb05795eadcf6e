package http

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/middlemost/radio"
)

// Websocket timing.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// hub pushes session state to connected websocket clients. A client
// receives the current state on connect and again after every change.
type hub struct {
	once    sync.Once
	closing chan struct{}
	wg      sync.WaitGroup

	session *radio.Session
	clients map[*client]struct{}

	register   chan *client
	unregister chan *client

	logOutput io.Writer
}

// newHub returns a new instance of hub.
func newHub(session *radio.Session) *hub {
	return &hub{
		closing:    make(chan struct{}),
		session:    session,
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		logOutput:  ioutil.Discard,
	}
}

// open starts the hub's event loop.
func (h *hub) open() {
	h.wg.Add(1)
	go func() { defer h.wg.Done(); h.run() }()
}

// close disconnects all clients and stops the event loop.
func (h *hub) close() {
	h.once.Do(func() { close(h.closing) })
	h.wg.Wait()
}

func (h *hub) run() {
	defer func() {
		for c := range h.clients {
			h.drop(c)
		}
	}()

	for {
		select {
		case <-h.closing:
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.send(c, h.snapshot())

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
			}

		case <-h.session.C():
			msg := h.snapshot()
			for c := range h.clients {
				h.send(c, msg)
			}
		}
	}
}

// send queues msg for c, dropping clients that cannot keep up.
func (h *hub) send(c *client, msg []byte) {
	if msg == nil {
		return
	}
	select {
	case c.send <- msg:
	default:
		fmt.Fprintf(h.logOutput, "events: slow client dropped: addr=%s\n", c.conn.RemoteAddr())
		h.drop(c)
	}
}

func (h *hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
}

// snapshot returns the encoded session state. Covers are only included for
// the current track; clients fetch the full playlist from GET /api/session.
func (h *hub) snapshot() []byte {
	state := h.session.State()
	tracks := make([]*radio.Track, len(state.Tracks))
	for i, t := range state.Tracks {
		other := *t
		other.Cover = ""
		tracks[i] = &other
	}
	state.Tracks = tracks

	buf, err := json.Marshal(state)
	if err != nil {
		fmt.Fprintf(h.logOutput, "events: encode error: err=%s\n", err)
		return nil
	}
	return buf
}

// serveWS upgrades the request and registers the connection.
func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Fprintf(h.logOutput, "events: upgrade error: err=%s\n", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, 16)}
	select {
	case h.register <- c:
	case <-h.closing:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// client is a single websocket connection.
type client struct {
	hub  *hub
	conn *websocket.Conn
	send chan []byte
}

// readPump discards incoming messages and unregisters on disconnect.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.closing:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump writes queued messages and keeps the connection alive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
