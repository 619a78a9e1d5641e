// Package stream publishes book.Snapshot updates to WebSocket subscribers.
// Adapted from DimaJoyti-ai-agentic-crypto-browser/internal/terminal's
// WebSocketManager: an Upgrader plus register/unregister/broadcast channels
// drained by a single Run goroutine, one per-client writer goroutine each.
package stream

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"fenrir/internal/book"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan book.Snapshot
}

// Hub fans out book.Snapshot values to every currently-connected client.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan book.Snapshot
}

// NewHub constructs an idle Hub. Call Run to start fanning out.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan book.Snapshot, sendBuffer),
	}
}

// Broadcast enqueues a snapshot for delivery to every connected client.
// Never blocks on a slow client — if a client's own send buffer is full, it
// is dropped from the hub rather than stalling every other subscriber.
func (h *Hub) Broadcast(snap book.Snapshot) {
	h.broadcast <- snap
}

// Run drains register/unregister/broadcast until ctx-style stop is
// signalled by closing done.
func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			for c := range h.clients {
				close(c.send)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
		case snap := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- snap:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// ServeWS upgrades the HTTP request to a WebSocket connection and registers
// it with the hub. Each connection gets its own write pump goroutine; reads
// are drained and discarded (this is a publish-only feed).
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("stream: websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan book.Snapshot, sendBuffer)}
	h.register <- c

	go h.readPump(c)
	go h.writePump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for snap := range c.send {
		payload, err := json.Marshal(snap)
		if err != nil {
			log.Error().Err(err).Msg("stream: marshal snapshot")
			continue
		}
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
