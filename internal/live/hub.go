// Package live streams lead activity events to connected admin consoles.
package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/impyreal/realty-ai-platform/internal/http/middleware"
	"github.com/impyreal/realty-ai-platform/pkg/logging"
)

// Event is one activity notification pushed to admin consoles.
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans activity events out to every connected admin console.
type Hub struct {
	secret   string
	logger   *logging.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[*websocket.Conn]chan Event
}

// NewHub creates a Hub. secret validates the admin token on connect.
func NewHub(secret string, logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Hub{
		secret: secret,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]chan Event),
	}
}

// Publish broadcasts an event to all connected consoles. Slow consumers
// are skipped rather than blocking the publisher.
func (h *Hub) Publish(event string, payload any) {
	evt := Event{Type: event, Payload: payload, Timestamp: time.Now().UTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.conns {
		select {
		case ch <- evt:
		default:
		}
	}
}

// ConnCount reports the number of active console connections.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// HandleFeed upgrades GET /admin/live?token= to a WebSocket feed.
// Browsers cannot set Authorization headers on WebSocket requests, so
// the token rides in the query string instead.
func (h *Hub) HandleFeed(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	claims, err := middleware.ParseAdminToken(h.secret, token)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("live: websocket upgrade failed", "error", err)
		return
	}

	ch := make(chan Event, 16)
	h.mu.Lock()
	h.conns[conn] = ch
	h.mu.Unlock()

	h.logger.Info("live: console connected", "subject", claims.Subject)

	go h.writeLoop(conn, ch)
	h.readLoop(conn)
}

func (h *Hub) writeLoop(conn *websocket.Conn, ch chan Event) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(evt)
			if err != nil {
				h.logger.Error("live: failed to encode event", "error", err)
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains the connection until the client disconnects.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.drop(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	ch, ok := h.conns[conn]
	if ok {
		delete(h.conns, conn)
	}
	h.mu.Unlock()
	if ok {
		close(ch)
	}
	conn.Close()
	h.logger.Debug("live: console disconnected")
}
