package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"cowork-booking/internal/pkg/metrics"
	"cowork-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
	sendBufferSize = 256
)

// Hub groups live subscribers by location and fans events out to them.
// Broadcast never blocks: a subscriber whose buffer is full is dropped, the
// same as one whose connection died.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID]map[*client]bool)}
}

// Notify implements the live fan-out port: fire-and-forget, no error surfaces
// to the caller.
func (h *Hub) Notify(locationID uuid.UUID, ev commands.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to marshal live event", "event", ev.Event, "error", err.Error())
		return
	}

	var dead []*client
	h.mu.RLock()
	for c := range h.clients[locationID] {
		select {
		case c.send <- payload:
		default:
			dead = append(dead, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range dead {
		h.remove(c)
	}
}

// SubscriberCount is used by tests and the health surface.
func (h *Hub) SubscriberCount(locationID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[locationID])
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	if h.clients[c.locationID] == nil {
		h.clients[c.locationID] = make(map[*client]bool)
	}
	h.clients[c.locationID][c] = true
	h.mu.Unlock()
	metrics.LiveSubscribers.Inc()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.clients[c.locationID]
	if !ok {
		return
	}
	if _, ok := clients[c]; !ok {
		return
	}
	delete(clients, c)
	close(c.send)
	if len(clients) == 0 {
		delete(h.clients, c.locationID)
	}
	metrics.LiveSubscribers.Dec()
}

type client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	locationID uuid.UUID
}

// readPump only watches for the peer going away; incoming frames are ignored.
func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Serve upgrades the request and subscribes it to the location's events until
// the connection drops.
func (h *Hub) Serve(c *gin.Context, locationID uuid.UUID) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err.Error())
		return
	}

	cl := &client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		locationID: locationID,
	}
	h.add(cl)

	go cl.writePump()
	cl.readPump()
}
