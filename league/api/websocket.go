// league/api/websocket.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Ftotnem/LEAGUE-SERVICES/shared/logger"
	"github.com/Ftotnem/LEAGUE-SERVICES/shared/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// WSMessage is the envelope of every message pushed to WebSocket clients.
type WSMessage struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub fans table updates out to connected WebSocket clients.
type Hub struct {
	clients    map[*wsClient]bool
	broadcast  chan []byte
	register   chan *wsClient
	unregister chan *wsClient
	done       chan struct{}
	lggr       logger.Logger

	mu    sync.RWMutex
	count int
}

type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewHub(lggr logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		done:       make(chan struct{}),
		lggr:       lggr.Named("ws-hub"),
	}
}

// Run serves registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = true
			h.setCount(len(h.clients))
			h.lggr.Debugf("Client registered, %d connected", len(h.clients))

		case c := <-h.unregister:
			if h.clients[c] {
				h.drop(c)
				h.lggr.Debugf("Client unregistered, %d connected", len(h.clients))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer.
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *wsClient) {
	delete(h.clients, c)
	close(c.send)
	h.setCount(len(h.clients))
}

func (h *Hub) setCount(n int) {
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// TableChanged broadcasts a new table. It never blocks the caller.
func (h *Hub) TableChanged(rows []models.StandingsRow) {
	msg, err := tableMessage(rows)
	if err != nil {
		h.lggr.Errorf("Failed to encode table message: %v", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.lggr.Warnf("Broadcast queue full, dropping table update")
	}
}

func tableMessage(rows []models.StandingsRow) ([]byte, error) {
	return json.Marshal(WSMessage{Type: "table", Timestamp: time.Now().Unix(), Data: rows})
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serve upgrades the request, queues the initial table and starts the pumps.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, initial []models.StandingsRow) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.lggr.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	c := &wsClient{hub: h, conn: conn, send: make(chan []byte, sendBuffer)}
	if msg, err := tableMessage(initial); err == nil {
		c.send <- msg
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// readPump discards client messages and detects disconnects.
func (c *wsClient) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.lggr.Warnf("WebSocket error: %v", err)
			}
			return
		}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
