package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/eberechi/shopsync-backend/internal/sync"
	"github.com/eberechi/shopsync-backend/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The desktop frontend runs on a local origin the browser treats as
	// cross-site; the API key and JWT already gate who can connect.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes sync status updates to connected desktop frontends so the
// status indicator updates live instead of polling.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client, 16),
		unregister: make(chan *client, 16),
		broadcast:  make(chan []byte, 64),
	}
}

// Run owns the client set. All membership changes and broadcasts funnel
// through here, so no locking is needed.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			logger.Debug("WebSocket client connected", map[string]interface{}{
				"clients": len(h.clients),
			})

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case message := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- message:
				default:
					// Slow client; drop it rather than block the hub.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// NotifySyncStatus implements the sync status notifier: each update goes out
// to every connected client as a JSON frame.
func (h *Hub) NotifySyncStatus(status sync.Status) {
	data, err := json.Marshal(gin.H{
		"type":   "sync_status",
		"status": status,
	})
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
		logger.Debug("Dropping sync status broadcast, channel full", nil)
	}
}

// ServeWS upgrades the request and attaches the client to the hub
// GET /ws/sync_status
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	cl := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 16),
	}
	h.register <- cl

	go cl.writePump()
	go cl.readPump()
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
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

// readPump discards inbound frames; the status socket is one-way. It exists
// to notice the peer going away and unregister the client.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
