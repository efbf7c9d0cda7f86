package realtime

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Event is one named frame pushed to a client.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// HiredPayload is the wire payload of the "hired" event.
type HiredPayload struct {
	GigTitle string `json:"gigTitle"`
}

// Hub maps user ids to their live connection. At most one connection is
// addressable per user; the latest registration wins. Delivery is best
// effort: no queueing, no retries, and a missing or slow client is never an
// error for the caller.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

// Client is the handle for one websocket connection.
type Client struct {
	conn   *websocket.Conn
	send   chan Event
	done   chan struct{}
	userId string // guarded by the hub mutex
}

// Register binds userId to the client, displacing any prior handle for that
// user. The displaced connection stays open; it just stops being addressable.
func (h *Hub) Register(userId string, c *Client) {
	if len(userId) == 0 {
		return
	}

	h.mu.Lock()
	// re-registering under a new identity releases the old one
	if len(c.userId) > 0 && c.userId != userId && h.clients[c.userId] == c {
		delete(h.clients, c.userId)
	}
	c.userId = userId
	h.clients[userId] = c
	h.mu.Unlock()

	log.WithField("userId", userId).Debug("realtime: client registered")
}

// Unregister removes the client's registry entry. Matching is by handle
// identity: if the user already reconnected under a new handle, the stale
// entry must not evict the new one.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(c.userId) == 0 {
		return
	}
	if h.clients[c.userId] == c {
		delete(h.clients, c.userId)
		log.WithField("userId", c.userId).Debug("realtime: client unregistered")
	}
}

// Notify pushes an event to the user's live connection if one is registered.
// Absence is not an error, and a client with a full send buffer is skipped
// rather than blocked on.
func (h *Hub) Notify(userId string, event Event) {
	h.mu.RLock()
	c, ok := h.clients[userId]
	h.mu.RUnlock()

	if !ok {
		return
	}

	select {
	case c.send <- event:
	case <-c.done:
	default:
		log.WithField("userId", userId).Warn("realtime: client send buffer full, event dropped")
	}
}

// ActiveConnections reports the number of registered clients.
func (h *Hub) ActiveConnections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// registerMessage is the only inbound frame a client sends: it claims a user
// identity for the connection.
type registerMessage struct {
	Event  string `json:"event"`
	UserId string `json:"userId"`
}

// HandleWS upgrades the request and services the connection until disconnect.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("remoteAddr", r.RemoteAddr).Error("realtime: websocket upgrade failed")
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan Event, sendBuffer),
		done: make(chan struct{}),
	}

	go client.writePump()
	client.readPump(h)
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		h.Unregister(c)
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg registerMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			return
		}
		if msg.Event == "register" {
			h.Register(msg.UserId, c)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
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
