package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"hoteldesk/internal/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
	sendBuffer = 64
)

// Event is a committed hotel change pushed to connected clients.
type Event struct {
	Type    string      `json:"type"`
	RoomNo  string      `json:"roomNo,omitempty"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload,omitempty"`
}

// clientMessage is what clients may send over the socket.
type clientMessage struct {
	Type   string `json:"type"`
	RoomNo string `json:"roomNo"`
}

// connection represents a single WebSocket client. A client with no
// subscriptions receives every event.
type connection struct {
	id    uint64
	conn  *websocket.Conn
	send  chan []byte
	rooms map[string]bool
}

// Hub fans hotel events out to WebSocket clients.
type Hub struct {
	mu          sync.RWMutex
	connections map[uint64]*connection
	nextID      uint64
	logger      logger.Logger
	upgrader    websocket.Upgrader
	now         func() time.Time
}

// NewHub builds a hub. checkOrigin decides which browser origins may
// connect; nil allows all.
func NewHub(log logger.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if log == nil {
		log = logger.NewNop()
	}
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		connections: make(map[uint64]*connection),
		logger:      log.With("component", "live_hub"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		now: time.Now,
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Publish sends an event to every client subscribed to roomNo, and to every
// client without subscriptions. Hotel-wide events (empty roomNo) go to all.
// Slow clients miss events rather than block the caller.
func (h *Hub) Publish(eventType, roomNo string, payload interface{}) {
	data, err := json.Marshal(&Event{Type: eventType, RoomNo: roomNo, At: h.now().UTC(), Payload: payload})
	if err != nil {
		h.logger.Error("marshal live event", "type", eventType, "error", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.connections {
		if roomNo != "" && len(c.rooms) > 0 && !c.rooms[roomNo] {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.logger.Warn("live client too slow, event dropped", "client", c.id, "type", eventType)
		}
	}
}

// ServeWS upgrades the request and blocks until the client disconnects.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, rooms []string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.nextID++
	c := &connection{
		id:    h.nextID,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		rooms: make(map[string]bool),
	}
	for _, rn := range rooms {
		if rn != "" {
			c.rooms[rn] = true
		}
	}
	h.connections[c.id] = c
	h.mu.Unlock()

	h.logger.Debug("live client connected", "client", c.id, "rooms", rooms)

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.connections[c.id]; ok && existing == c {
		delete(h.connections, c.id)
		close(c.send)
	}
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		h.logger.Debug("live client disconnected", "client", c.id)
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("live client read failed", "client", c.id, "error", err)
			}
			return
		}

		var m clientMessage
		if err := json.Unmarshal(msg, &m); err != nil || m.RoomNo == "" {
			continue
		}

		switch m.Type {
		case "subscribe":
			h.mu.Lock()
			c.rooms[m.RoomNo] = true
			h.mu.Unlock()
		case "unsubscribe":
			h.mu.Lock()
			delete(c.rooms, m.RoomNo)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) writePump(c *connection) {
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
