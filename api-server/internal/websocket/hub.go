package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypeNotification   MessageType = "notification"
	MessageTypeClear          MessageType = "clear"
	MessageTypeNavigate       MessageType = "navigate"
	MessageTypeResultsUpdated MessageType = "results_updated"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 32
)

// Message represents a WebSocket message pushed to an operator session
type Message struct {
	Type         MessageType                    `json:"type"`
	SessionID    string                         `json:"sessionId"`
	Notification *models.Notification           `json:"notification,omitempty"`
	Route        string                         `json:"route,omitempty"`
	State        *models.PaymentCollectionState `json:"state,omitempty"`
	TotalCount   *int                           `json:"totalCount,omitempty"`
	Timestamp    int64                          `json:"timestamp"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID uuid.UUID
}

// Hub manages WebSocket connections per operator session
type Hub struct {
	clients    map[uuid.UUID]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	mu         sync.RWMutex
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.sessionID] == nil {
				h.clients[client.sessionID] = make(map[*Client]bool)
			}
			h.clients[client.sessionID][client] = true
			log.Printf("WebSocket: Client registered for session %s (total: %d)", client.sessionID, len(h.clients[client.sessionID]))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()

		case message := <-h.broadcast:
			sessionID, err := uuid.Parse(message.SessionID)
			if err != nil {
				log.Printf("WebSocket: Invalid session ID in broadcast: %s", message.SessionID)
				continue
			}

			data, err := json.Marshal(message)
			if err != nil {
				log.Printf("WebSocket: Failed to marshal message: %v", err)
				continue
			}

			h.mu.Lock()
			for client := range h.clients[sessionID] {
				select {
				case client.send <- data:
				default:
					h.remove(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// remove drops a client; callers hold h.mu
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.sessionID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	log.Printf("WebSocket: Client unregistered from session %s (remaining: %d)", client.sessionID, len(clients))
	if len(clients) == 0 {
		delete(h.clients, client.sessionID)
	}
}

// Publish queues a message for every client of its session
func (h *Hub) Publish(msg *Message) {
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Printf("WebSocket: Broadcast queue full, dropping %s for session %s", msg.Type, msg.SessionID)
	}
}

// Disconnect drops every client of a session; their write pumps send a close frame
func (h *Hub) Disconnect(sessionID string) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[id] {
		h.remove(client)
	}
}

// GetClientCount returns the number of clients attached to a session
func (h *Hub) GetClientCount(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionID])
}

// ServeWS upgrades the request and attaches the connection to the {id} session
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid session ID", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket: Upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		sessionID: sessionID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump discards inbound frames and detects disconnects
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket: Read error for session %s: %v", c.sessionID, err)
			}
			return
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
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
