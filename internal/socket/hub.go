package socket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// client pairs a connection with a mutex serializing writes to it. The
// websocket package allows at most one concurrent writer per connection.
type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(event string, payload interface{}) error {
	message, err := json.Marshal(map[string]interface{}{"event": event, "data": payload})
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, message)
}

// Hub tracks connected WebSocket clients, keyed by account id. Admins get
// notified of new pending listings, farmers of orders against their
// products.
type Hub struct {
	clients map[string]*client
	admins  map[string]bool
	mu      sync.RWMutex
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*client),
		admins:  make(map[string]bool),
		logger:  logger,
	}
}

// Register adds a client. isAdmin marks accounts that receive moderation
// broadcasts.
func (h *Hub) Register(accountID string, isAdmin bool, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[accountID] = &client{conn: conn}
	if isAdmin {
		h.admins[accountID] = true
	}
	h.logger.Info("websocket client registered", zap.String("accountID", accountID))
}

func (h *Hub) Unregister(accountID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[accountID]; ok {
		delete(h.clients, accountID)
		delete(h.admins, accountID)
		h.logger.Info("websocket client unregistered", zap.String("accountID", accountID))
	}
}

// Send delivers an event to one client. An offline client is not an error.
func (h *Hub) Send(accountID, event string, payload interface{}) error {
	h.mu.RLock()
	c, ok := h.clients[accountID]
	h.mu.RUnlock()

	if !ok {
		return nil
	}
	return c.write(event, payload)
}

// Broadcast delivers an event to every connected admin.
func (h *Hub) Broadcast(event string, payload interface{}) {
	h.mu.RLock()
	targets := make(map[string]*client, len(h.admins))
	for accountID := range h.admins {
		if c, ok := h.clients[accountID]; ok {
			targets[accountID] = c
		}
	}
	h.mu.RUnlock()

	for accountID, c := range targets {
		if err := c.write(event, payload); err != nil {
			h.logger.Warn("websocket send failed", zap.String("accountID", accountID), zap.Error(err))
		}
	}
}
