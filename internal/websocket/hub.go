package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a change or reminder notification broadcast to every open
// page. IDs are the backend's string identifiers.
type Message struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     string         `json:"id,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action, id string, extra map[string]any) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Extra:  extra,
	}
}

// NewReminder is the message sent when an event is about to start.
func NewReminder(eventID, date, title, body string) Message {
	return NewMessage("reminder", "due", eventID, map[string]any{
		"date":  date,
		"title": title,
		"body":  body,
	})
}

// SignedOut tells open pages the session ended and where to go.
func SignedOut() Message {
	return NewMessage("session", "signed_out", "", map[string]any{"redirect": "/login"})
}

// Hub fans notifications out to every open page.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger.With("component", "websocket"),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes c and closes its send channel. Unregistering twice
// is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	h.removeLocked(c, "")
	h.mu.Unlock()
}

func (h *Hub) removeLocked(c *Client, reason string) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	c.closeReason = reason
	close(c.send)
}

// Broadcast queues msg for every client. A client whose buffer is full
// misses the message.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("dropped message", "type", msg.Type, "remote", c.remote)
		}
	}
}

// CloseAll queues last for every client, then closes each connection once
// its queue drains.
func (h *Hub) CloseAll(reason string, last Message) {
	data, err := json.Marshal(last)
	if err != nil {
		h.logger.Error("marshal final message", "error", err)
		data = nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	n := len(h.clients)
	for c := range h.clients {
		if data != nil {
			select {
			case c.send <- data:
			default:
			}
		}
		h.removeLocked(c, reason)
	}
	if n > 0 {
		h.logger.Info("closed clients", "count", n, "reason", reason)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
