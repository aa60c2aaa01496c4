package ws

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"roamhub/backend/services/hub-service/internal/service"
)

// message is what subscribers receive for every status change.
type message struct {
	service.ChangeEvent
	Record string `json:"record,omitempty"`
}

// Hub tracks feed subscribers and broadcasts status changes to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	logger      *zap.Logger
}

// NewHub builds subscriber registry.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{connections: make(map[string]*Connection), logger: logger}
}

// Add registers new connection.
func (h *Hub) Add(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[conn.ID()] = conn
}

// Remove removes connection.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.connections, id)
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Notify sends status events to interested subscribers. Data events are not
// part of the feed.
func (h *Hub) Notify(_ context.Context, events []service.ChangeEvent) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.connections) == 0 {
		return nil
	}
	for _, e := range events {
		if e.Kind != service.KindEVSEStatus {
			continue
		}
		data, err := json.Marshal(message{ChangeEvent: e, Record: e.Fragment})
		if err != nil {
			return err
		}
		for _, conn := range h.connections {
			if conn.Wants(e.OperatorID) {
				conn.Send(data)
			}
		}
	}
	return nil
}
