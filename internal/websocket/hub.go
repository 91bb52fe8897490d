package websocket

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrClientClosed is returned when attempting to send to a closed client
var ErrClientClosed = errors.New("client is closed")

// EventPublisher is what services see: fire-and-forget delivery of an
// event to everyone watching a workspace
type EventPublisher interface {
	Publish(workspaceID int32, event Event)
}

// NoOpPublisher discards events; used in tests and when the socket
// layer is disabled
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(workspaceID int32, event Event) {}

// ClientConn is the subset of Client the hub needs; tests substitute
// their own implementation
type ClientConn interface {
	ID() string
	WorkspaceID() int32
	Send(data []byte) error
	Close() error
}

// Hub tracks WebSocket connections per workspace. Safe for concurrent use.
type Hub struct {
	mu         sync.RWMutex
	workspaces map[int32]map[string]ClientConn
}

var _ EventPublisher = (*Hub)(nil)

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{workspaces: make(map[int32]map[string]ClientConn)}
}

// Register adds a client under its workspace
func (h *Hub) Register(client ClientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ws := client.WorkspaceID()
	if h.workspaces[ws] == nil {
		h.workspaces[ws] = make(map[string]ClientConn)
	}
	h.workspaces[ws][client.ID()] = client

	log.Debug().Int32("workspace_id", ws).Str("client_id", client.ID()).Msg("WebSocket client registered")
}

// Unregister removes a client; empty workspace rooms are dropped
func (h *Hub) Unregister(client ClientConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ws := client.WorkspaceID()
	clients, ok := h.workspaces[ws]
	if !ok {
		return
	}
	if _, exists := clients[client.ID()]; !exists {
		return
	}
	delete(clients, client.ID())
	if len(clients) == 0 {
		delete(h.workspaces, ws)
	}

	log.Debug().Int32("workspace_id", ws).Str("client_id", client.ID()).Msg("WebSocket client unregistered")
}

// Publish implements EventPublisher by broadcasting to the workspace's
// clients. Sends happen off the hub lock, each in its own goroutine, so
// a slow client cannot stall the caller.
func (h *Hub) Publish(workspaceID int32, event Event) {
	data, err := event.ToJSON()
	if err != nil {
		log.Error().Err(err).Str("event_type", event.Type).Msg("Failed to serialize event")
		return
	}

	h.mu.RLock()
	clients := make([]ClientConn, 0, len(h.workspaces[workspaceID]))
	for _, c := range h.workspaces[workspaceID] {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		go func(c ClientConn) {
			if err := c.Send(data); err != nil {
				log.Warn().Err(err).Str("client_id", c.ID()).Msg("Failed to send to client")
			}
		}(client)
	}
}

// ClientCount returns the number of clients connected to a workspace
func (h *Hub) ClientCount(workspaceID int32) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.workspaces[workspaceID])
}
