package ws_lobby

import (
	"log/slog"
	"sync"
)

type Metrics interface {
	ConnectionOpened()
	ConnectionClosed()
}

// Hub keeps track of connected clients and which lobby group each one
// belongs to. It implements the coordinator's Broadcaster port: group
// broadcasts and one-shot sends are fire-and-forget; a client whose send
// buffer is full is dropped rather than blocking the sender.
type Hub struct {
	mu sync.RWMutex

	clients map[string]*Client            // conn id -> client
	groups  map[string]map[string]*Client // lobby id -> conn id -> client

	logger  *slog.Logger
	metrics Metrics
}

type HubOption func(*Hub)

func WithLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

func WithMetrics(m Metrics) HubOption {
	return func(h *Hub) {
		h.metrics = m
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients: make(map[string]*Client),
		groups:  make(map[string]map[string]*Client),
		logger:  slog.Default(),
		metrics: nopMetrics{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.metrics.ConnectionOpened()
	h.logger.Info("client registered", "conn_id", client.ID)
}

// Remove forgets the client and closes its send channel, stopping the
// write pump.
func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	for lobbyID := range h.groups {
		h.dropFromGroup(lobbyID, client.ID)
	}
	close(client.send)
	h.metrics.ConnectionClosed()
	h.logger.Info("client unregistered", "conn_id", client.ID)
}

func (h *Hub) JoinGroup(connID, lobbyID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	if _, ok := h.groups[lobbyID]; !ok {
		h.groups[lobbyID] = make(map[string]*Client)
	}
	h.groups[lobbyID][connID] = client
}

func (h *Hub) LeaveGroup(connID, lobbyID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.dropFromGroup(lobbyID, connID)
}

func (h *Hub) Broadcast(lobbyID, event string, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for connID, client := range h.groups[lobbyID] {
		if !h.trySend(client, Event{Type: event, Payload: payload}) {
			h.disconnectLocked(connID)
		}
	}
}

func (h *Hub) SendToOne(connID, event string, payload any) {
	h.Send(connID, Event{Type: event, Payload: payload})
}

// Send delivers a fully formed event, acks included, to one connection.
func (h *Hub) Send(connID string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	if !h.trySend(client, event) {
		h.disconnectLocked(connID)
	}
}

func (h *Hub) trySend(client *Client, event Event) bool {
	select {
	case client.send <- event:
		return true
	default:
		// Slow or stuck client.
		return false
	}
}

func (h *Hub) disconnectLocked(connID string) {
	client, ok := h.clients[connID]
	if !ok {
		return
	}
	delete(h.clients, connID)
	for lobbyID := range h.groups {
		h.dropFromGroup(lobbyID, connID)
	}
	close(client.send)
	h.metrics.ConnectionClosed()
	h.logger.Warn("client dropped, send buffer full", "conn_id", connID)
}

func (h *Hub) dropFromGroup(lobbyID, connID string) {
	group, ok := h.groups[lobbyID]
	if !ok {
		return
	}
	delete(group, connID)
	if len(group) == 0 {
		delete(h.groups, lobbyID)
	}
}

type nopMetrics struct{}

func (nopMetrics) ConnectionOpened() {}
func (nopMetrics) ConnectionClosed() {}
