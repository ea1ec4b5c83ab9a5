package ws

import (
	"context"
	"sync"

	"github.com/KirkDiggler/taskguess/internal/models"
	"github.com/rs/zerolog"
)

// HubConfig holds configuration for the hub
type HubConfig struct {
	Logger zerolog.Logger
}

// Hub tracks live connections by player id and delivers session events to
// them. It is the session Publisher of the process.
type Hub struct {
	mu      sync.RWMutex
	clients map[models.PlayerID]*client
	logger  zerolog.Logger
}

// NewHub creates an empty hub
func NewHub(cfg *HubConfig) *Hub {
	logger := zerolog.Nop()
	if cfg != nil {
		logger = cfg.Logger
	}

	return &Hub{
		clients: make(map[models.PlayerID]*client),
		logger:  logger,
	}
}

// Publish encodes the event once and queues it for every connected
// recipient. It never blocks; a recipient that cannot keep up is dropped.
func (h *Hub) Publish(ctx context.Context, event *models.Event) {
	if event == nil || len(event.Recipients) == 0 {
		return
	}

	msg, err := encode(event.Type, event.Payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event", string(event.Type)).Msg("failed to encode event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range event.Recipients {
		c, ok := h.clients[id]
		if !ok {
			continue
		}

		if !c.enqueue(msg) {
			h.logger.Warn().
				Str("player", id.String()).
				Str("event", string(event.Type)).
				Msg("send buffer full, dropping connection")
			c.close()
		}
	}
}

// send queues a message for a single connection
func (h *Hub) send(c *client, t models.EventType, payload any) {
	msg, err := encode(t, payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event", string(t)).Msg("failed to encode event")
		return
	}

	if !c.enqueue(msg) {
		h.logger.Warn().Str("player", c.id.String()).Msg("send buffer full, dropping connection")
		c.close()
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[c.id]; ok && old != c {
		old.close()
	}
	h.clients[c.id] = c
}

// unregister removes the connection unless another one took its id
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.clients[c.id]; ok && current == c {
		delete(h.clients, c.id)
	}
}

// Count returns the number of live connections
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients)
}

// Close drops every connection
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, c := range h.clients {
		c.close()
		delete(h.clients, id)
	}
}
