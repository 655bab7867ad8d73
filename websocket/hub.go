// file: websocket/hub.go
package websocket

import (
	"sync"

	"lanmomo-web/logger"
)

// Hub tracks every open view and its connection.
type Hub struct {
	mu      sync.Mutex
	views   map[*View]*Connection
	metrics Metrics
}

// NewHub creates an empty hub.
func NewHub(metrics Metrics) *Hub {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Hub{views: make(map[*View]*Connection), metrics: metrics}
}

func (h *Hub) register(v *View, c *Connection) {
	h.mu.Lock()
	h.views[v] = c
	count := len(h.views)
	h.mu.Unlock()
	h.metrics.OpenViews(count)
}

func (h *Hub) unregister(v *View) {
	h.mu.Lock()
	if _, ok := h.views[v]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.views, v)
	count := len(h.views)
	h.mu.Unlock()
	h.metrics.OpenViews(count)
}

// Count is the number of open views.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.views)
}

// CloseAll tears down every open view, e.g. on server shutdown.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	views := make(map[*View]*Connection, len(h.views))
	for v, c := range h.views {
		views[v] = c
	}
	h.mu.Unlock()

	logger.Info.Printf("[Hub.CloseAll] Closing %d open view(s)", len(views))
	for v, c := range views {
		v.Close()
		c.shutdown()
		h.unregister(v)
	}
}
