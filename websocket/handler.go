// file: websocket/handler.go
package websocket

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"lanmomo-web/logger"
	"lanmomo-web/services"
)

// Handler upgrades view websockets and runs their views.
type Handler struct {
	Hub     *Hub
	Config  ViewConfig
	Metrics Metrics

	upgrader websocket.Upgrader
}

// NewHandler creates a handler. An empty allowedOrigins only accepts
// same-host origins.
func NewHandler(hub *Hub, cfg ViewConfig, metrics Metrics, allowedOrigins []string) *Handler {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &Handler{
		Hub:     hub,
		Config:  cfg,
		Metrics: metrics,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin(allowedOrigins),
		},
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if len(allowed) == 0 {
			u, err := url.Parse(origin)
			return err == nil && strings.EqualFold(u.Host, r.Host)
		}
		for _, o := range allowed {
			if strings.EqualFold(strings.TrimRight(o, "/"), origin) {
				return true
			}
		}
		logger.Warn.Printf("[checkOrigin] Rejecting origin %q", origin)
		return false
	}
}

// Serve upgrades the request and opens the view named by ?view=.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, visitor *services.Visitor) {
	kind, err := ParseViewKind(r.URL.Query().Get("view"))
	if err != nil {
		logger.Warn.Printf("[Handler.Serve] Rejecting websocket: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info.Printf("[Handler.Serve] Upgrading to WS: remoteAddr=%v, view=%s", r.RemoteAddr, kind)
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already answered the request
		logger.Error.Printf("[Handler.Serve] WebSocket upgrade error: %v", err)
		return
	}

	h.run(NewConnection(wsConn), kind, visitor)
}

// run binds a view to conn. The view lives exactly as long as the read loop.
func (h *Handler) run(conn *Connection, kind ViewKind, visitor *services.Visitor) *View {
	view := NewView(kind, visitor, conn, h.Config, h.Metrics)
	h.Hub.register(view, conn)

	go conn.writePump()
	// the request context ends when the upgrade handler returns
	view.Open(context.Background())
	go conn.readPump(view.HandleMessage, func() {
		view.Close()
		h.Hub.unregister(view)
	})
	return view
}
