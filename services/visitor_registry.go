// File: services/visitor_registry.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"lanmomo-web/logger"
)

// Visitor is one browser: its own upstream client (and so its own upstream
// cookie session) plus its own auth flag.
type Visitor struct {
	ID      string
	API     LanAPI
	Session *SessionState

	mu       sync.Mutex
	lastSeen time.Time
	views    int
}

// OpenView marks a view as bound to the visitor; idle sweeps skip visitors
// with open views.
func (v *Visitor) OpenView() {
	v.mu.Lock()
	v.views++
	v.mu.Unlock()
}

// CloseView undoes OpenView.
func (v *Visitor) CloseView() {
	v.mu.Lock()
	if v.views > 0 {
		v.views--
	}
	v.mu.Unlock()
}

func (v *Visitor) touch(now time.Time) {
	v.mu.Lock()
	v.lastSeen = now
	v.mu.Unlock()
}

func (v *Visitor) idleSince(now time.Time) (time.Duration, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return now.Sub(v.lastSeen), v.views == 0
}

// VisitorRegistry keeps visitors by the id stored in their session cookie.
type VisitorRegistry struct {
	mu       sync.Mutex
	visitors map[string]*Visitor
	newAPI   func() LanAPI
	now      func() time.Time
}

// NewVisitorRegistry creates a registry; newAPI builds the upstream client of
// each new visitor.
func NewVisitorRegistry(newAPI func() LanAPI) *VisitorRegistry {
	return &VisitorRegistry{
		visitors: make(map[string]*Visitor),
		newAPI:   newAPI,
		now:      time.Now,
	}
}

// Get returns the visitor with id, touching it.
func (r *VisitorRegistry) Get(id string) (*Visitor, bool) {
	r.mu.Lock()
	v, ok := r.visitors[id]
	r.mu.Unlock()
	if ok {
		v.touch(r.now())
	}
	return v, ok
}

// GetOrCreate returns the visitor with id, creating it when unknown. An empty
// id gets a fresh one; callers store v.ID back into the cookie.
func (r *VisitorRegistry) GetOrCreate(id string) *Visitor {
	if id != "" {
		if v, ok := r.Get(id); ok {
			return v
		}
	} else {
		id = uuid.NewString()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.visitors[id]; ok {
		v.touch(r.now())
		return v
	}
	v := &Visitor{
		ID:       id,
		API:      r.newAPI(),
		Session:  NewSessionState(),
		lastSeen: r.now(),
	}
	r.visitors[id] = v
	logger.Debug.Printf("[VisitorRegistry.GetOrCreate] New visitor=%s (total=%d)", id, len(r.visitors))
	return v
}

// Len is the number of tracked visitors.
func (r *VisitorRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.visitors)
}

// Sweep drops visitors idle for longer than timeout with no open view and
// returns how many were removed.
func (r *VisitorRegistry) Sweep(timeout time.Duration) int {
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, v := range r.visitors {
		idle, noViews := v.idleSince(now)
		if noViews && idle > timeout {
			logger.Info.Printf("[VisitorRegistry.Sweep] Removing inactive visitor=%s (idle=%v)", id, idle.Round(time.Second))
			delete(r.visitors, id)
			removed++
		}
	}
	return removed
}

// CleanupInactiveVisitors sweeps the registry every interval until ctx ends.
func (r *VisitorRegistry) CleanupInactiveVisitors(ctx context.Context, interval, timeout time.Duration) *Task {
	return Every(ctx, interval, func(context.Context) {
		r.Sweep(timeout)
	})
}
