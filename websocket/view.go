// file: websocket/view.go
package websocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"lanmomo-web/logger"
	"lanmomo-web/models"
	"lanmomo-web/services"
)

// ViewKind names the page a websocket belongs to.
type ViewKind string

const (
	ViewMap     ViewKind = "map"
	ViewTickets ViewKind = "tickets"
	ViewPay     ViewKind = "pay"
	ViewServers ViewKind = "servers"
)

// ParseViewKind validates the ?view= query value.
func ParseViewKind(s string) (ViewKind, error) {
	switch k := ViewKind(s); k {
	case ViewMap, ViewTickets, ViewPay, ViewServers:
		return k, nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

// ViewConfig holds the knobs shared by all views.
type ViewConfig struct {
	SeatRefreshInterval   time.Duration
	ServerRefreshInterval time.Duration
	TimerTickInterval     time.Duration
	PCCapacity            int
	ConsoleCapacity       int
	DiscardStale          bool
}

// View is one open page of one visitor. Everything it starts is released by
// Close.
type View struct {
	ID      string
	Kind    ViewKind
	visitor *services.Visitor
	cfg     ViewConfig
	out     Messenger
	metrics Metrics

	ctx    context.Context
	cancel context.CancelFunc

	seats     *services.SeatMap
	flow      *services.ReservationFlow
	countdown *Countdown
	refresh   *services.Task
	sub       *services.Subscription

	mu     sync.Mutex
	ticket *models.Ticket

	closeOnce sync.Once
}

// NewView builds a view; nothing runs until Open.
func NewView(kind ViewKind, visitor *services.Visitor, out Messenger, cfg ViewConfig, metrics Metrics) *View {
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if cfg.SeatRefreshInterval <= 0 {
		cfg.SeatRefreshInterval = 5 * time.Second
	}
	if cfg.ServerRefreshInterval <= 0 {
		cfg.ServerRefreshInterval = 10 * time.Second
	}
	v := &View{
		ID:        uuid.NewString(),
		Kind:      kind,
		visitor:   visitor,
		cfg:       cfg,
		out:       out,
		metrics:   metrics,
		countdown: NewCountdown(out, cfg.TimerTickInterval),
	}
	if kind == ViewMap {
		v.seats = services.NewSeatMap(visitor.API, cfg.PCCapacity)
		v.seats.DiscardStale = cfg.DiscardStale
	}
	v.flow = services.NewReservationFlow(visitor.API, visitor.Session, v.seats)
	return v
}

// Open loads the page state, pushes it and starts the recurring refresh.
func (v *View) Open(parent context.Context) {
	v.ctx, v.cancel = context.WithCancel(parent)
	v.visitor.OpenView()
	v.sub = v.visitor.Session.Subscribe(v.onAuth)
	logger.Info.Printf("[View.Open] visitor=%s view=%s kind=%s", v.visitor.ID, v.ID, v.Kind)

	if v.Kind != ViewServers && (v.visitor.Session.IsLoggedIn() || v.Kind == ViewPay) {
		v.loadViewerTicket(v.ctx)
	}
	v.pushSession()

	switch v.Kind {
	case ViewMap:
		v.refreshSeats(v.ctx)
		v.refresh = services.Every(v.ctx, v.cfg.SeatRefreshInterval, v.refreshSeats)
	case ViewTickets:
		v.refreshCounts(v.ctx)
		v.refresh = services.Every(v.ctx, v.cfg.SeatRefreshInterval, v.refreshCounts)
	case ViewServers:
		v.refreshServers(v.ctx)
		v.refresh = services.Every(v.ctx, v.cfg.ServerRefreshInterval, v.refreshServers)
	}
}

// Close tears the view down. Safe to call more than once.
func (v *View) Close() {
	v.closeOnce.Do(func() {
		if v.cancel != nil {
			v.cancel()
		}
		v.refresh.Cancel()
		v.countdown.Stop()
		v.sub.Unsubscribe()
		v.visitor.CloseView()
		logger.Info.Printf("[View.Close] visitor=%s view=%s kind=%s", v.visitor.ID, v.ID, v.Kind)
	})
}

// Done is closed once the view is torn down.
func (v *View) Done() <-chan struct{} {
	return v.ctx.Done()
}

// HandleMessage runs one browser action.
func (v *View) HandleMessage(msg ClientMessage) {
	if v.ctx.Err() != nil {
		return
	}
	logger.Debug.Printf("[View.HandleMessage] view=%s action=%s", v.ID, msg.Action)

	switch msg.Action {
	case ActionSelectSeat:
		if v.seats == nil {
			return
		}
		sel := v.seats.SelectSeat(msg.Seat)
		v.send(ActionSelection, map[string]interface{}{"selection": sel})

	case ActionResetSelection:
		if v.seats == nil {
			return
		}
		v.seats.ResetSelection()
		v.send(ActionSelection, map[string]interface{}{"selection": nil})

	case ActionBuy:
		v.buy(msg)

	case ActionRefresh:
		switch v.Kind {
		case ViewMap:
			v.refreshSeats(v.ctx)
		case ViewTickets:
			v.refreshCounts(v.ctx)
		case ViewServers:
			v.refreshServers(v.ctx)
		default:
			v.loadViewerTicket(v.ctx)
		}

	default:
		logger.Debug.Printf("[View.HandleMessage] Unhandled action: %s", msg.Action)
	}
}

func (v *View) buy(msg ClientMessage) {
	var (
		path string
		err  error
	)
	switch {
	case v.Kind == ViewMap:
		path, err = v.flow.Buy(v.ctx, msg.Seat)
	case msg.Type != nil:
		path, err = v.flow.BuyType(v.ctx, *msg.Type)
	default:
		err = services.ErrUnknownTicketType
	}
	v.metrics.Reservation(string(v.Kind), err)

	if err != nil {
		v.send(ActionError, errorFields(err))
		return
	}
	v.send(ActionNavigate, map[string]interface{}{"path": path})
}

// refreshSeats is the map view's recurring job.
func (v *View) refreshSeats(ctx context.Context) {
	start := time.Now()
	err := v.seats.Refresh(ctx)
	v.metrics.SeatMapRefresh(time.Since(start), err)
	if err != nil {
		if ctx.Err() == nil {
			v.send(ActionError, errorFields(err))
		}
		return
	}

	fields := map[string]interface{}{"seats": v.seats.Snapshot()}
	if sel, ok := v.seats.Selection(); ok {
		fields["selection"] = sel
	}
	v.send(ActionSeatMap, fields)
}

// refreshCounts is the tickets view's recurring job.
func (v *View) refreshCounts(ctx context.Context) {
	tickets, err := v.visitor.API.ListTickets(ctx)
	if err != nil {
		if ctx.Err() == nil {
			v.send(ActionError, errorFields(err))
		}
		return
	}
	counts := services.CountTickets(tickets, v.cfg.PCCapacity, v.cfg.ConsoleCapacity)
	v.send(ActionTicketCounts, map[string]interface{}{"counts": counts})
}

// refreshServers is the servers view's recurring job.
func (v *View) refreshServers(ctx context.Context) {
	servers, err := v.visitor.API.ListServers(ctx)
	if err != nil {
		if ctx.Err() == nil {
			v.send(ActionError, errorFields(err))
		}
		return
	}
	v.send(ActionServers, map[string]interface{}{
		"servers": servers,
		"empty":   len(servers) == 0,
	})
}

// loadViewerTicket fetches the viewer's ticket and derives the countdown and
// seat-map markers from it.
func (v *View) loadViewerTicket(ctx context.Context) {
	ticket, err := v.visitor.API.GetUserTicket(ctx)
	if err != nil {
		if ctx.Err() == nil {
			v.send(ActionError, errorFields(err))
		}
		return
	}

	if ctx.Err() != nil {
		return
	}

	v.mu.Lock()
	v.ticket = ticket
	v.mu.Unlock()

	if v.seats != nil {
		v.seats.SetViewerTicket(ticket)
		if sel, ok := v.seats.Selection(); ok {
			v.send(ActionSelection, map[string]interface{}{"selection": sel})
		}
	}
	if v.Kind == ViewPay && ticket == nil {
		v.send(ActionError, map[string]interface{}{"message": "no ticket selected", "status": 0})
	}
	if until, ok := ticket.ReservationExpiry(); ok {
		v.countdown.Start(ctx, until)
	}
}

func (v *View) onAuth(ev services.AuthEvent) {
	if v.ctx.Err() != nil {
		return
	}
	if !ev.LoggedIn {
		v.mu.Lock()
		v.ticket = nil
		v.mu.Unlock()
		v.countdown.Stop()
	}
	v.pushSession()
}

func (v *View) pushSession() {
	v.mu.Lock()
	ticket := v.ticket
	v.mu.Unlock()

	session := v.visitor.Session
	v.send(ActionSession, map[string]interface{}{
		"loggedIn": session.IsLoggedIn(),
		"staging":  session.Staging(),
		"commit":   session.Commit(),
		"canBuy":   v.flow.CanBuy(ticket),
	})
}

// send drops messages once the view is closed.
func (v *View) send(action string, fields map[string]interface{}) {
	if v.ctx.Err() != nil {
		return
	}
	if err := v.out.Send(action, fields); err != nil {
		logger.Debug.Printf("[View.send] view=%s %s not delivered: %v", v.ID, action, err)
	}
}
