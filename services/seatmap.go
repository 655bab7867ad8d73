// File: services/seatmap.go
package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"lanmomo-web/logger"
	"lanmomo-web/models"
)

// SeatMap mirrors the upstream picture of PC seats for one view, plus the
// viewer's transient selection. It never asserts seat state on its own.
type SeatMap struct {
	api      SeatLister
	capacity int

	// DiscardStale drops refresh answers older than the newest applied one.
	// Off by default: the last answer to arrive wins.
	DiscardStale bool

	issued uint64 // atomic, last sequence handed to a refresh

	mu             sync.RWMutex
	applied        uint64
	status         map[int]models.SeatStatus
	owners         map[int]string
	untils         map[int]*time.Time
	userPaidSeat   int
	userTicketSeat int
	selected       bool
	selection      models.SeatSelection
}

// NewSeatMap creates an empty map (every seat free) of the given capacity.
func NewSeatMap(api SeatLister, capacity int) *SeatMap {
	return &SeatMap{
		api:      api,
		capacity: capacity,
		status:   map[int]models.SeatStatus{},
		owners:   map[int]string{},
		untils:   map[int]*time.Time{},
	}
}

// Capacity is the number of seats, numbered 1..Capacity.
func (m *SeatMap) Capacity() int {
	return m.capacity
}

// Refresh fetches the PC tickets and applies them. On failure the previous
// snapshot stays in place.
func (m *SeatMap) Refresh(ctx context.Context) error {
	seq := atomic.AddUint64(&m.issued, 1)
	tickets, err := m.api.ListTicketsByType(ctx, models.TicketTypePC)
	if err != nil {
		logger.Warn.Printf("[SeatMap.Refresh] Refresh #%d failed, keeping previous snapshot: %v", seq, err)
		return err
	}
	if !m.apply(seq, tickets) {
		logger.Debug.Printf("[SeatMap.Refresh] Discarded stale answer #%d", seq)
	}
	return nil
}

// Apply replaces the snapshot with the given ticket list.
func (m *SeatMap) Apply(tickets []models.Ticket) {
	m.apply(atomic.AddUint64(&m.issued, 1), tickets)
}

func (m *SeatMap) apply(seq uint64, tickets []models.Ticket) bool {
	status := make(map[int]models.SeatStatus, len(tickets))
	owners := make(map[int]string, len(tickets))
	untils := make(map[int]*time.Time, len(tickets))
	for _, t := range tickets {
		if t.SeatNum < 1 {
			continue
		}
		if t.Paid {
			status[t.SeatNum] = models.SeatTaken
		} else {
			status[t.SeatNum] = models.SeatReserved
		}
		owners[t.SeatNum] = t.OwnerUsername
		if t.ReservedUntil != nil && !t.ReservedUntil.IsZero() {
			until := t.ReservedUntil.Time
			untils[t.SeatNum] = &until
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DiscardStale && seq < m.applied {
		return false
	}
	m.applied = seq
	m.status, m.owners, m.untils = status, owners, untils
	if m.selected {
		m.selectLocked(m.selection.SeatID)
	}
	return true
}

// SetViewerTicket records the viewer's own ticket. A paid ticket marks the
// viewer's confirmed seat; an unpaid one marks (and selects) the reserved seat.
func (m *SeatMap) SetViewerTicket(ticket *models.Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userPaidSeat, m.userTicketSeat = 0, 0
	if ticket == nil || ticket.TypeID != models.TicketTypePC {
		return
	}
	if ticket.Paid {
		m.userPaidSeat = ticket.SeatNum
		return
	}
	m.userTicketSeat = ticket.SeatNum
	m.selectLocked(ticket.SeatNum)
}

// SelectSeat sets the selection and derives its display fields.
func (m *SeatMap) SelectSeat(seat int) models.SeatSelection {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectLocked(seat)
	return m.selection
}

func (m *SeatMap) selectLocked(seat int) {
	m.selected = true
	m.selection = models.SeatSelection{SeatID: seat}

	if !m.isAvailLocked(seat) && !m.isAlreadyReservedLocked(seat) {
		m.selection.IsFree = false
		m.selection.TicketPaid = m.status[seat] == models.SeatTaken
		m.selection.User = m.owners[seat]
		m.selection.Until = m.untils[seat]
		m.selection.IsUserPaidSeat = seat == m.userPaidSeat
		return
	}
	m.selection.IsFree = true
}

// ResetSelection clears the selection and every derived field.
func (m *SeatMap) ResetSelection() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = false
	m.selection = models.SeatSelection{}
}

// Selection returns the current selection, if any.
func (m *SeatMap) Selection() (models.SeatSelection, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.selection, m.selected
}

func (m *SeatMap) IsAvail(seat int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isAvailLocked(seat)
}

func (m *SeatMap) isAvailLocked(seat int) bool {
	_, ok := m.status[seat]
	return !ok
}

func (m *SeatMap) IsReserved(seat int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status[seat] == models.SeatReserved
}

func (m *SeatMap) IsTaken(seat int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status[seat] == models.SeatTaken
}

// IsAlreadyReserved reports whether seat is the viewer's own unpaid reservation.
func (m *SeatMap) IsAlreadyReserved(seat int) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isAlreadyReservedLocked(seat)
}

func (m *SeatMap) isAlreadyReservedLocked(seat int) bool {
	return m.userTicketSeat != 0 && m.userTicketSeat == seat
}

func (m *SeatMap) Owner(seat int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.owners[seat]
}

func (m *SeatMap) Until(seat int) *time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.untils[seat]
}

// Snapshot lists seats 1..Capacity as the browser renders them.
func (m *SeatMap) Snapshot() []models.SeatView {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seats := make([]models.SeatView, 0, m.capacity)
	for n := 1; n <= m.capacity; n++ {
		view := models.SeatView{
			Number:   n,
			Status:   models.SeatFree,
			Selected: m.selected && m.selection.SeatID == n,
			Mine:     m.isAlreadyReservedLocked(n),
		}
		if s, ok := m.status[n]; ok {
			view.Status = s
			view.Owner = m.owners[n]
			view.Until = m.untils[n]
		}
		seats = append(seats, view)
	}
	return seats
}
