// File: services/reservation.go
package services

import (
	"context"
	"net/http"

	"lanmomo-web/logger"
	"lanmomo-web/models"
)

// Paths the browser is sent to after a buy action.
const (
	PayPath = "/pay"
	MapPath = "/map"
)

var (
	ErrNotLoggedIn       = models.NewAPIError(http.StatusUnauthorized, "you must be logged in to buy a ticket")
	ErrNoSeatSelected    = models.NewAPIError(http.StatusBadRequest, "no seat selected")
	ErrUnknownTicketType = models.NewAPIError(http.StatusBadRequest, "unknown ticket type")
)

// TicketWriter is the slice of the API the buy actions need.
type TicketWriter interface {
	GetUserTicket(ctx context.Context) (*models.Ticket, error)
	CreateTicket(ctx context.Context, req models.TicketRequest) error
	MoveSeat(ctx context.Context, req models.TicketRequest) error
}

// ReservationFlow decides between creating a ticket and moving an existing
// reservation. It never touches the seat map; the next refresh shows the result.
type ReservationFlow struct {
	api   TicketWriter
	auth  AuthReader
	seats *SeatMap
}

// NewReservationFlow wires a flow. seats may be nil for views without a map.
func NewReservationFlow(api TicketWriter, auth AuthReader, seats *SeatMap) *ReservationFlow {
	return &ReservationFlow{api: api, auth: auth, seats: seats}
}

// Buy reserves seat for the viewer and returns the path to navigate to.
func (f *ReservationFlow) Buy(ctx context.Context, seat int) (string, error) {
	if !f.auth.IsLoggedIn() {
		return "", ErrNotLoggedIn
	}
	if seat < 1 {
		return "", ErrNoSeatSelected
	}

	if f.seats != nil && f.seats.IsAlreadyReserved(seat) {
		logger.Debug.Printf("[ReservationFlow.Buy] Seat %d already reserved by viewer, continuing to payment", seat)
		return PayPath, nil
	}

	current, err := f.api.GetUserTicket(ctx)
	if err != nil {
		return "", models.AsAPIError(err)
	}

	req := models.TicketRequest{Type: models.TicketTypePC, Seat: seat}
	if current != nil {
		logger.Info.Printf("[ReservationFlow.Buy] Moving ticket %d to seat %d", current.ID, seat)
		err = f.api.MoveSeat(ctx, req)
	} else {
		logger.Info.Printf("[ReservationFlow.Buy] Creating reservation for seat %d", seat)
		err = f.api.CreateTicket(ctx, req)
	}
	if err != nil {
		logger.Warn.Printf("[ReservationFlow.Buy] Reservation for seat %d failed: %v", seat, err)
		return "", models.AsAPIError(err)
	}
	return PayPath, nil
}

// BuyConsole creates a Console ticket, which carries no seat.
func (f *ReservationFlow) BuyConsole(ctx context.Context) (string, error) {
	if !f.auth.IsLoggedIn() {
		return "", ErrNotLoggedIn
	}
	if err := f.api.CreateTicket(ctx, models.TicketRequest{Type: models.TicketTypeConsole}); err != nil {
		logger.Warn.Printf("[ReservationFlow.BuyConsole] Ticket creation failed: %v", err)
		return "", models.AsAPIError(err)
	}
	return PayPath, nil
}

// BuyType is the tickets page action: Console tickets are bought directly,
// PC tickets need a seat so the viewer is sent to the map.
func (f *ReservationFlow) BuyType(ctx context.Context, ticketType models.TicketType) (string, error) {
	switch ticketType {
	case models.TicketTypeConsole:
		return f.BuyConsole(ctx)
	case models.TicketTypePC:
		return MapPath, nil
	default:
		logger.Warn.Printf("[ReservationFlow.BuyType] Unknown ticket type %d", int(ticketType))
		return "", ErrUnknownTicketType
	}
}

// CanBuy reports whether the viewer may start or change a purchase.
func (f *ReservationFlow) CanBuy(ticket *models.Ticket) bool {
	return CanBuy(f.auth.IsLoggedIn(), ticket)
}

// CanBuy is true for a logged-in viewer with no ticket or an unpaid one.
func CanBuy(loggedIn bool, ticket *models.Ticket) bool {
	return loggedIn && (ticket == nil || !ticket.Paid)
}
