// Package models defines data structures used across the application.
// File: models/ticket.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ----------------------- ticket types -----------------------

// TicketType is the upstream numeric ticket category.
type TicketType int

const (
	TicketTypePC      TicketType = 0 // seat-based (BYOC)
	TicketTypeConsole TicketType = 1
)

// String returns the display label used on the tickets, pay and QR pages.
func (t TicketType) String() string {
	switch t {
	case TicketTypePC:
		return "BYOC"
	case TicketTypeConsole:
		return "Console"
	default:
		return fmt.Sprintf("TicketType(%d)", int(t))
	}
}

// Valid reports whether t is a type the upstream API knows about.
func (t TicketType) Valid() bool {
	return t == TicketTypePC || t == TicketTypeConsole
}

// ----------------------- timestamps -----------------------

// timestampLayouts lists the formats the upstream API has been seen to emit.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Timestamp is a point in time decoded leniently from the upstream JSON.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON accepts a string in any known layout, or null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if raw == "" {
		ts.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			ts.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognised format %q", raw)
}

// MarshalJSON always writes RFC 3339.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.UTC().Format(time.RFC3339))
}

// ----------------------- ticket model -----------------------

// Ticket mirrors the upstream ticket record. A user holds at most one.
type Ticket struct {
	ID            int        `json:"id"`
	TypeID        TicketType `json:"type_id"`
	Paid          bool       `json:"paid"`
	SeatNum       int        `json:"seat_num,omitempty"` // PC only, 1..N
	ReservedUntil *Timestamp `json:"reserved_until,omitempty"`
	Price         float64    `json:"price"`
	OwnerUsername string     `json:"owner_username,omitempty"`
	QRToken       string     `json:"qr_token,omitempty"`
}

// ReservationExpiry returns the reservation deadline of an unpaid ticket.
func (t *Ticket) ReservationExpiry() (time.Time, bool) {
	if t == nil || t.Paid || t.ReservedUntil == nil || t.ReservedUntil.IsZero() {
		return time.Time{}, false
	}
	return t.ReservedUntil.Time, true
}

// TicketEnvelope is the body of GET /api/users/ticket.
type TicketEnvelope struct {
	Ticket *Ticket `json:"ticket"`
}

// TicketList is the body of GET /api/tickets and GET /api/tickets/type/:type.
type TicketList struct {
	Tickets []Ticket `json:"tickets"`
}

// TicketRequest creates a ticket or moves a reservation.
type TicketRequest struct {
	Type TicketType `json:"type"`
	Seat int        `json:"seat,omitempty"`
}

// ---------------------- payment model ----------------------

// PaymentRequest is the body of PUT /api/tickets/pay.
type PaymentRequest struct {
	DiscountMomo  bool `json:"discountMomo"`
	ParticipateGG bool `json:"participateGG"`
}

// PaymentRedirect is the answer to a payment request.
type PaymentRedirect struct {
	RedirectURL string `json:"redirect_url"`
}

// ExecutePaymentRequest is the body of PUT /api/tickets/pay/execute.
type ExecutePaymentRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	PayerID   string `json:"payer_id" validate:"required"`
}

// MessageResponse is any upstream answer carrying a single message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ---------------------- ticket counts ----------------------

// TicketCount summarises availability for a single ticket type.
type TicketCount struct {
	Real    int  `json:"real"`  // paid
	Temp    int  `json:"temp"`  // reserved, unpaid
	Total   int  `json:"total"` // real + temp
	Avail   int  `json:"avail"`
	Max     int  `json:"max"`
	SoldOut bool `json:"soldout"`
}

// TicketCounts is shown on the tickets page.
type TicketCounts struct {
	PC      TicketCount `json:"pc"`
	Console TicketCount `json:"console"`
}

// ---------------------- page summaries ----------------------

// TicketsSummary is the data behind the tickets page.
type TicketsSummary struct {
	Counts      TicketCounts `json:"counts"`
	Ticket      *Ticket      `json:"ticket,omitempty"`
	CanBuy      bool         `json:"canBuy"`
	TimerTarget *time.Time   `json:"timerTarget,omitempty"`
}

// PaymentSummary is the data behind the payment page.
type PaymentSummary struct {
	Ticket      *Ticket    `json:"ticket"`
	TypeLabel   string     `json:"typeLabel"`
	Seat        string     `json:"seat"`
	Price       string     `json:"price"`
	Total       string     `json:"total"`
	TimerTarget *time.Time `json:"timerTarget,omitempty"`
}
