// File: models/seat.go
package models

import "time"

// SeatStatus is the displayable state of a seat on the map.
type SeatStatus string

const (
	SeatFree     SeatStatus = "free"
	SeatReserved SeatStatus = "reserved"
	SeatTaken    SeatStatus = "taken"
)

// SeatView is one cell of the seat map as pushed to the browser.
type SeatView struct {
	Number   int        `json:"number"`
	Status   SeatStatus `json:"status"`
	Owner    string     `json:"owner,omitempty"`
	Until    *time.Time `json:"until,omitempty"`
	Selected bool       `json:"selected,omitempty"`
	Mine     bool       `json:"mine,omitempty"` // viewer's own reserved seat
}

// SeatSelection holds the fields derived when a seat is selected.
// The zero value means "nothing selected".
type SeatSelection struct {
	SeatID         int        `json:"seatId"`
	IsFree         bool       `json:"isFree"`
	TicketPaid     bool       `json:"ticketPaid"`
	User           string     `json:"user,omitempty"`
	Until          *time.Time `json:"until,omitempty"`
	IsUserPaidSeat bool       `json:"isUserPaidSeat"`
}
