// Package websocket pushes view state to the browser over one websocket per
// open page.
// file: websocket/messenger.go
package websocket

import (
	"encoding/json"
	"errors"

	"lanmomo-web/models"
)

// Outbound actions.
const (
	ActionSeatMap      = "seatMap"
	ActionSelection    = "selection"
	ActionTimer        = "timer"
	ActionTimerCleared = "timerCleared"
	ActionSession      = "session"
	ActionNavigate     = "navigate"
	ActionError        = "error"
	ActionTicketCounts = "ticketCounts"
	ActionServers      = "servers"
)

// Inbound actions.
const (
	ActionSelectSeat     = "selectSeat"
	ActionResetSelection = "resetSelection"
	ActionBuy            = "buy"
	ActionRefresh        = "refresh"
)

var (
	ErrConnectionClosed = errors.New("connection closed")
	ErrSendBufferFull   = errors.New("send buffer full")
)

// Messenger delivers one JSON message to the browser side of a view. Send
// must not block.
type Messenger interface {
	Send(action string, fields map[string]interface{}) error
}

// ClientMessage is what the browser sends.
type ClientMessage struct {
	Action string             `json:"action"`
	Seat   int                `json:"seat,omitempty"`
	Type   *models.TicketType `json:"type,omitempty"`
}

// encodeMessage builds {"action": action, ...fields}.
func encodeMessage(action string, fields map[string]interface{}) ([]byte, error) {
	msg := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		msg[k] = v
	}
	msg["action"] = action
	return json.Marshal(msg)
}

// errorFields renders an error the way the browser displays it.
func errorFields(err error) map[string]interface{} {
	apiErr := models.AsAPIError(err)
	return map[string]interface{}{
		"message": apiErr.Message,
		"status":  apiErr.Status,
	}
}
