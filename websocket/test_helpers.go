// Package websocket test_helpers.go
//go:build unit
// +build unit

package websocket

import (
	"encoding/json"
	"sync"
)

// RecordedMessage is one message captured by a RecordingMessenger.
type RecordedMessage struct {
	Action string
	Fields map[string]interface{}
}

// RecordingMessenger keeps every message instead of sending it.
type RecordingMessenger struct {
	mu       sync.Mutex
	messages []RecordedMessage
}

// Send records the message as the browser would decode it.
func (r *RecordingMessenger) Send(action string, fields map[string]interface{}) error {
	data, err := encodeMessage(action, fields)
	if err != nil {
		return err
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	delete(decoded, "action")

	r.mu.Lock()
	r.messages = append(r.messages, RecordedMessage{Action: action, Fields: decoded})
	r.mu.Unlock()
	return nil
}

// Messages returns a copy of everything recorded so far.
func (r *RecordingMessenger) Messages() []RecordedMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]RecordedMessage(nil), r.messages...)
}

// Actions lists the recorded actions in order.
func (r *RecordingMessenger) Actions() []string {
	msgs := r.Messages()
	actions := make([]string, len(msgs))
	for i, m := range msgs {
		actions[i] = m.Action
	}
	return actions
}

// Last returns the most recent message with action, if any.
func (r *RecordingMessenger) Last(action string) (RecordedMessage, bool) {
	msgs := r.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Action == action {
			return msgs[i], true
		}
	}
	return RecordedMessage{}, false
}

// Reset forgets everything recorded.
func (r *RecordingMessenger) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}
