// file: websocket/countdown.go
package websocket

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lanmomo-web/logger"
)

// CountdownState is what the browser shows for a reservation deadline.
type CountdownState struct {
	Target  time.Time `json:"target"`
	Display string    `json:"display"`
	Danger  bool      `json:"danger"`
	Active  bool      `json:"active"`
}

// Countdown ticks towards a reservation deadline and publishes the remaining
// time. At most one ticker is alive per Countdown.
type Countdown struct {
	Messenger    Messenger
	TickInterval time.Duration

	now func() time.Time

	mu      sync.Mutex
	state   CountdownState
	cancel  context.CancelFunc
	timerID int
}

// NewCountdown creates an idle countdown.
func NewCountdown(m Messenger, tick time.Duration) *Countdown {
	return &Countdown{Messenger: m, TickInterval: tick, now: time.Now}
}

// Start counts down to target, replacing any running countdown. The ticker
// lives no longer than parent; a done parent leaves the countdown idle. The
// first value is published immediately.
func (c *Countdown) Start(parent context.Context, target time.Time) bool {
	c.mu.Lock()
	c.stopLocked()
	if parent.Err() != nil {
		c.mu.Unlock()
		logger.Debug.Println("[Countdown.Start] Owner already closed, not starting")
		return false
	}
	c.timerID++
	localTimerID := c.timerID
	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.state = CountdownState{Target: target, Active: true}
	c.mu.Unlock()

	logger.Debug.Printf("[Countdown.Start] Timer #%d counting down to %v", localTimerID, target)
	if !c.tick(localTimerID) {
		return false
	}

	ticker := time.NewTicker(c.interval())
	go func(ctx context.Context, timerID int) {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !c.tick(timerID) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}(ctx, localTimerID)
	return true
}

// Stop cancels the ticker and clears the published state. Safe to call at
// any time.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	wasActive := c.state.Active
	c.stopLocked()
	if wasActive {
		c.publishLocked(ActionTimerCleared, nil)
	}
}

// State returns the last published state.
func (c *Countdown) State() CountdownState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Countdown) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	// any tick still in flight belongs to an old timer from now on
	c.timerID++
	c.state = CountdownState{}
}

// tick recomputes the remaining time for timer id. It returns false once that
// timer should stop ticking.
func (c *Countdown) tick(id int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id != c.timerID || !c.state.Active {
		return false
	}

	remaining := c.state.Target.Sub(c.now())
	if remaining < time.Millisecond {
		logger.Debug.Printf("[Countdown.tick] Timer #%d reached zero", id)
		c.stopLocked()
		c.publishLocked(ActionTimerCleared, nil)
		return false
	}

	minutes := int((remaining % time.Hour) / time.Minute)
	seconds := int((remaining % time.Minute) / time.Second)
	c.state.Display = fmt.Sprintf("%d:%02d", minutes, seconds)
	c.state.Danger = minutes < 1

	c.publishLocked(ActionTimer, map[string]interface{}{
		"display": c.state.Display,
		"danger":  c.state.Danger,
		"target":  c.state.Target,
	})
	return true
}

func (c *Countdown) publishLocked(action string, fields map[string]interface{}) {
	if c.Messenger == nil {
		return
	}
	if err := c.Messenger.Send(action, fields); err != nil {
		logger.Debug.Printf("[Countdown.publish] %s not delivered: %v", action, err)
	}
}

func (c *Countdown) interval() time.Duration {
	if c.TickInterval > 0 {
		return c.TickInterval
	}
	return 100 * time.Millisecond
}
