// File: services/session.go
package services

import (
	"context"
	"sync"

	"lanmomo-web/logger"
	"lanmomo-web/models"
)

// AuthEvent is delivered to subscribers whenever the login state is announced.
type AuthEvent struct {
	LoggedIn bool
	Commit   string
}

// AuthReader is what views and flows need from the session: the current flag
// and a way to follow it.
type AuthReader interface {
	IsLoggedIn() bool
	Subscribe(fn func(AuthEvent)) *Subscription
}

// LoginStateFetcher is the slice of the API used to refresh the session.
type LoginStateFetcher interface {
	GetLoginState(ctx context.Context) (models.LoginState, error)
}

// SessionState is one visitor's authentication flag.
type SessionState struct {
	mu       sync.Mutex
	loggedIn bool
	commit   string
	nextID   int
	subs     map[int]func(AuthEvent)
}

// Subscription ties a subscriber to the session until Unsubscribe is called.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe stops delivery. Safe to call more than once and on nil.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

var _ AuthReader = (*SessionState)(nil)

// NewSessionState returns a logged-out session.
func NewSessionState() *SessionState {
	return &SessionState{subs: make(map[int]func(AuthEvent))}
}

// IsLoggedIn reports the current flag.
func (s *SessionState) IsLoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Commit is the deployment identifier reported by the upstream, if any.
func (s *SessionState) Commit() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit
}

// Staging is true when the upstream reports a commit, i.e. a staging build.
func (s *SessionState) Staging() bool {
	return s.Commit() != ""
}

// Subscribe registers fn for every future AuthEvent.
func (s *SessionState) Subscribe(fn func(AuthEvent)) *Subscription {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return &Subscription{cancel: func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}}
}

// Login marks the visitor authenticated and notifies subscribers. The
// upstream POST /api/login has already succeeded when this is called.
func (s *SessionState) Login() {
	s.set(true, true)
}

// Logout marks the visitor anonymous and notifies subscribers.
func (s *SessionState) Logout() {
	s.set(false, true)
}

// Refresh asks the upstream for the login state. Any failure leaves the
// visitor logged out.
func (s *SessionState) Refresh(ctx context.Context, api LoginStateFetcher) error {
	state, err := api.GetLoginState(ctx)
	if err != nil {
		logger.Warn.Printf("[SessionState.Refresh] Login state unavailable, treating as logged out: %v", err)
		s.set(false, false)
		return err
	}

	s.mu.Lock()
	if state.Commit != "" {
		s.commit = state.Commit
	}
	s.mu.Unlock()

	// a fresh logged-in state is always announced; a logged-out one only on change
	s.set(state.LoggedIn, state.LoggedIn)
	return nil
}

// set updates the flag and notifies subscribers synchronously when forced or
// when the flag changed.
func (s *SessionState) set(loggedIn, force bool) {
	s.mu.Lock()
	changed := s.loggedIn != loggedIn
	s.loggedIn = loggedIn
	ev := AuthEvent{LoggedIn: loggedIn, Commit: s.commit}
	subs := make([]func(AuthEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	if !force && !changed {
		return
	}
	logger.Debug.Printf("[SessionState.set] loggedIn=%v, notifying %d subscriber(s)", loggedIn, len(subs))
	for _, fn := range subs {
		fn(ev)
	}
}
