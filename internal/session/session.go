// internal/session/session.go
// Explicit session handles for the current authenticated identity.
// Nothing here is a singleton: the manager is constructed in main and
// injected into whatever needs identity-change events, so tests can
// substitute their own instance.

package session

import (
	"context"
	"sync"
)

// Session identifies an authenticated caller plus a snapshot of their
// profile taken at authentication time
type Session struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

// EventType distinguishes identity-change events
type EventType string

const (
	EventLogin  EventType = "login"
	EventLogout EventType = "logout"
)

// Event is delivered to subscribers on every identity change
type Event struct {
	Type    EventType
	Session Session
}

// CancelFunc removes a subscription. Safe to call more than once; the
// first call wins.
type CancelFunc func()

// Manager tracks live sessions and fans identity-change events out to
// subscribers
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]Session
	subscribers map[int]func(Event)
	nextSubID   int
}

// NewManager creates a new session manager
func NewManager() *Manager {
	return &Manager{
		sessions:    make(map[string]Session),
		subscribers: make(map[int]func(Event)),
	}
}

// Login records a session and publishes a login event
func (m *Manager) Login(s Session) {
	m.mu.Lock()
	m.sessions[s.UserID] = s
	subs := m.snapshotSubscribers()
	m.mu.Unlock()

	for _, fn := range subs {
		fn(Event{Type: EventLogin, Session: s})
	}
}

// Logout removes a session and publishes a logout event. Unknown user
// ids are ignored.
func (m *Manager) Logout(userID string) {
	m.mu.Lock()
	s, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	subs := m.snapshotSubscribers()
	m.mu.Unlock()

	if !ok {
		return
	}
	for _, fn := range subs {
		fn(Event{Type: EventLogout, Session: s})
	}
}

// Current returns the live session for a user id, if any
func (m *Manager) Current(userID string) (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return s, ok
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Subscribe registers a callback for identity-change events and returns
// a cancellation handle. The handle must be retained; subscriptions
// live until it is called.
func (m *Manager) Subscribe(fn func(Event)) CancelFunc {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subscribers, id)
			m.mu.Unlock()
		})
	}
}

// snapshotSubscribers must be called with m.mu held
func (m *Manager) snapshotSubscribers() []func(Event) {
	subs := make([]func(Event), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

// Context plumbing

type contextKey struct{}

// WithSession attaches a session to a request context
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext extracts the session from a request context
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok
}
