// Package session owns the per-user application state: the patient store,
// navigation, the list search query and the pending notification.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/giygas/hospi/data"
	"github.com/giygas/hospi/interfaces"
	"github.com/giygas/hospi/navigation"
)

// Session is the state of one browser session. Every user action must run
// inside Do so that it is applied atomically before the next view renders.
type Session struct {
	ID        string
	CreatedAt time.Time

	Store interfaces.PatientStore
	Nav   *navigation.Controller

	mu           sync.Mutex
	search       string
	notification string
	lastSeen     atomic.Int64 // unix nanoseconds
}

func newSession(id string, now time.Time) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: now,
		Store:     data.NewSeededStore(),
		Nav:       navigation.NewController(),
	}
	s.lastSeen.Store(now.UnixNano())
	return s
}

// Do runs fn with exclusive access to the session
func (s *Session) Do(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

// Touch records activity at now
func (s *Session) Touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// LastSeen returns the time of the last recorded activity
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// The accessors below must be called from within Do.

// Navigate switches the routed screen. Leaving the list drops the search query.
func (s *Session) Navigate(route navigation.Route) {
	s.Nav.Navigate(route)
	if route != navigation.PatientList {
		s.search = ""
	}
}

// SetSearch stores the list search query
func (s *Session) SetSearch(query string) {
	s.search = query
}

// Search returns the list search query
func (s *Session) Search() string {
	return s.search
}

// Notify queues a message shown once on the next rendered view
func (s *Session) Notify(msg string) {
	s.notification = msg
}

// TakeNotification returns and clears the pending message
func (s *Session) TakeNotification() (string, bool) {
	msg := s.notification
	s.notification = ""
	return msg, msg != ""
}
