package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openmenu/storefront/internal/cart"
	"github.com/openmenu/storefront/internal/tracking"
)

// Session holds one browser's storefront state: its cart and the trackers
// for orders it is watching. Concurrent tabs share the session; sessions
// never share state with each other.
type Session struct {
	ID   string
	Cart *cart.Cart

	mu       sync.Mutex
	trackers map[string]*tracking.Tracker
	lastSeen time.Time
}

func newSession(id string) *Session {
	return &Session{
		ID:       id,
		Cart:     cart.New(),
		trackers: make(map[string]*tracking.Tracker),
		lastSeen: time.Now(),
	}
}

// TrackerFor returns the session's tracker for an order, creating and
// starting one via build on first use.
func (s *Session) TrackerFor(orderID string, build func() *tracking.Tracker) *tracking.Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.trackers[orderID]; ok {
		return t
	}
	t := build()
	s.trackers[orderID] = t
	t.Start()
	return t
}

// Tracker returns an existing tracker, if any.
func (s *Session) Tracker(orderID string) (*tracking.Tracker, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trackers[orderID]
	return t, ok
}

// StopTracker stops and removes the tracker for an order.
func (s *Session) StopTracker(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.trackers[orderID]; ok {
		t.Stop()
		delete(s.trackers, orderID)
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

func (s *Session) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.trackers {
		t.Stop()
		delete(s.trackers, id)
	}
}

// Store is an in-memory session registry with TTL expiry. Expiring a
// session stops its trackers so no timer outlives its owner.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	log      *slog.Logger
}

// NewStore creates a session store with the given idle TTL.
func NewStore(ttl time.Duration, log *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		log:      log,
	}
}

// GetOrCreate returns the session for id, creating it when absent, and
// marks it as recently used.
func (st *Store) GetOrCreate(id string) *Session {
	st.mu.Lock()
	s, ok := st.sessions[id]
	if !ok {
		s = newSession(id)
		st.sessions[id] = s
	}
	st.mu.Unlock()

	s.touch()
	return s
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep expires idle sessions on the given interval until ctx is
// cancelled.
func (st *Store) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			st.expire(time.Now().Add(-st.ttl))
		}
	}
}

func (st *Store) expire(cutoff time.Time) {
	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.idleSince(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.stopAll()
		st.log.Debug("session expired", "session_id", s.ID)
	}
}
