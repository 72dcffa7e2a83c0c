package core

import (
	"context"
	"sync"
	"time"
)

// SessionStore keys sessions by conversation ID. Get/put are atomic per
// key and at most one turn is in flight per session: WithSession holds the
// session's own lock for the duration of the callback, so two messages for
// the same conversation can never interleave writes, while different
// sessions proceed in parallel.
type SessionStore struct {
	mu      sync.Mutex
	entries map[string]*sessionEntry
	ttl     time.Duration
}

type sessionEntry struct {
	mu      sync.Mutex
	session *Session
	touched time.Time
}

const defaultSessionTTL = 2 * time.Hour

// NewSessionStore returns an empty store. ttl <= 0 selects the default
// idle-session lifetime.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{entries: make(map[string]*sessionEntry), ttl: ttl}
}

func (st *SessionStore) entry(id string) *sessionEntry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.entries[id]
	if !ok {
		e = &sessionEntry{session: &Session{ID: id, Step: StepIdle}}
		st.entries[id] = e
	}
	e.touched = time.Now()
	return e
}

// WithSession runs fn with exclusive access to the session for id,
// creating an idle session on first use. The callback's error is returned
// unchanged.
func (st *SessionStore) WithSession(id string, fn func(s *Session) error) error {
	e := st.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Snapshot returns a copy of the current session state, for inspection
// only.
func (st *SessionStore) Snapshot(id string) Session {
	e := st.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.session
}

// StartPurge evicts idle sessions that have not been touched within the
// TTL. It runs until ctx is cancelled.
func (st *SessionStore) StartPurge(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(st.ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.purgeExpired()
			}
		}
	}()
}

func (st *SessionStore) purgeExpired() {
	st.mu.Lock()
	defer st.mu.Unlock()
	cutoff := time.Now().Add(-st.ttl)
	for id, e := range st.entries {
		// Skip sessions mid-turn; they will be retouched on release.
		if !e.mu.TryLock() {
			continue
		}
		idle := !e.session.Active()
		e.mu.Unlock()
		if idle && e.touched.Before(cutoff) {
			delete(st.entries, id)
		}
	}
}
