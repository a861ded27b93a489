package memory

import (
	"context"
	"filedrop/internal/core/domain"
	"sort"
	"sync"
	"time"

	"filedrop/internal/core/port"
)

type entry struct {
	session domain.Session
	seq     uint64
}

// SessionStore is the in-process session registry. A single mutex guards the
// map; every operation is atomic with respect to every other one.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
	seq      uint64
	now      func() time.Time
}

// Option configures the session store
type Option func(*SessionStore)

// WithNow overrides the clock, used by tests to age sessions
func WithNow(now func() time.Time) Option {
	return func(s *SessionStore) {
		s.now = now
	}
}

// NewSessionStore creates a new in-memory session store
func NewSessionStore(opts ...Option) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*entry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ port.SessionStore = (*SessionStore)(nil)

// Create registers a new session with status processing
func (s *SessionStore) Create(_ context.Context, id string, ownerIdentity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; ok {
		return domain.ErrSessionAlreadyExists
	}

	now := s.now()
	s.seq++
	s.sessions[id] = &entry{
		seq: s.seq,
		session: domain.Session{
			ID:            id,
			OwnerIdentity: ownerIdentity,
			Status:        domain.SessionStatusProcessing,
			LastActivity:  now,
			CreatedAt:     now,
		},
	}
	return nil
}

// Complete transitions a session to completed and records its artifact.
// Owner, creation time and id are preserved.
func (s *SessionStore) Complete(_ context.Context, id string, artifactLocation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	e.session.Status = domain.SessionStatusCompleted
	e.session.ArtifactLocation = artifactLocation
	e.session.FailureCause = ""
	e.session.Progress = 100
	s.touchLocked(e)
	return nil
}

// Fail transitions a session to failed and retains the cause for operators
func (s *SessionStore) Fail(_ context.Context, id string, cause string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	e.session.Status = domain.SessionStatusFailed
	e.session.ArtifactLocation = ""
	e.session.FailureCause = cause
	s.touchLocked(e)
	return nil
}

// SetProgress records the packaging progress percentage
func (s *SessionStore) SetProgress(_ context.Context, id string, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	e.session.Progress = progress
	s.touchLocked(e)
	return nil
}

// Touch refreshes the activity timestamp of a session
func (s *SessionStore) Touch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.touchLocked(e)
	return nil
}

// touchLocked keeps LastActivity monotonic even if the clock steps back
func (s *SessionStore) touchLocked(e *entry) {
	if now := s.now(); now.After(e.session.LastActivity) {
		e.session.LastActivity = now
	}
}

// Get returns a copy of the session, or domain.ErrSessionNotFound
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	session := e.session
	return &session, nil
}

// Recent returns a snapshot of at most n sessions ordered by last activity,
// most recent first. Equal timestamps keep insertion order so results stay
// reproducible.
func (s *SessionStore) Recent(_ context.Context, n int) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]*entry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].session.LastActivity.After(entries[j].session.LastActivity)
	})

	if n < 0 {
		n = 0
	}
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]domain.Session, 0, n)
	for _, e := range entries[:n] {
		out = append(out, e.session)
	}
	return out, nil
}

// Remove deletes a session; removing an unknown id is a no-op
func (s *SessionStore) Remove(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// RemoveInactive evicts every session whose last activity is before cutoff
// and returns the evicted sessions. The activity check and the eviction
// happen under one lock hold, so a concurrent touch either keeps the session
// or happens after it is gone, never both.
func (s *SessionStore) RemoveInactive(_ context.Context, cutoff time.Time) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []domain.Session
	for id, e := range s.sessions {
		if e.session.LastActivity.Before(cutoff) {
			evicted = append(evicted, e.session)
			delete(s.sessions, id)
		}
	}
	return evicted, nil
}
