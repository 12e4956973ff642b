package search

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"booklibrary/internal/catalog"
)

const DefaultSessionTTL = 30 * time.Minute

// Session remembers, for one caller, the identifiers shown by the latest
// local search and those imported so far.
type Session struct {
	ID string

	mu        sync.Mutex
	lastLocal map[string]struct{}
	imported  map[string]struct{}
	lastSeen  time.Time
}

func NewSession(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		ID:        id,
		lastLocal: map[string]struct{}{},
		imported:  map[string]struct{}{},
		lastSeen:  time.Now(),
	}
}

func (s *Session) rememberLocal(books []catalog.Book) {
	ids := make(map[string]struct{}, len(books)*2)
	for _, b := range books {
		for _, id := range b.Identifiers() {
			ids[id] = struct{}{}
		}
	}
	s.mu.Lock()
	s.lastLocal = ids
	s.mu.Unlock()
}

func (s *Session) rememberImport(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if id != "" {
			s.imported[id] = struct{}{}
		}
	}
}

// visibility reports whether an external record with ids was imported in this
// session, and whether it was part of the latest local result.
func (s *Session) visibility(ids []string) (imported, shownLocally bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if _, ok := s.imported[id]; ok {
			imported = true
		}
		if _, ok := s.lastLocal[id]; ok {
			shownLocally = true
		}
	}
	return imported, shownLocally
}

// SessionStore keeps sessions in memory. Idle sessions expire lazily when the
// store is next used.
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[string]*Session
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the live session for id. An empty, unknown or expired id gets a
// fresh session under a newly generated id.
func (st *SessionStore) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	st.sweep(now)

	if sess, ok := st.sessions[id]; ok && !st.expired(sess, now) {
		sess.mu.Lock()
		sess.lastSeen = now
		sess.mu.Unlock()
		return sess
	}

	sess := NewSession("")
	sess.lastSeen = now
	st.sessions[sess.ID] = sess
	return sess
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// sweep drops expired sessions, at most once per half ttl. Caller holds st.mu.
func (st *SessionStore) sweep(now time.Time) {
	if now.Sub(st.lastSweep) < st.ttl/2 {
		return
	}
	st.lastSweep = now
	for id, sess := range st.sessions {
		if st.expired(sess, now) {
			delete(st.sessions, id)
		}
	}
}

func (st *SessionStore) expired(sess *Session, now time.Time) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return now.Sub(sess.lastSeen) > st.ttl
}
