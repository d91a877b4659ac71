package memory

import (
	"sync"
	"time"

	"support-chat/internal/usecase/chat"
)

// Store keeps one chat session per chat ID and forgets sessions that have
// been idle for longer than the TTL.
type Store struct {
	mu         sync.Mutex
	sessions   map[int64]*storedSession
	newSession func(chatID int64) *chat.Session
	ttl        time.Duration
	now        func() time.Time
}

type storedSession struct {
	session  *chat.Session
	lastSeen time.Time
}

func NewStore(ttl time.Duration, newSession func(chatID int64) *chat.Session) *Store {
	return &Store{
		sessions:   make(map[int64]*storedSession),
		newSession: newSession,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *Store) Get(chatID int64) *chat.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[chatID]
	if !ok {
		stored = &storedSession{session: s.newSession(chatID)}
		s.sessions[chatID] = stored
	}
	stored.lastSeen = s.now()
	return stored.session
}

// Sweep drops idle sessions and returns how many were removed. Sessions
// with a response in flight are kept.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ttl <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, stored := range s.sessions {
		if stored.lastSeen.After(cutoff) || stored.session.Busy() {
			continue
		}
		delete(s.sessions, id)
		removed++
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
