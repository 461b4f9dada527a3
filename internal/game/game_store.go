package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// session guards the game of one key. dead is set once the entry has been
// unlinked from the store so that late waiters retry on a fresh entry.
type session struct {
	mu         sync.Mutex
	state      *GameState
	lastActive time.Time
	dead       bool
}

// SessionStore owns the mapping from session key to GameState.
// Different keys never block one another; actions on the same key are serialized.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
	now      func() time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// acquire returns the locked entry for key, creating it if needed.
func (s *SessionStore) acquire(key string) *session {
	for {
		s.mu.RLock()
		sess, ok := s.sessions[key]
		s.mu.RUnlock()
		if !ok {
			s.mu.Lock()
			if sess, ok = s.sessions[key]; !ok {
				sess = &session{lastActive: s.now()}
				s.sessions[key] = sess
			}
			s.mu.Unlock()
		}
		sess.mu.Lock()
		if !sess.dead {
			return sess
		}
		sess.mu.Unlock()
	}
}

// acquireExisting returns the locked entry for key, or nil when there is none.
func (s *SessionStore) acquireExisting(key string) *session {
	for {
		s.mu.RLock()
		sess, ok := s.sessions[key]
		s.mu.RUnlock()
		if !ok {
			return nil
		}
		sess.mu.Lock()
		if !sess.dead {
			return sess
		}
		sess.mu.Unlock()
	}
}

// unlink removes a locked entry from the map. Caller holds sess.mu.
func (s *SessionStore) unlink(key string, sess *session) {
	sess.dead = true
	sess.state = nil
	s.mu.Lock()
	if s.sessions[key] == sess {
		delete(s.sessions, key)
	}
	s.mu.Unlock()
}

// withGame runs fn under the key's lock with the live game, or returns ErrNoActiveGame.
func (s *SessionStore) withGame(key string, fn func(sess *session) error) error {
	sess := s.acquireExisting(key)
	if sess == nil {
		return ErrNoActiveGame
	}
	defer sess.mu.Unlock()
	if sess.state == nil {
		return ErrNoActiveGame
	}
	return fn(sess)
}

// Get returns a snapshot of the game stored under key.
func (s *SessionStore) Get(key string) (GameState, bool) {
	var snap GameState
	err := s.withGame(key, func(sess *session) error {
		snap = sess.state.Clone()
		return nil
	})
	return snap, err == nil
}

// Start deals a fresh game for key, abandoning any game already in progress.
func (s *SessionStore) Start(key string, rng *rand.Rand) GameState {
	sess := s.acquire(key)
	defer sess.mu.Unlock()
	return s.startLocked(key, sess, rng).Clone()
}

func (s *SessionStore) startLocked(key string, sess *session, rng *rand.Rand) *GameState {
	now := s.now()
	sess.state = newGameState(key, rng, now)
	sess.lastActive = now
	return sess.state
}

// Put replaces the stored game for key with a copy of state. The copy takes key
// as its session key.
func (s *SessionStore) Put(key string, state GameState) {
	sess := s.acquire(key)
	defer sess.mu.Unlock()
	cp := state.Clone()
	cp.SessionKey = key
	sess.state = &cp
	sess.lastActive = s.now()
}

// Clear removes the game stored under key, if any.
func (s *SessionStore) Clear(key string) {
	sess := s.acquireExisting(key)
	if sess == nil {
		return
	}
	defer sess.mu.Unlock()
	s.unlink(key, sess)
}

// Len returns the number of keys holding a game.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops games that have been idle for longer than maxIdle and returns how many
// were removed. Sessions busy with an action are skipped until the next sweep.
func (s *SessionStore) Sweep(maxIdle time.Duration) int {
	s.mu.RLock()
	keys := make([]string, 0, len(s.sessions))
	entries := make([]*session, 0, len(s.sessions))
	for k, sess := range s.sessions {
		keys = append(keys, k)
		entries = append(entries, sess)
	}
	s.mu.RUnlock()

	now := s.now()
	removed := 0
	for i, sess := range entries {
		if !sess.mu.TryLock() {
			continue
		}
		if !sess.dead && (sess.state == nil || now.Sub(sess.lastActive) > maxIdle) {
			s.unlink(keys[i], sess)
			removed++
		}
		sess.mu.Unlock()
	}
	return removed
}

// CleanupLoop sweeps idle games every interval until ctx is done.
func (s *SessionStore) CleanupLoop(ctx context.Context, interval, maxIdle time.Duration, logger *logrus.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(maxIdle); n > 0 {
				logger.Infof("Removed %d idle game(s); %d remain.", n, s.Len())
			}
		}
	}
}
