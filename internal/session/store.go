// Package session stores in-flight interview sessions. Sessions are
// kept in an expiring in-memory cache; expired sessions are swept in
// the background and simply disappear, matching how abandoned
// interviews are treated.
package session

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"talentscope/internal/errors"
	"talentscope/internal/types"
)

// Store holds interview sessions with a TTL. All mutation of a session
// must go through WithLock; reads of a snapshot can use Get.
type Store struct {
	cache  *cache.Cache
	logger *errors.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a session store. Sessions idle longer than ttl are
// evicted by a sweeper running every cleanupInterval.
func NewStore(ttl, cleanupInterval time.Duration, logger *errors.Logger) *Store {
	s := &Store{
		cache:  cache.New(ttl, cleanupInterval),
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
	s.cache.OnEvicted(func(id string, _ any) {
		s.mu.Lock()
		delete(s.locks, id)
		s.mu.Unlock()
		if logger != nil {
			logger.Debug("interview session evicted", "session_id", id)
		}
	})
	return s
}

// Put stores a session and refreshes its TTL.
func (s *Store) Put(sess *types.InterviewSession) {
	s.cache.Set(sess.ID, sess, cache.DefaultExpiration)
}

// Get returns the session or a typed not-found error.
func (s *Store) Get(id string) (*types.InterviewSession, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, errors.NewSessionError(errors.ErrCodeSessionNotFound,
			"Interview session not found", nil).WithContext("session_id", id)
	}
	return v.(*types.InterviewSession), nil
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
}

// List returns all live sessions. Order is unspecified.
func (s *Store) List() []*types.InterviewSession {
	items := s.cache.Items()
	out := make([]*types.InterviewSession, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(*types.InterviewSession))
	}
	return out
}

// WithLock runs fn with the session under its per-session mutex and
// refreshes the TTL afterwards. Concurrent submissions to the same
// session serialize here.
func (s *Store) WithLock(id string, fn func(*types.InterviewSession) error) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}
	s.Put(sess)
	return nil
}

func (s *Store) lockFor(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}
