package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in a mutex-guarded map. Expiry is enforced
// by the Manager on read; there is no background sweeper.
type MemoryStore struct {
	mu sync.RWMutex
	m  map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m: make(map[string]Session),
	}
}

func (s *MemoryStore) Put(ctx context.Context, sess Session) error {
	s.mu.Lock()
	s.m[sess.Token] = sess
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (Session, bool, error) {
	s.mu.RLock()
	sess, ok := s.m[token]
	s.mu.RUnlock()

	return sess, ok, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()

	return nil
}
