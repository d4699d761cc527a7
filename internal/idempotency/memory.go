package idempotency

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/stayware/stayflow/internal/clock"
)

var errInvalidMarker = errors.New("idempotency marker requires a key and positive ttl")

// MemoryStore is an in-process Store used in tests and single-node runs.
type MemoryStore struct {
	clk clock.Clock

	mu     sync.Mutex
	expiry map[string]time.Time
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &MemoryStore{
		clk:    clk,
		expiry: map[string]time.Time{},
	}
}

func (s *MemoryStore) MarkIfFirst(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" || ttl <= 0 {
		return false, errInvalidMarker
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	if exp, ok := s.expiry[key]; ok && now.Before(exp) {
		return false, nil
	}
	s.expiry[key] = now.Add(ttl)
	return true, nil
}
