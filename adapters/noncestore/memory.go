package noncestore

import (
	"context"
	"sync"
	"time"

	"github.com/dappstore-io/passport/core"
	"github.com/dappstore-io/passport/ports"
)

// MemoryStore is an in-memory implementation of the NonceStore interface.
// Consumption happens under a single lock, so two concurrent Consume calls
// for the same nonce cannot both succeed.
type MemoryStore struct {
	nonces map[string]core.Nonce
	mu     sync.Mutex
}

// NewMemoryStore creates a new in-memory nonce store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nonces: make(map[string]core.Nonce),
	}
}

var _ ports.NonceStore = (*MemoryStore)(nil)

// Put stores a nonce, replacing any prior nonce for the same address.
func (s *MemoryStore) Put(ctx context.Context, nonce core.Nonce) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nonces[core.NormalizeAddress(nonce.Address)] = nonce
	return nil
}

// Consume compares the presented value against the stored nonce and removes
// it on a match. Expired nonces are removed and reported as expired.
func (s *MemoryStore) Consume(ctx context.Context, address, value string) (core.ConsumeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := core.NormalizeAddress(address)
	nonce, ok := s.nonces[key]
	if !ok {
		return core.ConsumeMismatched, nil
	}

	if nonce.Expired(time.Now()) {
		delete(s.nonces, key)
		return core.ConsumeExpired, nil
	}

	if nonce.Value != value {
		return core.ConsumeMismatched, nil
	}

	delete(s.nonces, key)
	return core.ConsumeVerified, nil
}

// Sweep removes every expired nonce and returns how many were reclaimed.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, nonce := range s.nonces {
		if nonce.Expired(now) {
			delete(s.nonces, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs a background sweep at the given interval until the
// context is cancelled. Purely a storage-reclamation aid; expiry is always
// enforced at consumption time regardless.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.Sweep(now)
			}
		}
	}()
}
