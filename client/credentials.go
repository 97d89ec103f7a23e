// Package client provides the device-side credential layer of the DApp
// store: a durable credential store for the current session token and a
// transport that attaches it to outbound requests.
package client

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Record is the persisted credential: the session token, its absolute
// expiry, and the profile snapshot cached at login. The three fields are
// always written together.
type Record struct {
	Token           string          `json:"token"`
	ExpiresAtMillis int64           `json:"expiresAtMillis"`
	Profile         json.RawMessage `json:"profile,omitempty"`
}

// live reports whether the record holds a usable token at the given instant.
func (r *Record) live(at time.Time) bool {
	return r != nil && r.Token != "" && at.UnixMilli() < r.ExpiresAtMillis
}

// Storage persists a credential record. Store must replace the previous
// record atomically or leave it intact on failure.
type Storage interface {
	Load() (*Record, error)
	Store(record Record) error
	Clear() error
}

// CredentialStore owns the on-device copy of the session token and cached
// profile. Reads and writes are individually atomic; a stale record is
// treated as absent without being deleted.
type CredentialStore struct {
	storage Storage
	now     func() time.Time

	mu        sync.RWMutex
	current   *Record
	observers map[int]chan bool
	nextID    int
}

// NewCredentialStore creates a store backed by the given storage, loading
// any previously persisted record.
func NewCredentialStore(storage Storage) (*CredentialStore, error) {
	record, err := storage.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	return &CredentialStore{
		storage:   storage,
		now:       time.Now,
		current:   record,
		observers: make(map[int]chan bool),
	}, nil
}

// SaveAuth persists a fresh credential: the token, an absolute expiry
// computed from expiresInSeconds, and the profile snapshot, as one atomic
// update. On failure the previous record stays intact.
func (s *CredentialStore) SaveAuth(token string, expiresInSeconds int64, profile []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := Record{
		Token:           token,
		ExpiresAtMillis: s.now().UnixMilli() + expiresInSeconds*1000,
		Profile:         profile,
	}

	// Persist first; the in-memory snapshot only moves once storage took
	// the full record.
	if err := s.storage.Store(record); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}

	s.current = &record
	s.notifyLocked()
	return nil
}

// Token returns the stored session token while it is unexpired.
func (s *CredentialStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.current.live(s.now()) {
		return "", false
	}
	return s.current.Token, true
}

// IsLoggedIn reports whether an unexpired token is stored.
func (s *CredentialStore) IsLoggedIn() bool {
	_, ok := s.Token()
	return ok
}

// UserProfile returns the cached profile snapshot from the last login.
func (s *CredentialStore) UserProfile() ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil || len(s.current.Profile) == 0 {
		return nil, false
	}
	return s.current.Profile, true
}

// ClearAuth removes the token, expiry and profile together.
func (s *CredentialStore) ClearAuth() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Clear(); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}

	s.current = nil
	s.notifyLocked()
	return nil
}

// ObserveLoggedIn returns a stream of the logged-in predicate. The current
// value is emitted immediately, then a value on every record change.
// Emissions coalesce: a slow subscriber sees the latest state, not every
// intermediate one. The returned cancel func releases the subscription.
func (s *CredentialStore) ObserveLoggedIn() (<-chan bool, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan bool, 1)
	id := s.nextID
	s.nextID++
	s.observers[id] = ch

	ch <- s.current.live(s.now())

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.observers[id]; ok {
			delete(s.observers, id)
			close(ch)
		}
	}
	return ch, cancel
}

// notifyLocked pushes the latest liveness value to every observer.
// Callers hold s.mu.
func (s *CredentialStore) notifyLocked() {
	loggedIn := s.current.live(s.now())
	for _, ch := range s.observers {
		// Coalesce: drop the stale pending value, keep the newest.
		select {
		case <-ch:
		default:
		}
		ch <- loggedIn
	}
}
