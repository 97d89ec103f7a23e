package userstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dappstore-io/passport/core"
	"github.com/dappstore-io/passport/ports"
)

// MemoryStore is an in-memory implementation of the UserStore interface,
// primarily intended for testing.
type MemoryStore struct {
	byID     map[string]core.UserProfile
	byWallet map[string]string
	byGoogle map[string]string
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory user store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:     make(map[string]core.UserProfile),
		byWallet: make(map[string]string),
		byGoogle: make(map[string]string),
	}
}

var _ ports.UserStore = (*MemoryStore)(nil)

// FindOrCreateByWallet returns the profile owning the wallet address,
// creating one on first login.
func (s *MemoryStore) FindOrCreateByWallet(ctx context.Context, address string) (core.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := core.NormalizeAddress(address)
	if id, ok := s.byWallet[key]; ok {
		return s.byID[id], nil
	}

	profile := core.UserProfile{
		ID:            uuid.New().String(),
		WalletAddress: key,
	}
	s.byID[profile.ID] = profile
	s.byWallet[key] = profile.ID

	return profile, nil
}

// FindOrCreateByGoogle returns the profile owning the Google subject,
// creating one from the verified identity on first login.
func (s *MemoryStore) FindOrCreateByGoogle(ctx context.Context, identity core.ExternalIdentity) (core.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byGoogle[identity.Subject]; ok {
		return s.byID[id], nil
	}

	profile := core.UserProfile{
		ID:            uuid.New().String(),
		GoogleSubject: identity.Subject,
		DisplayName:   identity.DisplayName,
		Email:         identity.Email,
		AvatarURL:     identity.AvatarURL,
	}
	s.byID[profile.ID] = profile
	s.byGoogle[identity.Subject] = profile.ID

	return profile, nil
}

// FindByID returns the profile for a user id.
func (s *MemoryStore) FindByID(ctx context.Context, id string) (core.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.byID[id]
	if !ok {
		return core.UserProfile{}, core.ErrUserNotFound
	}

	return profile, nil
}
