package userstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dappstore-io/passport/core"
	"github.com/dappstore-io/passport/ports"
)

// RedisStore is a Redis implementation of the UserStore interface. Profiles
// are stored as JSON blobs keyed by user id, with wallet-address and
// Google-subject indexes pointing at the id.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis user store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "passport:user:",
	}
}

var _ ports.UserStore = (*RedisStore)(nil)

// FindOrCreateByWallet returns the profile owning the wallet address,
// creating one on first login. Creation reserves the index with SETNX so
// two concurrent first logins converge on a single profile.
func (s *RedisStore) FindOrCreateByWallet(ctx context.Context, address string) (core.UserProfile, error) {
	indexKey := s.prefix + "wallet:" + core.NormalizeAddress(address)

	profile := core.UserProfile{
		ID:            uuid.New().String(),
		WalletAddress: core.NormalizeAddress(address),
	}

	return s.findOrCreate(ctx, indexKey, profile)
}

// FindOrCreateByGoogle returns the profile owning the Google subject,
// creating one from the verified identity on first login.
func (s *RedisStore) FindOrCreateByGoogle(ctx context.Context, identity core.ExternalIdentity) (core.UserProfile, error) {
	indexKey := s.prefix + "google:" + identity.Subject

	profile := core.UserProfile{
		ID:            uuid.New().String(),
		GoogleSubject: identity.Subject,
		DisplayName:   identity.DisplayName,
		Email:         identity.Email,
		AvatarURL:     identity.AvatarURL,
	}

	return s.findOrCreate(ctx, indexKey, profile)
}

// FindByID returns the profile for a user id.
func (s *RedisStore) FindByID(ctx context.Context, id string) (core.UserProfile, error) {
	payload, err := s.client.Get(ctx, s.prefix+"id:"+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.UserProfile{}, core.ErrUserNotFound
		}
		return core.UserProfile{}, fmt.Errorf("failed to load user: %w: %v", core.ErrStorageFailure, err)
	}

	var profile core.UserProfile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return core.UserProfile{}, fmt.Errorf("failed to decode user: %w: %v", core.ErrStorageFailure, err)
	}

	return profile, nil
}

func (s *RedisStore) findOrCreate(ctx context.Context, indexKey string, fresh core.UserProfile) (core.UserProfile, error) {
	created, err := s.client.SetNX(ctx, indexKey, fresh.ID, 0).Result()
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("failed to reserve user index: %w: %v", core.ErrStorageFailure, err)
	}

	if !created {
		// Another login already owns this identity; follow the index.
		id, err := s.client.Get(ctx, indexKey).Result()
		if err != nil {
			return core.UserProfile{}, fmt.Errorf("failed to resolve user index: %w: %v", core.ErrStorageFailure, err)
		}
		return s.FindByID(ctx, id)
	}

	payload, err := json.Marshal(fresh)
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("failed to encode user: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+"id:"+fresh.ID, payload, 0).Err(); err != nil {
		return core.UserProfile{}, fmt.Errorf("failed to store user: %w: %v", core.ErrStorageFailure, err)
	}

	return fresh, nil
}
