package userstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dappstore-io/passport/core"
)

func TestFindOrCreateByWallet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.FindOrCreateByWallet(ctx, "0xAbC")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "0xabc", first.WalletAddress)

	// Same wallet, any casing, resolves to the same profile.
	second, err := store.FindOrCreateByWallet(ctx, "0xABC")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestFindOrCreateByGoogle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	identity := core.ExternalIdentity{
		Subject:     "google-sub-1",
		Email:       "a@example.com",
		DisplayName: "A",
	}

	first, err := store.FindOrCreateByGoogle(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, "google-sub-1", first.GoogleSubject)
	assert.Equal(t, "a@example.com", first.Email)

	second, err := store.FindOrCreateByGoogle(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestFindByID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.FindOrCreateByWallet(ctx, "0xabc")
	require.NoError(t, err)

	found, err := store.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	_, err = store.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrUserNotFound)
}
