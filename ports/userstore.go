package ports

import (
	"context"

	"github.com/dappstore-io/passport/core"
)

// UserStore persists user profiles and resolves them by login identity.
type UserStore interface {
	// FindOrCreateByWallet returns the profile owning the wallet address,
	// creating a fresh one on first login.
	FindOrCreateByWallet(ctx context.Context, address string) (core.UserProfile, error)

	// FindOrCreateByGoogle returns the profile owning the Google subject,
	// creating one from the verified identity on first login.
	FindOrCreateByGoogle(ctx context.Context, identity core.ExternalIdentity) (core.UserProfile, error)

	// FindByID returns the profile for a user id, or core.ErrUserNotFound.
	FindByID(ctx context.Context, id string) (core.UserProfile, error)
}
