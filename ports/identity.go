package ports

import (
	"context"

	"github.com/dappstore-io/passport/core"
)

// IdentityVerifier validates an external identity token (signature, issuer
// and audience) and returns the verified identity claims.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (core.ExternalIdentity, error)
}
