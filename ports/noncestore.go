package ports

import (
	"context"

	"github.com/dappstore-io/passport/core"
)

// NonceStore keeps at most one live nonce per wallet address and guarantees
// at-most-once consumption under concurrent callers.
type NonceStore interface {
	// Put stores a nonce keyed by its normalized address, replacing any
	// prior unconsumed nonce for that address.
	Put(ctx context.Context, nonce core.Nonce) error

	// Consume atomically compares the presented value against the stored
	// nonce and removes it on success. Two concurrent calls with the same
	// value cannot both observe ConsumeVerified.
	Consume(ctx context.Context, address, value string) (core.ConsumeResult, error)
}
