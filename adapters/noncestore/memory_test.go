package noncestore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dappstore-io/passport/core"
)

func freshNonce(address, value string, ttl time.Duration) core.Nonce {
	now := time.Now()
	return core.Nonce{
		Address:   address,
		Value:     value,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestMemoryStoreConsumeOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, freshNonce("0xabc", "n1", time.Minute)))

	result, err := store.Consume(ctx, "0xabc", "n1")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeVerified, result)

	// A nonce can never verify twice.
	result, err = store.Consume(ctx, "0xabc", "n1")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeMismatched, result)
}

func TestMemoryStoreConsumeMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, freshNonce("0xabc", "n1", time.Minute)))

	result, err := store.Consume(ctx, "0xabc", "wrong")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeMismatched, result)

	// The mismatch must not burn the stored nonce.
	result, err = store.Consume(ctx, "0xabc", "n1")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeVerified, result)
}

func TestMemoryStoreConsumeExpired(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, freshNonce("0xabc", "n1", -time.Second)))

	// Even the correct value must never verify after expiry.
	result, err := store.Consume(ctx, "0xabc", "n1")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeExpired, result)
}

func TestMemoryStoreExpiryBeatsMismatch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, freshNonce("0xabc", "n1", -time.Second)))

	// A stale record reports expired no matter what value was presented.
	result, err := store.Consume(ctx, "0xabc", "wrong")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeExpired, result)
}

func TestMemoryStoreConsumeMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	result, err := store.Consume(ctx, "0xabc", "n1")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeMismatched, result)
}

func TestMemoryStorePutReplacesPriorNonce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, freshNonce("0xabc", "old", time.Minute)))
	require.NoError(t, store.Put(ctx, freshNonce("0xABC", "new", time.Minute)))

	result, err := store.Consume(ctx, "0xabc", "old")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeMismatched, result)

	result, err = store.Consume(ctx, "0xabc", "new")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeVerified, result)
}

func TestMemoryStoreAddressNormalization(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, freshNonce("0xAbCd", "n1", time.Minute)))

	result, err := store.Consume(ctx, "0xABCD", "n1")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeVerified, result)
}

func TestMemoryStoreConcurrentConsumeAtMostOnce(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, freshNonce("0xabc", "n1", time.Minute)))

	const goroutines = 32
	var wg sync.WaitGroup
	results := make(chan core.ConsumeResult, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := store.Consume(ctx, "0xabc", "n1")
			assert.NoError(t, err)
			results <- result
		}()
	}
	wg.Wait()
	close(results)

	verified := 0
	for result := range results {
		if result == core.ConsumeVerified {
			verified++
		}
	}
	assert.Equal(t, 1, verified)
}

func TestMemoryStoreSweep(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Put(ctx, freshNonce("0xaaa", "n1", -time.Second)))
	require.NoError(t, store.Put(ctx, freshNonce("0xbbb", "n2", time.Minute)))

	assert.Equal(t, 1, store.Sweep(time.Now()))

	result, err := store.Consume(ctx, "0xbbb", "n2")
	require.NoError(t, err)
	assert.Equal(t, core.ConsumeVerified, result)
}
