package noncestore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dappstore-io/passport/core"
	"github.com/dappstore-io/passport/ports"
)

// expiredGrace is how long past its window a nonce record is retained so a
// late consumption attempt can be reported as expired rather than mismatched.
const expiredGrace = time.Hour

// consumeScript atomically compares the presented nonce with the stored one
// and deletes the record on a match, so at most one caller ever sees a hit.
// Expiry is checked before the value compare, matching the memory store: a
// stale record reports expired no matter what value was presented.
// The stored payload is "<expiresAtUnixMilli>|<nonce>".
var consumeScript = redis.NewScript(`
local v = redis.call('GET', KEYS[1])
if not v then
	return 'mismatched'
end
local sep = string.find(v, '|', 1, true)
local exp = tonumber(string.sub(v, 1, sep - 1))
local nonce = string.sub(v, sep + 1)
if tonumber(ARGV[2]) > exp then
	redis.call('DEL', KEYS[1])
	return 'expired'
end
if nonce ~= ARGV[1] then
	return 'mismatched'
end
redis.call('DEL', KEYS[1])
return 'verified'
`)

// RedisStore is a Redis implementation of the NonceStore interface.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis nonce store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "passport:nonce:",
	}
}

var _ ports.NonceStore = (*RedisStore)(nil)

// Put stores a nonce, replacing any prior nonce for the same address. The
// key carries a TTL slightly past the nonce window so expired consumption
// attempts still report expired.
func (s *RedisStore) Put(ctx context.Context, nonce core.Nonce) error {
	key := s.prefix + core.NormalizeAddress(nonce.Address)
	payload := strconv.FormatInt(nonce.ExpiresAt.UnixMilli(), 10) + "|" + nonce.Value

	ttl := time.Until(nonce.ExpiresAt) + expiredGrace
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store nonce: %w: %v", core.ErrStorageFailure, err)
	}

	return nil
}

// Consume runs the compare-and-delete script against the stored nonce.
func (s *RedisStore) Consume(ctx context.Context, address, value string) (core.ConsumeResult, error) {
	key := s.prefix + core.NormalizeAddress(address)
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)

	res, err := consumeScript.Run(ctx, s.client, []string{key}, value, now).Text()
	if err != nil {
		return core.ConsumeMismatched, fmt.Errorf("failed to consume nonce: %w: %v", core.ErrStorageFailure, err)
	}

	switch strings.TrimSpace(res) {
	case "verified":
		return core.ConsumeVerified, nil
	case "expired":
		return core.ConsumeExpired, nil
	default:
		return core.ConsumeMismatched, nil
	}
}
