package tokenizer

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dappstore-io/passport/core"
)

func newTestKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}

func TestSessionTokenRoundTrip(t *testing.T) {
	tk := NewJWTTokenizer(newTestKey(t))

	now := time.Now()
	session := &core.Session{
		ID:        "session-1",
		Subject:   "user-1",
		Address:   "0xabc",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}

	token, err := tk.SessionToToken(session)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := tk.TokenToSession(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, parsed.ID)
	assert.Equal(t, session.Subject, parsed.Subject)
	assert.Equal(t, session.Address, parsed.Address)
	assert.WithinDuration(t, session.ExpiresAt, parsed.ExpiresAt, time.Second)
}

func TestExpiredTokenRejected(t *testing.T) {
	tk := NewJWTTokenizer(newTestKey(t))

	now := time.Now()
	session := &core.Session{
		ID:        "session-1",
		Subject:   "user-1",
		IssuedAt:  now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}

	token, err := tk.SessionToToken(session)
	require.NoError(t, err)

	_, err = tk.TokenToSession(token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestMalformedTokenRejected(t *testing.T) {
	tk := NewJWTTokenizer(newTestKey(t))

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := tk.TokenToSession(token)
		assert.ErrorIs(t, err, core.ErrInvalidToken, "token %q", token)
	}
}

func TestTokenFromDifferentKeyRejected(t *testing.T) {
	minter := NewJWTTokenizer(newTestKey(t))
	verifier := NewJWTTokenizer(newTestKey(t))

	now := time.Now()
	token, err := minter.SessionToToken(&core.Session{
		ID:        "session-1",
		Subject:   "user-1",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = verifier.TokenToSession(token)
	assert.ErrorIs(t, err, core.ErrInvalidToken)
}
