package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginMessageRoundTrip(t *testing.T) {
	msg := LoginMessage("a1b2c3")

	nonce, err := NonceFromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3", nonce)
}

func TestNonceFromMessageMalformed(t *testing.T) {
	for _, msg := range []string{
		"",
		"Sign in to the DApp Store.",
		"Nonce:",
		"Nonce: ",
		"nonce: abc",
	} {
		_, err := NonceFromMessage(msg)
		assert.ErrorIs(t, err, ErrInvalidNonce, "message %q", msg)
	}
}

func TestNormalizeAddress(t *testing.T) {
	assert.Equal(t, "0xabc123", NormalizeAddress("  0xABC123 "))
}
