package core

import "strings"

// noncePrefix marks the line of the login message that carries the challenge.
const noncePrefix = "Nonce: "

// LoginMessage builds the plain-text message a wallet signs to prove key
// possession. The nonce sits on its own line so replayed messages fail
// nonce consumption before any signature work happens.
func LoginMessage(nonce string) string {
	return "Sign in to the DApp Store.\n\n" + noncePrefix + nonce
}

// NonceFromMessage extracts the embedded nonce from a signed login message.
// Returns ErrInvalidNonce when the message does not follow the login format.
func NonceFromMessage(message string) (string, error) {
	for _, line := range strings.Split(message, "\n") {
		if rest, ok := strings.CutPrefix(line, noncePrefix); ok && rest != "" {
			return rest, nil
		}
	}
	return "", ErrInvalidNonce
}

// NormalizeAddress canonicalizes a wallet address for use as a storage key.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
