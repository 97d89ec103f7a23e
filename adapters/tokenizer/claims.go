package tokenizer

import "github.com/golang-jwt/jwt/v5"

// SessionClaims combines the registered claims with the wallet address the
// session was opened with, when any.
type SessionClaims struct {
	jwt.RegisteredClaims
	Address string `json:"addr,omitempty"`
}
