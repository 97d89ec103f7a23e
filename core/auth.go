package core

import "time"

// Nonce is a single-use login challenge bound to a wallet address.
type Nonce struct {
	Address   string    // Normalized (lowercase) wallet address
	Value     string    // Random challenge the wallet signs
	IssuedAt  time.Time // When the nonce was created
	ExpiresAt time.Time // When the nonce stops being consumable
}

// Expired reports whether the nonce window has passed at the given instant.
func (n Nonce) Expired(at time.Time) bool {
	return at.After(n.ExpiresAt)
}

// ConsumeResult is the outcome of attempting to consume a nonce.
type ConsumeResult int

const (
	// ConsumeVerified means the presented nonce matched and is now spent.
	ConsumeVerified ConsumeResult = iota

	// ConsumeExpired means a nonce existed but its window has passed.
	ConsumeExpired

	// ConsumeMismatched means no live nonce matched the presented value.
	// Missing and already-consumed nonces also report mismatched.
	ConsumeMismatched
)

func (r ConsumeResult) String() string {
	switch r {
	case ConsumeVerified:
		return "verified"
	case ConsumeExpired:
		return "expired"
	default:
		return "mismatched"
	}
}

// UserProfile is the snapshot of a user returned alongside a session token.
type UserProfile struct {
	ID            string `json:"id"`
	WalletAddress string `json:"walletAddress,omitempty"`
	GoogleSubject string `json:"googleSubject,omitempty"`
	DisplayName   string `json:"displayName,omitempty"`
	Email         string `json:"email,omitempty"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
}

// Session represents an authenticated user session carried by a bearer token.
type Session struct {
	ID        string    // Unique session identifier (JWT ID)
	Subject   string    // User id the session belongs to
	Address   string    // Wallet address, empty for external-identity logins
	IssuedAt  time.Time // When the session was created
	ExpiresAt time.Time // When the bearer token stops being accepted
}

// LoginResult is what a successful login returns to the client.
type LoginResult struct {
	Token     string      // Signed session token
	ExpiresIn int64       // Seconds until the token expires
	User      UserProfile // Profile snapshot at login time
}

// ExternalIdentity is the verified claim set of an external identity token.
type ExternalIdentity struct {
	Subject     string // Stable id at the identity provider
	Email       string
	DisplayName string
	AvatarURL   string
}
