package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dappstore-io/passport/core"
	"github.com/dappstore-io/passport/internal/eth"
	"github.com/dappstore-io/passport/ports"
)

const (
	// DefaultNonceTTL is how long an issued nonce stays consumable.
	DefaultNonceTTL = 5 * time.Minute

	// DefaultSessionTTL is how long a minted session token stays valid.
	DefaultSessionTTL = 24 * time.Hour
)

// AuthService handles authentication business logic: nonce issuance, wallet
// and Google logins, and session-token validation.
type AuthService struct {
	nonceStore ports.NonceStore
	userStore  ports.UserStore
	tokenizer  ports.Tokenizer
	identity   ports.IdentityVerifier
	eventPub   ports.EventPublisher
	log        zerolog.Logger

	nonceTTL   time.Duration
	sessionTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	nonceStore ports.NonceStore,
	userStore ports.UserStore,
	tokenizer ports.Tokenizer,
	identity ports.IdentityVerifier,
	eventPub ports.EventPublisher,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		nonceStore: nonceStore,
		userStore:  userStore,
		tokenizer:  tokenizer,
		identity:   identity,
		eventPub:   eventPub,
		log:        log,
		nonceTTL:   DefaultNonceTTL,
		sessionTTL: DefaultSessionTTL,
	}
}

// WithTTLs overrides the nonce and session lifetimes.
func (s *AuthService) WithTTLs(nonceTTL, sessionTTL time.Duration) *AuthService {
	s.nonceTTL = nonceTTL
	s.sessionTTL = sessionTTL
	return s
}

// IssueNonce generates a fresh login challenge for a wallet address,
// replacing any prior unconsumed nonce for that address.
func (s *AuthService) IssueNonce(ctx context.Context, address string) (core.Nonce, error) {
	if !common.IsHexAddress(address) {
		return core.Nonce{}, core.ErrInvalidAddress
	}

	nonceBytes := make([]byte, 32)
	if _, err := rand.Read(nonceBytes); err != nil {
		return core.Nonce{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	now := time.Now()
	nonce := core.Nonce{
		Address:   core.NormalizeAddress(address),
		Value:     hex.EncodeToString(nonceBytes),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.nonceTTL),
	}

	if err := s.nonceStore.Put(ctx, nonce); err != nil {
		return core.Nonce{}, fmt.Errorf("failed to store nonce: %w", err)
	}

	return nonce, nil
}

// Login authenticates a wallet by its signature over a message embedding a
// previously issued nonce. Checks run in order and the first failure wins:
// nonce extraction and consumption, then signature recovery, then profile
// lookup and token minting.
func (s *AuthService) Login(ctx context.Context, address, signature, message string) (core.LoginResult, error) {
	nonceValue, err := core.NonceFromMessage(message)
	if err != nil {
		return core.LoginResult{}, core.ErrInvalidNonce
	}

	result, err := s.nonceStore.Consume(ctx, address, nonceValue)
	if err != nil {
		return core.LoginResult{}, fmt.Errorf("failed to consume nonce: %w", err)
	}
	if result != core.ConsumeVerified {
		return core.LoginResult{}, fmt.Errorf("nonce %s: %w", result, core.ErrInvalidNonce)
	}

	if !eth.Verify(address, message, signature) {
		return core.LoginResult{}, core.ErrInvalidSignature
	}

	profile, err := s.userStore.FindOrCreateByWallet(ctx, address)
	if err != nil {
		return core.LoginResult{}, fmt.Errorf("failed to resolve user: %w", err)
	}

	return s.issueSession(ctx, profile, "wallet")
}

// LoginWithGoogle authenticates via a Google ID token. The identity
// provider's signature, issuer and audience checks replace the nonce and
// wallet-signature steps; the flow converges at profile lookup.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (core.LoginResult, error) {
	if s.identity == nil {
		return core.LoginResult{}, core.ErrInvalidExternalToken
	}

	identity, err := s.identity.Verify(ctx, idToken)
	if err != nil {
		return core.LoginResult{}, fmt.Errorf("identity verification failed: %w", core.ErrInvalidExternalToken)
	}

	profile, err := s.userStore.FindOrCreateByGoogle(ctx, identity)
	if err != nil {
		return core.LoginResult{}, fmt.Errorf("failed to resolve user: %w", err)
	}

	return s.issueSession(ctx, profile, "google")
}

// ValidateSessionToken parses and verifies a bearer token. Validity is a
// pure signature-and-expiry check; no store is consulted.
func (s *AuthService) ValidateSessionToken(ctx context.Context, token string) (*core.Session, error) {
	session, err := s.tokenizer.TokenToSession(token)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Profile returns the stored profile for a session subject. A valid token
// whose user has vanished is treated as unauthenticated.
func (s *AuthService) Profile(ctx context.Context, userID string) (core.UserProfile, error) {
	profile, err := s.userStore.FindByID(ctx, userID)
	if err != nil {
		return core.UserProfile{}, core.ErrUnauthenticated
	}
	return profile, nil
}

// Logout records a logout. Session tokens are stateless, so the server
// keeps accepting the old token until it expires; invalidation is the
// client dropping its cached credential.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	if err := s.eventPub.PublishLogout(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID).Msg("failed to publish logout event")
	}
}

func (s *AuthService) issueSession(ctx context.Context, profile core.UserProfile, method string) (core.LoginResult, error) {
	now := time.Now()
	session := &core.Session{
		ID:        uuid.New().String(),
		Subject:   profile.ID,
		Address:   profile.WalletAddress,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	token, err := s.tokenizer.SessionToToken(session)
	if err != nil {
		return core.LoginResult{}, fmt.Errorf("failed to mint session token: %w", err)
	}

	if err := s.eventPub.PublishLogin(ctx, profile.ID, method); err != nil {
		s.log.Warn().Err(err).Str("user_id", profile.ID).Msg("failed to publish login event")
	}

	return core.LoginResult{
		Token:     token,
		ExpiresIn: int64(s.sessionTTL / time.Second),
		User:      profile,
	}, nil
}
