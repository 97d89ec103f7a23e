// Package identity verifies external identity tokens against their
// provider's published signing keys.
package identity

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dappstore-io/passport/core"
	"github.com/dappstore-io/passport/ports"
)

const (
	// googleJWKSURL is Google's published signing-key set.
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

	// keyRefreshInterval bounds how often the key set is re-fetched.
	keyRefreshInterval = time.Hour
)

// googleIssuers are the issuer values Google puts in ID tokens.
var googleIssuers = []string{"https://accounts.google.com", "accounts.google.com"}

// googleClaims is the subset of Google ID-token claims this service reads.
type googleClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// GoogleVerifier validates Google ID tokens: signature against Google's
// JWKS, issuer, audience and expiry.
type GoogleVerifier struct {
	audience string
	jwksURL  string
	client   *http.Client

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewGoogleVerifier creates a verifier for tokens issued to the given OAuth
// client id (the token audience).
func NewGoogleVerifier(audience string) *GoogleVerifier {
	return &GoogleVerifier{
		audience: audience,
		jwksURL:  googleJWKSURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// NewGoogleVerifierWithJWKS creates a verifier against a custom key-set URL.
// Used against stand-in key servers in tests.
func NewGoogleVerifierWithJWKS(audience, jwksURL string) *GoogleVerifier {
	v := NewGoogleVerifier(audience)
	v.jwksURL = jwksURL
	return v
}

var _ ports.IdentityVerifier = (*GoogleVerifier)(nil)

// Verify checks the ID token and returns the verified identity claims.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (core.ExternalIdentity, error) {
	claims := &googleClaims{}

	token, err := jwt.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		kid, _ := token.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token has no key id")
		}
		return v.signingKey(ctx, kid)
	}, jwt.WithAudience(v.audience), jwt.WithExpirationRequired())

	if err != nil || !token.Valid {
		return core.ExternalIdentity{}, fmt.Errorf("google token verification failed: %w", core.ErrInvalidExternalToken)
	}

	if !issuedByGoogle(claims.Issuer) {
		return core.ExternalIdentity{}, fmt.Errorf("unexpected issuer %q: %w", claims.Issuer, core.ErrInvalidExternalToken)
	}

	return core.ExternalIdentity{
		Subject:     claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		AvatarURL:   claims.Picture,
	}, nil
}

func issuedByGoogle(issuer string) bool {
	for _, iss := range googleIssuers {
		if issuer == iss {
			return true
		}
	}
	return false
}

// signingKey returns the RSA public key for a key id, refreshing the cached
// key set when the id is unknown or the cache is stale.
func (v *GoogleVerifier) signingKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	key, ok := v.keys[kid]
	fresh := time.Since(v.fetchedAt) < keyRefreshInterval
	v.mu.RUnlock()

	if ok && fresh {
		return key, nil
	}

	if err := v.refreshKeys(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	key, ok = v.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no signing key with id %q", kid)
	}
	return key, nil
}

func (v *GoogleVerifier) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build key-set request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch key set: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("key-set endpoint returned status %d", resp.StatusCode)
	}

	var keySet struct {
		Keys []struct {
			Kty string `json:"kty"`
			Kid string `json:"kid"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&keySet); err != nil {
		return fmt.Errorf("failed to decode key set: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(keySet.Keys))
	for _, k := range keySet.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := rsaKeyFromJWK(k.N, k.E)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}

	if len(keys) == 0 {
		return fmt.Errorf("key set contained no usable keys")
	}

	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = time.Now()
	v.mu.Unlock()

	return nil
}

func rsaKeyFromJWK(n, e string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, fmt.Errorf("bad modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, fmt.Errorf("bad exponent: %w", err)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}
