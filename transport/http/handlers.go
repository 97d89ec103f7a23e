package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dappstore-io/passport/core"
	"github.com/dappstore-io/passport/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints.
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers.
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// loginResponse is the shared response shape of the login endpoints.
type loginResponse struct {
	Token     string           `json:"token"`
	TokenType string           `json:"tokenType"`
	ExpiresIn int64            `json:"expiresIn"`
	User      core.UserProfile `json:"user"`
}

// Nonce issues a fresh login challenge for a wallet address.
func (h *AuthHandlers) Nonce(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	nonce, err := h.authService.IssueNonce(c.Request.Context(), req.WalletAddress)
	if err != nil {
		if errors.Is(err, core.ErrInvalidAddress) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_address"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "nonce_issue_failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"nonce":     nonce.Value,
		"expiresAt": nonce.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Login authenticates a wallet signature over a nonce-bearing message.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required"`
		Signature     string `json:"signature" binding:"required"`
		Message       string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.WalletAddress, req.Signature, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidNonce):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_nonce"})
		case errors.Is(err, core.ErrInvalidSignature):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_signature"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login_failed"})
		}
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresIn: result.ExpiresIn,
		User:      result.User,
	})
}

// LoginWithGoogle authenticates via a Google ID token.
func (h *AuthHandlers) LoginWithGoogle(c *gin.Context) {
	var req struct {
		IDToken string `json:"idToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	result, err := h.authService.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, core.ErrInvalidExternalToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_external_token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login_failed"})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		TokenType: "Bearer",
		ExpiresIn: result.ExpiresIn,
		User:      result.User,
	})
}

// Me returns the authenticated user's profile.
func (h *AuthHandlers) Me(c *gin.Context) {
	userID := c.GetString(userIDKey)

	profile, err := h.authService.Profile(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Logout records a logout. Tokens are stateless, so invalidation is the
// client dropping its cached credential; the server only emits the event.
func (h *AuthHandlers) Logout(c *gin.Context) {
	userID := c.GetString(userIDKey)

	h.authService.Logout(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
