package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quotescroll/quotescroll/internal/readwise"
)

// TokenStore defines the credential store operations.
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}

// TokenValidator checks a token against the remote service.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) error
}

type TokenController struct {
	store     TokenStore
	validator TokenValidator
}

func NewTokenController(store TokenStore, validator TokenValidator) *TokenController {
	return &TokenController{store: store, validator: validator}
}

type tokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// SetToken validates and stores the API token.
// POST /api/token
func (tc *TokenController) SetToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	if err := tc.validator.ValidateToken(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, readwise.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondInternalError(c, err, "validate token")
		return
	}

	if err := tc.store.Set(req.Token); err != nil {
		respondInternalError(c, err, "store token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token saved"})
}

// ValidateToken checks a token without storing it.
// POST /api/token/validate
func (tc *TokenController) ValidateToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	if err := tc.validator.ValidateToken(c.Request.Context(), req.Token); err != nil {
		if errors.Is(err, readwise.ErrInvalidToken) {
			c.JSON(http.StatusOK, gin.H{"ok": false, "error": err.Error()})
			return
		}
		respondInternalError(c, err, "validate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetTokenStatus reports whether a token is stored, never the token itself.
// GET /api/token
func (tc *TokenController) GetTokenStatus(c *gin.Context) {
	token, err := tc.store.Get()
	if err != nil {
		respondInternalError(c, err, "load token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"configured": token != ""})
}

// ClearToken removes the stored token.
// DELETE /api/token
func (tc *TokenController) ClearToken(c *gin.Context) {
	if err := tc.store.Clear(); err != nil {
		respondInternalError(c, err, "clear token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "token cleared"})
}
