// Package middleware – bearer-token authentication.
//
// This file implements the JWT guard for the private API surface. It parses
// the Authorization header, validates the token signature and time claims,
// and stashes the authenticated identity in the Gin context under "userID"
// (and "userEmail") for downstream handlers and middleware.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartswipe/go-swipe-backend/internal/auth"
)

// ContextUserID is the Gin context key holding the authenticated user ID.
const ContextUserID = "userID"

// ContextUserEmail is the Gin context key holding the authenticated email.
const ContextUserEmail = "userEmail"

// RequireAuth returns a middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header. On success the user identity is
// available via c.GetString(ContextUserID).
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			unauthorized(c, "missing bearer token")
			return
		}
		claims, err := tokens.ValidateToken(strings.TrimSpace(header[len(prefix):]))
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    "unauthorized",
		"message": msg,
	})
}
