package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"celebhub-backend/internal/shared/response"
	"celebhub-backend/pkg/jwt"
)

// Context keys set by Session
const (
	CtxAccountID = "accountID"
	CtxUsername  = "username"
)

// Session resolves the signed session cookie (or a Bearer token for API
// clients) into the request context. It never rejects a request; use
// RequireAccount or RequireAdmin for that.
func Session(tokens *jwt.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		if token == "" {
			if parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2); len(parts) == 2 && parts[0] == "Bearer" {
				token = parts[1]
			}
		}

		if token != "" {
			if claims, err := tokens.ValidateSessionToken(token); err == nil {
				c.Set(CtxAccountID, claims.AccountID)
				c.Set(CtxUsername, claims.Username)
			}
		}

		c.Next()
	}
}

// AccountID returns the session's account id, or "" without a session
func AccountID(c *gin.Context) string {
	return c.GetString(CtxAccountID)
}

// RequireAccount rejects requests without a valid session (401)
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if AccountID(c) == "" {
			response.Error(c, http.StatusUnauthorized, "AUTH_ERROR", "Login required")
			c.Abort()
			return
		}
		c.Next()
	}
}
