package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"celebhub-backend/internal/shared/response"
)

const (
	CSRFCookie = "csrf_token"
	CSRFHeader = "X-CSRF-Token"
)

// NewCSRFToken returns a random token for the double-submit cookie
func NewCSRFToken() string {
	return uuid.NewString()
}

// CSRF enforces the double-submit pattern on unsafe methods of
// cookie-authenticated requests: X-CSRF-Token must equal the csrf_token
// cookie. Requests without a session cookie and exempt paths pass through.
func CSRF(sessionCookie string, exempt ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if _, ok := skip[c.FullPath()]; ok {
			c.Next()
			return
		}
		if session, _ := c.Cookie(sessionCookie); session == "" {
			c.Next()
			return
		}

		cookie, _ := c.Cookie(CSRFCookie)
		header := c.GetHeader(CSRFHeader)
		if cookie == "" || subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			response.Error(c, http.StatusForbidden, "CSRF_FAILED", "Missing or invalid CSRF token")
			c.Abort()
			return
		}

		c.Next()
	}
}
