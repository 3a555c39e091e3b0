package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"celebhub-backend/internal/shared/access"
	"celebhub-backend/internal/shared/response"
)

// CtxAdmin holds the admin *model.User once RequireAdmin let the request in
const CtxAdmin = "admin"

// RequireAdmin redirects anonymous requests to loginPath and answers 403 to
// authenticated accounts that are not administrators
func RequireAdmin(gate *access.Gate, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, u, err := gate.Decide(c.Request.Context(), AccountID(c))
		if err != nil {
			log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("admin check failed")
			response.ServiceUnavailable(c, "Account store unavailable")
			c.Abort()
			return
		}

		switch decision {
		case access.Unauthenticated:
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		case access.Forbidden:
			log.Warn().Str("user_id", u.ID).Str("path", c.Request.URL.Path).Msg("non-admin denied")
			response.Forbidden(c, "Access denied: administrator required")
			c.Abort()
			return
		}

		c.Set(CtxAdmin, u)
		c.Next()
	}
}
