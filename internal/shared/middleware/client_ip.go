package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"celebhub-backend/internal/shared/utils"
)

const (
	CtxRequestID = "request_id"
	CtxClientIP  = "client_ip"
)

// RequestContext tags every request with a request id (echoed in
// X-Request-ID) and the resolved client IP
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(CtxRequestID, id)
		c.Header("X-Request-ID", id)

		c.Set(CtxClientIP, utils.ExtractClientIP(c))
		c.Next()
	}
}
