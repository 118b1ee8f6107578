package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-hrms/internal/shared/contextutil"
)

const requestIDHeader = "X-Request-ID"

// RequestID tags every request with an id and a request-scoped logger.
func RequestID(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}

		ctx := contextutil.WithRequestID(c.Request.Context(), rid)
		ctx = contextutil.WithLogger(ctx, logger.With(zap.String("request_id", rid)))
		c.Request = c.Request.WithContext(ctx)

		c.Header(requestIDHeader, rid)
		c.Next()
	}
}
