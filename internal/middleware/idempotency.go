package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-hrms/internal/shared/apperror"
	"go-hrms/internal/shared/response"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a request carries a key the
// server has already processed. A key whose first request is still running
// gets a conflict instead of a second execution. Requests without the
// header pass through untouched.
func Idempotency(redisClient *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("middleware.idempotency")

	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		if key == "" || redisClient == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := "idem:" + c.Request.Method + ":" + c.FullPath() + ":" + key

		acquired, err := redisClient.SetNX(ctx, cacheKey, "in-flight", idempotencyTTL).Result()
		if err != nil {
			// Redis being down must not block money movement; fall through.
			log.Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}

		if !acquired {
			raw, err := redisClient.Get(ctx, cacheKey).Bytes()
			if err == nil {
				var cached cachedResponse
				if err := json.Unmarshal(raw, &cached); err == nil {
					c.Data(cached.Status, "application/json", cached.Body)
					c.Abort()
					return
				}
			}

			httpErr := apperror.ToHTTP(apperror.New(apperror.CodeConflict,
				"a request with this idempotency key is already being processed",
				http.StatusConflict))
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			c.Abort()
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			// Server faults are retryable; release the key.
			if err := redisClient.Del(ctx, cacheKey).Err(); err != nil {
				log.Warn("idempotency key release failed", zap.Error(err))
			}
			return
		}

		payload, err := json.Marshal(cachedResponse{Status: status, Body: recorder.buf.Bytes()})
		if err != nil {
			return
		}
		if err := redisClient.Set(ctx, cacheKey, payload, idempotencyTTL).Err(); err != nil {
			log.Warn("idempotency response store failed", zap.Error(err))
		}
	}
}
