package middleware

import (
	"time"

	"adlaan-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "RequestID"
)

// Logger logs one line per request. Authenticated requests also carry the
// caller's user and organization, and task routes the task id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		requestID := c.Request.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)
		c.Set(RequestIDKey, requestID)

		c.Next()

		if len(c.Errors) > 0 {
			for _, e := range c.Errors.Errors() {
				logger.L().Error(e, zap.String("request_id", requestID))
			}
			return
		}

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if caller, ok := CallerFrom(c); ok {
			fields = append(fields,
				zap.Uint("user_id", caller.UserID),
				zap.Uint("org_id", caller.OrganizationID),
			)
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, zap.String("task_id", id))
		}

		switch {
		case status >= 500:
			logger.L().Error("Server Error", fields...)
		case status >= 400:
			logger.L().Warn("Client Error", fields...)
		default:
			logger.L().Info("Request", fields...)
		}
	}
}
