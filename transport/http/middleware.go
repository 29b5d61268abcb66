package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/layer-3/nearstore/service"
	"go.uber.org/zap"
)

const accountIDKey = "accountId"

// RequireSignedIn rejects requests while the session is signed out and
// exposes the signed-in account id to handlers
func RequireSignedIn(sessions *service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := sessions.Status()
		if !status.IsSignedIn || status.AccountID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in required"})
			return
		}

		c.Set(accountIDKey, status.AccountID)
		c.Next()
	}
}

// RequestLogger logs one line per request
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("request", fields...)
	}
}
