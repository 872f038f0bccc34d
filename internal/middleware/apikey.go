package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinememory/backend/internal/gates"
	"github.com/cinememory/backend/internal/logger"
	"github.com/cinememory/backend/internal/types"
)

const apiKeyContextKey = "apiKey"

type APIKeyMiddleware struct {
	log   *logger.Logger
	audit *gates.APIAuditGate
}

func NewAPIKeyMiddleware(log *logger.Logger, audit *gates.APIAuditGate) *APIKeyMiddleware {
	middlewareLogger := log.With("Middleware", "APIKeyMiddleware")
	return &APIKeyMiddleware{log: middlewareLogger, audit: audit}
}

// RateLimit enforces the per-key window for one module. A request without a
// key passes through; the gates behind the handler still audit every call.
func (m *APIKeyMiddleware) RateLimit(module types.APIModule) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			c.Next()
			return
		}
		c.Set(apiKeyContextKey, apiKey)

		decision, err := m.audit.CheckRateLimit(c.Request.Context(), apiKey, module)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !decision.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// APIKeyFrom returns the caller credential captured by the middleware, or
// the raw header when the route is not rate limited.
func APIKeyFrom(c *gin.Context) string {
	if v, ok := c.Get(apiKeyContextKey); ok {
		if key, ok := v.(string); ok {
			return key
		}
	}
	return c.GetHeader("X-API-Key")
}
