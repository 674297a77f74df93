package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the correlation id between services.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin context key the id is stored under.
	RequestIDKey = "request_id"
)

// RequestID reuses an inbound X-Request-ID or mints a fresh one, exposing it
// on the response and in the request context for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Set(RequestIDKey, reqID)
		c.Writer.Header().Set(RequestIDHeader, reqID)

		c.Next()
	}
}
