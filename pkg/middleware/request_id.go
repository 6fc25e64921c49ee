package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header name for request ID
	RequestIDHeader = "X-Request-ID"
	// ContextKeyRequestID is the context key for request ID
	ContextKeyRequestID = "request_id"
)

// RequestID returns a middleware that attaches a request ID to each request.
// An incoming X-Request-ID header is reused, otherwise a new one is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID extracts the request ID from gin context
func GetRequestID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextKeyRequestID)
	if !exists {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}
