package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader carries the request id in and out.
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey stores the request id in gin context.
	RequestIDContextKey = "request_id"
)

// RequestID keeps the caller's request id or issues a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(RequestIDContextKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// CurrentRequestID returns the request id set by RequestID.
func CurrentRequestID(c *gin.Context) string {
	return c.GetString(RequestIDContextKey)
}
