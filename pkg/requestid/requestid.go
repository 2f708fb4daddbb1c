// Package requestid tags every demo-server request with a correlation ID
// so the log lines of a single request can be stitched together.
package requestid

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the correlation ID. Incoming values are honored so a
// frontend can trace its own calls through the demo server.
const Header = "X-Request-ID"

const contextKey = "requestID"

// Middleware reuses the caller's correlation ID or mints a fresh one, and
// echoes it on the response.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(contextKey, id)
		c.Writer.Header().Set(Header, id)
		c.Next()
	}
}

// FromContext returns the correlation ID assigned by Middleware, empty
// when it did not run.
func FromContext(c *gin.Context) string {
	v, ok := c.Get(contextKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
