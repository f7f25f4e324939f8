package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextKeyRequestID is the Gin context key the envelope metadata reads.
const ContextKeyRequestID = "request_id"

// RequestIDMiddleware attaches a request ID to every request: an incoming
// X-Request-ID header is trusted (a reverse proxy in front may already
// assign one), otherwise a fresh UUID is minted. The ID is echoed back in
// the response header and lands in the envelope's metadata block, which is
// what ties a learner's bug report to a log line.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(ContextKeyRequestID, reqID)
		c.Header("X-Request-ID", reqID)
		c.Next()
	}
}
