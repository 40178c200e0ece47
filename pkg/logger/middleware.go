package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header carrying the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware assigns every request an id. An incoming X-Request-ID is
// reused only when it is a UUID; anything else is replaced by a new one. The id
// is echoed in the response and stored in the request context.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := normalizeRequestID(c.GetHeader(RequestIDHeader))

		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

func normalizeRequestID(incoming string) string {
	// uuid.Parse also accepts urn/braced forms; echo the canonical one
	if id, err := uuid.Parse(incoming); err == nil {
		return id.String()
	}
	return uuid.New().String()
}
