package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDKey is the gin context key holding the request identifier.
const RequestIDKey = "request_id"

// RequestIDHeader carries the identifier in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an identifier so the access log, panic
// log and error bodies of one call can be correlated.
//
// A well-formed UUID sent by the client is kept; anything else is replaced
// by a fresh v4 UUID. The id is stored under RequestIDKey and echoed in the
// X-Request-ID response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFrom returns the id set by RequestID, or "" when the middleware
// did not run.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// annotate adds the request identity to a log event: id, method, path, and
// the view name for /api/v1/views/:name.
func annotate(ev *zerolog.Event, c *gin.Context) *zerolog.Event {
	ev = ev.
		Str("request_id", RequestIDFrom(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
	if view := c.Param("name"); view != "" {
		ev = ev.Str("view", view)
	}
	return ev
}
