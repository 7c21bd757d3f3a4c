package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/tradelens/internal/logger"
)

// RequestLogger writes one access-log line per request through the "http"
// component logger.
//
// Fields: request_id, method, path, view (when the route names one), status,
// latency_ms, client_ip and the last attached error. 5xx responses are
// logged at error level, 4xx at warn, the rest at info.
//
// Example log output:
//
//	{"level":"info","component":"http","request_id":"…","method":"GET","path":"/api/v1/views/top_investments","view":"top_investments","status":200,"latency_ms":1}
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		lg := logger.Component("http")
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = lg.WithLevel(zerolog.ErrorLevel)
		case status >= http.StatusBadRequest:
			ev = lg.Warn()
		default:
			ev = lg.Info()
		}
		if last := c.Errors.Last(); last != nil {
			ev = ev.AnErr("error", last.Err)
		}

		annotate(ev, c).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Msg("http_request")
	}
}
