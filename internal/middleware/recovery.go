package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradelens/internal/logger"
)

// RecoveryMiddleware turns a panic while serving a view into a 500
// ErrorResponse. The panic value and stack are logged with the request
// identity, including the view being rendered.
//
// Example:
//
//	router := gin.New()
//	router.Use(middleware.RecoveryMiddleware())
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			annotate(logger.Component("http").Error(), c).
				Str("panic", fmt.Sprint(r)).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			AbortWithError(c, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", r))
		}()

		c.Next()
	}
}
