package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradelens/internal/domain/dto"
	"github.com/guttosm/tradelens/internal/domain/models"
)

// ErrorHandler turns errors attached with c.Error into a JSON ErrorResponse
// when the handler did not write a body itself. It is the single place where
// error kinds become HTTP statuses.
//
// Status mapping:
//   - an already-set status >= 400 is kept
//   - EmptyDataset (no report computed yet) maps to 503
//   - UnknownView maps to 404, InvalidConfiguration to 400
//   - anything else is a 500
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	err := c.Errors.Last().Err

	status, message := statusFor(err)
	if preset := c.Writer.Status(); preset >= http.StatusBadRequest {
		status, message = preset, http.StatusText(preset)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}

// AbortWithError stops the chain and writes a standardized error body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrEmptyDataset):
		return http.StatusServiceUnavailable, "report not available"
	case errors.Is(err, models.ErrUnknownView):
		return http.StatusNotFound, "view not found"
	case errors.Is(err, models.ErrInvalidConfiguration):
		return http.StatusBadRequest, "invalid configuration"
	}
	return http.StatusInternalServerError, "failed to load report"
}
