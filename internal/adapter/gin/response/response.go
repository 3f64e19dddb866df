// Package response writes the JSON error body shared by handlers and middleware.
package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "commerce-service/pkg/errors"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// New builds an ErrorResponse for status with the standard reason phrase.
func New(status int, message string) ErrorResponse {
	return ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Abort writes an error body and stops the handler chain.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, New(status, message))
}

// Error maps err onto its HTTP status and writes the error body.
// Errors without a mapping are logged and answered with a generic 500.
func Error(c *gin.Context, log *zap.Logger, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, New(status, "An unexpected error occurred"))
		return
	}

	body := New(status, err.Error())
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		body.Message = "Validation failed"
		body.ValidationErrors = ve.Fields
	}
	if status == http.StatusServiceUnavailable {
		log.Warn("dependency unavailable", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, body)
}
