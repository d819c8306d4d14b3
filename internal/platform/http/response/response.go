// Package response writes JSON error bodies for apperr kinds.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ipo_backend/internal/shared/apperr"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Kind   string              `json:"kind,omitempty"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

// MessageResponse is a body carrying a single message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Error aborts the request with the status mapped from err.
// Internal failures are reported generically; the cause is attached to the
// gin context so the request logger records it.
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	_ = c.Error(err)

	body := ErrorResponse{Error: err.Error(), Kind: apperr.Kind(err)}
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	}
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		body.Fields = verr.Fields
	}
	c.AbortWithStatusJSON(status, body)
}

// BadRequest aborts with 400 for a body that could not be bound.
func BadRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Kind: "validation"})
}
