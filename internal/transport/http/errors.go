package http

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"github.com/light-bringer/mealprice-service/internal/app/pricing/domain"
	"github.com/light-bringer/mealprice-service/internal/pkg/validator"
)

// errMalformedBody marks request bodies that could not be decoded.
var errMalformedBody = errors.New("malformed request body")

// errUnavailable marks routes the configured storage driver cannot serve.
var errUnavailable = errors.New("not available with this storage driver")

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// statusFromErr maps domain errors to HTTP status codes.
func statusFromErr(err error) int {
	switch {
	case errors.Is(err, errMalformedBody),
		errors.Is(err, validator.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingBasePrice),
		errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Internal errors are not echoed to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		status := statusFromErr(err)
		detail := ErrorDetail{Message: err.Error()}
		if status == http.StatusInternalServerError {
			detail.Message = "internal server error"
		}
		var reqErr *validator.RequestError
		if errors.As(err, &reqErr) {
			detail.Fields = reqErr.Fields
		}

		c.JSON(status, ErrorResponse{Error: detail})
	}
}
