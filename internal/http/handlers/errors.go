package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/sparrow-design-service/internal/services"
)

// Stable error codes returned in ErrorResponse.Code. Clients branch on
// these, never on the message text.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"

	// Workflow outcomes.
	ErrCodeInvalidTransition  = "invalid_transition"
	ErrCodeInvalidQuoteAmount = "invalid_quote_amount"
	ErrCodeMissingAddress     = "missing_address"
	ErrCodeAlreadyConverted   = "already_converted"
	ErrCodeDependencyFailure  = "dependency_failure"
)

// errorMapping pairs a service sentinel with its HTTP status and code.
type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: the first matching sentinel wins.
var errorMappings = []errorMapping{
	{services.ErrInvalidQuoteAmount, http.StatusBadRequest, ErrCodeInvalidQuoteAmount},
	{services.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
	{services.ErrUnauthorized, http.StatusForbidden, ErrCodeUnauthorized},
	{services.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrOrderNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrAlreadyConverted, http.StatusConflict, ErrCodeAlreadyConverted},
	{services.ErrInvalidTransition, http.StatusConflict, ErrCodeInvalidTransition},
	{services.ErrMissingAddress, http.StatusUnprocessableEntity, ErrCodeMissingAddress},
	{services.ErrDependencyFailure, http.StatusBadGateway, ErrCodeDependencyFailure},
}

// statusFor maps a service error onto (status, code). Unknown errors are
// internal.
func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, ErrCodeInternal
}

// failErr writes the envelope for a service error. Internal errors get a
// generic message so storage details never reach clients.
func failErr(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal server error"
	}
	fail(c, status, code, msg)
}
