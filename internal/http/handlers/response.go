// Package handlers implements the HTTP endpoints of the design service.
//
// Handlers stay transport-thin: they bind and check the request shape,
// resolve the caller, call a service, and translate the outcome. Every
// failure is written as an ErrorResponse with a stable code from errors.go;
// successes are plain JSON bodies.
//
//	HTTP/1.1 409 Conflict
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "invalid_transition",
//	  "message": "invalid transition: design is approved"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/sparrow-design-service/internal/http/middleware"
	"github.com/tbourn/sparrow-design-service/internal/workflow"
)

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	// Echo of X-Request-ID for log correlation
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code
	Code string `json:"code" example:"invalid_transition"`
	// Human-readable message
	Message string `json:"message" example:"invalid transition: design is approved"`
}

// fail aborts with an ErrorResponse. 5xx outcomes are logged with the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Strs("errors", c.Errors.Errors()).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get(middleware.HeaderRequestID),
		Code:      code,
		Message:   msg,
	})
}

// Fail lets the router write the same envelope for NoRoute and NoMethod.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) { c.JSON(status, body) }

// actor resolves the caller placed on the context by the identity
// middleware. The zero Actor is rejected by every service.
func actor(c *gin.Context) workflow.Actor {
	a := workflow.Actor{ID: middleware.UserIDFrom(c), Role: workflow.RoleCustomer}
	if middleware.RoleFrom(c) == middleware.RoleSeller {
		a.Role = workflow.RoleSeller
	}
	return a
}
