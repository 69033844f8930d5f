// Package middleware contains the Gin middleware shared by the design
// service HTTP layer: correlation IDs, caller identity, access logging with
// scrubbing, panic recovery, Prometheus instrumentation, idempotency keys,
// rate limiting and security headers.
//
// Values placed on the Gin context by one middleware are read back through
// the accessors in this file so that handlers never depend on raw keys.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Gin context keys.
const (
	ctxKeyRequestID = "requestID"
	ctxKeyUserID    = "userID"
	ctxKeyRole      = "role"
	ctxKeyLogger    = "logger"

	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemReplay = "idem.replay"
	ctxKeyRateBypass = "rate.bypass"
)

// Headers read or written by this package.
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderUserID         = "X-User-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// RequestIDFrom returns the correlation ID assigned by RequestID.
func RequestIDFrom(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}

// UserIDFrom returns the caller identity set by Identity, or "".
func UserIDFrom(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

// RoleFrom returns the caller role ("customer" or "seller") set by
// Identity, or "" for anonymous requests.
func RoleFrom(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}

// LoggerFrom returns the request-scoped logger installed by AccessLog. When
// no logger was installed the global logger is returned, so callers never
// need a nil check.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(ctxKeyLogger); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.Logger
	return &l
}
