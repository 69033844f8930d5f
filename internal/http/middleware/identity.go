package middleware

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

// Roles set on the context by Identity.
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
)

// SellerLookup reports whether an identity acts as the seller.
type SellerLookup interface {
	IsSeller(id string) bool
}

// maxUserIDLen bounds the X-User-ID header; longer values are rejected.
const maxUserIDLen = 64

// Identity resolves the caller from the X-User-ID header supplied by the
// upstream authentication proxy and stores the id and role on the context.
// Requests without the header pass through anonymously; RequireIdentity
// rejects them on routes that need a caller.
func Identity(sellers SellerLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if id == "" {
			c.Next()
			return
		}
		if utf8.RuneCountInString(id) > maxUserIDLen || strings.ContainsAny(id, "\r\n\t") {
			abortJSON(c, http.StatusBadRequest, "bad_request", "invalid "+HeaderUserID)
			return
		}
		role := RoleCustomer
		if sellers != nil && sellers.IsSeller(id) {
			role = RoleSeller
		}
		c.Set(ctxKeyUserID, id)
		c.Set(ctxKeyRole, role)
		c.Next()
	}
}

// RequireIdentity answers 401 when Identity found no caller.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserIDFrom(c) == "" {
			abortJSON(c, http.StatusUnauthorized, "unauthorized", "missing "+HeaderUserID)
			return
		}
		c.Next()
	}
}

// abortJSON writes the service error envelope. It mirrors the handlers
// package shape without importing it.
func abortJSON(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": c.Writer.Header().Get(HeaderRequestID),
		"code":       code,
		"message":    msg,
	})
}
