package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// IdempotencyOptions configures Idempotency-Key validation.
type IdempotencyOptions struct {
	// MaxLen caps the key length; <= 0 means 200.
	MaxLen int
	// Pattern restricts the key alphabet; nil means ^[A-Za-z0-9._~\-:]+$.
	Pattern *regexp.Regexp
	// Now is the clock handed to the lookup; nil means time.Now in UTC.
	Now func() time.Time
}

// IdempotencyLookup reports whether (userID, designID, key) already has a
// stored, unexpired result. Expiry is the lookup's concern. A lookup error
// never blocks the request.
type IdempotencyLookup func(ctx context.Context, userID, designID, key string, now time.Time) (bool, error)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// IdempotencyValidator checks the Idempotency-Key header on unsafe methods
// and stashes it for handlers (GetIdempotencyKey). When lookup finds a
// stored result for the caller and the :id design, the request is marked as
// a replay: IsReplay reports true and the rate limiter lets it through
// without spending a token. Serving the stored result stays with the
// handler.
//
// A malformed key is answered with 400 bad_idempotency_key. Safe methods
// and requests without the header pass through untouched.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = defaultKeyPattern
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || !unsafeMethod(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			abortJSON(c, http.StatusBadRequest, "bad_idempotency_key", "invalid "+HeaderIdempotencyKey)
			return
		}
		c.Set(ctxKeyIdemKey, key)

		uid, designID := UserIDFrom(c), c.Param("id")
		if lookup != nil && uid != "" && designID != "" {
			if found, err := lookup(c.Request.Context(), uid, designID, key, now()); err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			} else if found {
				c.Set(ctxKeyIdemReplay, true)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

// GetIdempotencyKey returns the validated key, if any.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// IsReplay reports whether IdempotencyValidator matched a stored result.
func IsReplay(c *gin.Context) bool {
	return c.GetBool(ctxKeyIdemReplay)
}

func unsafeMethod(m string) bool {
	switch m {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
