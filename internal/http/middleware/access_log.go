package middleware

import (
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxQueryLog caps how much of the raw query string reaches the logs.
const maxQueryLog = 2048

// RequestID reuses the caller's X-Request-ID or mints a UUID, then echoes
// it on the response and stores it for logs and error envelopes.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" || len(rid) > 128 {
			rid = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, rid)
		c.Writer.Header().Set(HeaderRequestID, rid)
		c.Next()
	}
}

// RedactOptions lists extra headers whose values are never logged.
// Authorization, Cookie and Set-Cookie are always masked.
type RedactOptions struct {
	MaskHeaders []string
}

// Scrubber replaces contact details and identifiers in free text.
type Scrubber struct {
	mask map[string]struct{}
}

var (
	// UUIDs go first; the phone pattern would otherwise eat their digit runs.
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
)

// NewScrubber builds a Scrubber masking the default headers plus opts.
func NewScrubber(opts RedactOptions) *Scrubber {
	s := &Scrubber{mask: map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			s.mask[h] = struct{}{}
		}
	}
	return s
}

// Text redacts ids, emails and phone numbers in v.
func (s *Scrubber) Text(v string) string {
	if v == "" {
		return v
	}
	v = uuidRE.ReplaceAllString(v, "[REDACTED:id]")
	v = emailRE.ReplaceAllString(v, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(v, "[REDACTED:phone]")
}

// Headers returns a loggable copy of h.
func (s *Scrubber) Headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, masked := s.mask[strings.ToLower(k)]; masked {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = s.Text(strings.Join(vv, ", "))
	}
	return out
}

// AccessLog installs a request-scoped logger carrying the request id,
// caller and route, then writes one scrubbed access line per request. The
// level follows the outcome: error for 5xx or recorded gin errors, warn for
// 4xx, info otherwise. Bodies are never logged.
//
// Place it after RequestID and Identity.
func AccessLog(opts RedactOptions) gin.HandlerFunc {
	scrub := NewScrubber(opts)
	return func(c *gin.Context) {
		start := time.Now()
		route := routeOf(c)

		lg := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("user_id", UserIDFrom(c)).
			Str("role", RoleFrom(c)).
			Str("method", c.Request.Method).
			Str("path", route).
			Logger()
		c.Set(ctxKeyLogger, &lg)

		query := scrub.Text(truncate(c.Request.URL.RawQuery, maxQueryLog))
		headers := scrub.Headers(c.Request.Header)

		c.Next()

		status := c.Writer.Status()
		ev := lg.Info()
		switch {
		case len(c.Errors) > 0:
			ev = lg.Error().Str("errors", c.Errors.String())
		case status >= http.StatusInternalServerError:
			ev = lg.Error()
		case status >= http.StatusBadRequest:
			ev = lg.Warn()
		}
		ev.Str("query", query).
			Str("remote_ip", c.ClientIP()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Bool("replay", IsReplay(c)).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}

// Recovery turns a panic into a 500 envelope and logs the stack with the
// request id. If the handler already started writing, only the status is
// set.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			abortJSON(c, http.StatusInternalServerError, "internal_error", "internal server error")
		}()
		c.Next()
	}
}

func routeOf(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
