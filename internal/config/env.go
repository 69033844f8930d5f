package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// envReader looks up variables through lookup and remembers every value
// that was present but could not be parsed.
type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func newEnvReader() *envReader {
	return &envReader{lookup: os.LookupEnv}
}

// raw returns the trimmed value of key and whether it carried anything.
func (r *envReader) raw(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (r *envReader) bad(key, val, kind string) {
	r.errs = append(r.errs, fmt.Errorf("%s=%q is not a valid %s", key, val, kind))
}

func (r *envReader) str(key, fallback string) string {
	if v, ok := r.raw(key); ok {
		return v
	}
	return fallback
}

// lower is str folded to lower case.
func (r *envReader) lower(key, fallback string) string {
	return strings.ToLower(r.str(key, fallback))
}

func (r *envReader) num(key string, fallback int) int {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.bad(key, v, "integer")
		return fallback
	}
	return n
}

func (r *envReader) ratio(key string, fallback float64) float64 {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		r.bad(key, v, "number")
		return fallback
	}
	return f
}

func (r *envReader) flag(key string, fallback bool) bool {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	r.bad(key, v, "boolean")
	return fallback
}

func (r *envReader) span(key string, fallback time.Duration) time.Duration {
	v, ok := r.raw(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.bad(key, v, "duration")
		return fallback
	}
	return d
}

// list splits a comma separated variable, dropping blank entries.
func (r *envReader) list(key string) []string {
	v, ok := r.raw(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// cleanBasePath forces a leading slash and drops trailing ones, keeping "/".
func cleanBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
