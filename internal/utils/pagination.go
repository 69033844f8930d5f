// Package utils holds small helpers shared by the HTTP and service layers
// that carry no design-workflow knowledge.
package utils

import "strconv"

// Page limits used by list endpoints.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a normalized 1-based page request.
type Page struct {
	Number int
	Size   int
}

// ParsePage reads raw page and page_size query values. Missing or
// unparsable values take the defaults; out-of-range values are clamped to
// [1, MaxPageSize] for the size and >= 1 for the number.
func ParsePage(rawNumber, rawSize string) Page {
	p := Page{
		Number: atoiDefault(rawNumber, 1),
		Size:   atoiDefault(rawSize, DefaultPageSize),
	}
	return p.Clamp()
}

// Clamp returns p with both fields inside their allowed ranges.
func (p Page) Clamp() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	switch {
	case p.Size < 1:
		p.Size = DefaultPageSize
	case p.Size > MaxPageSize:
		p.Size = MaxPageSize
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// TotalPages is the page count for total rows at this page size.
func (p Page) TotalPages(total int64) int {
	if p.Size <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}

// HasNext reports whether another page follows this one.
func (p Page) HasNext(total int64) bool { return p.Number < p.TotalPages(total) }

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
