package domain

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Size is a garment size from the fixed XS..XXL range.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// ErrInvalidSize is returned by ParseSize for values outside the range.
var ErrInvalidSize = errors.New("size must be one of XS, S, M, L, XL, XXL")

var sizeUpper = cases.Upper(language.Und)

// ParseSize accepts a size in any letter case.
func ParseSize(s string) (Size, error) {
	switch sz := Size(sizeUpper.String(strings.TrimSpace(s))); sz {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return sz, nil
	}
	return "", ErrInvalidSize
}

// NormalizeColor collapses whitespace and title-cases a color name, so that
// "  navy   BLUE" and "Navy Blue" are stored the same way.
func NormalizeColor(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}
