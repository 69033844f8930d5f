package utils

import "testing"

func TestParsePage(t *testing.T) {
	cases := []struct {
		number, size string
		want         Page
	}{
		{"", "", Page{1, DefaultPageSize}},
		{"3", "10", Page{3, 10}},
		{"0", "0", Page{1, DefaultPageSize}},
		{"-2", "500", Page{1, MaxPageSize}},
		{"x", " 5", Page{1, DefaultPageSize}},
		{"999999999999999999999999", "7", Page{1, 7}},
	}
	for _, tc := range cases {
		if got := ParsePage(tc.number, tc.size); got != tc.want {
			t.Fatalf("ParsePage(%q, %q) = %+v; want %+v", tc.number, tc.size, got, tc.want)
		}
	}
}

func TestPage_Math(t *testing.T) {
	p := Page{Number: 2, Size: 20}
	if p.Offset() != 20 {
		t.Fatalf("offset = %d", p.Offset())
	}
	cases := []struct {
		total   int64
		pages   int
		hasNext bool
	}{
		{0, 0, false},
		{20, 1, false},
		{21, 2, false},
		{41, 3, true},
	}
	for _, tc := range cases {
		if got := p.TotalPages(tc.total); got != tc.pages {
			t.Fatalf("TotalPages(%d) = %d; want %d", tc.total, got, tc.pages)
		}
		if got := p.HasNext(tc.total); got != tc.hasNext {
			t.Fatalf("HasNext(%d) = %v; want %v", tc.total, got, tc.hasNext)
		}
	}
}
