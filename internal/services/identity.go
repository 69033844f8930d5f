package services

import "strings"

// SellerDirectory answers the identity question the workflow needs: is this
// user a seller. It is built from a static list of ids.
type SellerDirectory struct {
	ids map[string]struct{}
}

// NewSellerDirectory returns a directory containing ids. Blank ids are ignored.
func NewSellerDirectory(ids []string) *SellerDirectory {
	d := &SellerDirectory{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			d.ids[id] = struct{}{}
		}
	}
	return d
}

// IsSeller reports whether userID is a seller.
func (d *SellerDirectory) IsSeller(userID string) bool {
	if d == nil {
		return false
	}
	_, ok := d.ids[userID]
	return ok
}
