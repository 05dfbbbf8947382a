package engine

import (
	"strings"

	"github.com/wonny/contractdesk/internal/domain"
)

// FormatAddress flattens an address into one lowercase searchable string.
// Non-empty fields are joined by a single space in street, zip code, city,
// state, country order. A nil address yields "".
func FormatAddress(a *domain.Address) string {
	if a == nil {
		return ""
	}
	return joinNonEmpty(a.Street, a.ZipCode, a.City, a.State, a.Country)
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}
