package engine

import (
	"strings"

	"github.com/wonny/contractdesk/internal/domain"
)

// ProviderCount is the number of contracts held with one tracked provider
type ProviderCount struct {
	Provider string `json:"provider"`
	Count    int    `json:"count"`
}

// Tally counts contracts per tracked provider, in tracked order. Matching is an
// exact, case-insensitive comparison of the whole name. Providers with no
// contracts report 0. The contract category is the caller's concern.
func Tally(contracts []domain.Contract, tracked []string) []ProviderCount {
	byName := make(map[string]int, len(tracked))
	for _, c := range contracts {
		byName[strings.ToLower(c.Provider)]++
	}

	out := make([]ProviderCount, 0, len(tracked))
	for _, name := range tracked {
		out = append(out, ProviderCount{Provider: name, Count: byName[strings.ToLower(name)]})
	}
	return out
}
