package engine

import (
	"sort"

	"github.com/wonny/contractdesk/internal/domain"
)

// PartitionByCategory splits contracts into energy/gas and telephony subsets
func PartitionByCategory(contracts []domain.Contract) (energy, telephony []domain.Contract) {
	energy = []domain.Contract{}
	telephony = []domain.Contract{}
	for _, c := range contracts {
		switch {
		case c.Type.IsEnergy():
			energy = append(energy, c)
		case c.Type == domain.Telephony:
			telephony = append(telephony, c)
		}
	}
	return energy, telephony
}

// FilterByProvider keeps contracts whose provider equals the filter value exactly.
// An "all" filter returns a copy of the input.
func FilterByProvider(contracts []domain.Contract, provider Filter[string]) []domain.Contract {
	out := make([]domain.Contract, 0, len(contracts))
	for _, c := range contracts {
		if provider.Match(c.Provider) {
			out = append(out, c)
		}
	}
	return out
}

// YearRange is an inclusive range of selectable years
type YearRange struct {
	From int `yaml:"from" json:"from"`
	To   int `yaml:"to" json:"to"`
}

// AvailableYears is the ascending union of contract start years and the range.
// A zero range contributes nothing.
func AvailableYears(contracts []domain.Contract, r YearRange) []int {
	seen := make(map[int]struct{})
	if r.From > 0 {
		for y := r.From; y <= r.To; y++ {
			seen[y] = struct{}{}
		}
	}
	for _, c := range contracts {
		if c.StartDate != nil {
			seen[c.StartDate.Year()] = struct{}{}
		}
	}

	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// ClientLabels resolves contract client references to display names
type ClientLabels struct {
	names    map[string]string
	fallback string
}

// NewClientLabels indexes clients by id; dangling ids resolve to fallback
func NewClientLabels(clients []domain.Client, fallback string) ClientLabels {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.FullName()
	}
	return ClientLabels{names: names, fallback: fallback}
}

// Label returns the client's full name, or the fallback label
func (l ClientLabels) Label(clientID string) string {
	if name, ok := l.names[clientID]; ok {
		return name
	}
	return l.fallback
}
