package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/contractdesk/internal/domain"
)

func TestTally(t *testing.T) {
	contracts := []domain.Contract{
		{Provider: "Enel"},
		{Provider: "ENEL"},
		{Provider: "Enel Energia"},
		{Provider: "a2a"},
		{Provider: "Sorgenia"},
	}

	got := Tally(contracts, []string{"Enel", "Duferco", "A2A"})

	assert.Equal(t, []ProviderCount{
		{Provider: "Enel", Count: 2},
		{Provider: "Duferco", Count: 0},
		{Provider: "A2A", Count: 1},
	}, got)
}

func TestTally_EmptyContracts(t *testing.T) {
	tracked := []string{"TIM", "Vodafone", "WindTre", "Enel"}

	got := Tally(nil, tracked)

	assert.Len(t, got, len(tracked))
	for i, pc := range got {
		assert.Equal(t, tracked[i], pc.Provider)
		assert.Equal(t, 0, pc.Count)
	}
}

func TestTally_MatchesProviderFilter(t *testing.T) {
	contracts := []domain.Contract{
		{ID: "k1", Provider: "Enel"},
		{ID: "k2", Provider: "TIM"},
		{ID: "k3", Provider: "Enel"},
	}
	providers := []string{"Enel", "TIM", "Edison"}

	for _, p := range providers {
		filtered := FilterByProvider(contracts, Only(p))
		tally := Tally(filtered, []string{p})
		assert.Equal(t, len(filtered), tally[0].Count, p)
	}
}
