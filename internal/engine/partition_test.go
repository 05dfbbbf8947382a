package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/contractdesk/internal/domain"
)

func TestPartitionByCategory(t *testing.T) {
	contracts := []domain.Contract{
		{ID: "e", Type: domain.Electricity},
		{ID: "t", Type: domain.Telephony},
		{ID: "g", Type: domain.Gas},
		{ID: "x", Type: "water"},
	}

	energy, telephony := PartitionByCategory(contracts)

	assert.Equal(t, []string{"e", "g"}, contractIDs(energy))
	assert.Equal(t, []string{"t"}, contractIDs(telephony))
}

func TestFilterByProvider(t *testing.T) {
	contracts := []domain.Contract{{ID: "1", Provider: "Enel"}, {ID: "2", Provider: "TIM"}}

	assert.Equal(t, []string{"1", "2"}, contractIDs(FilterByProvider(contracts, All[string]())))
	assert.Equal(t, []string{"2"}, contractIDs(FilterByProvider(contracts, Only("TIM"))))
	assert.Empty(t, FilterByProvider(contracts, Only("tim")))
}

func TestAvailableYears(t *testing.T) {
	contracts := []domain.Contract{
		{StartDate: date(2019, time.May, 1)},
		{StartDate: date(2024, time.May, 1)},
		{},
	}

	assert.Equal(t, []int{2019, 2023, 2024, 2025}, AvailableYears(contracts, YearRange{From: 2023, To: 2025}))
	assert.Equal(t, []int{2019, 2024}, AvailableYears(contracts, YearRange{}))
}

func TestClientLabels(t *testing.T) {
	labels := NewClientLabels([]domain.Client{{ID: "c1", FirstName: "Mario", LastName: "Rossi"}}, "Sconosciuto")

	assert.Equal(t, "Mario Rossi", labels.Label("c1"))
	assert.Equal(t, "Sconosciuto", labels.Label("gone"))
}
