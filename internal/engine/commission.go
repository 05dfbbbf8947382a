package engine

import (
	"github.com/shopspring/decimal"

	"github.com/wonny/contractdesk/internal/domain"
)

// CommissionFilter narrows contracts by start-date year, start-date month (1-12)
// and exact, case-sensitive provider name.
type CommissionFilter struct {
	Year     Filter[int]
	Month    Filter[int]
	Provider Filter[string]
}

// HasDateFilter reports whether year or month is restricted
func (f CommissionFilter) HasDateFilter() bool {
	return !f.Year.IsAll() || !f.Month.IsAll()
}

// CommissionResult is the qualifying subset with its commission sum and count
type CommissionResult struct {
	Filtered []domain.Contract `json:"filtered"`
	Total    decimal.Decimal   `json:"total"`
	Count    int               `json:"count"`
}

// FilterAndSum filters and sums in one pass, so Count == len(Filtered) always.
// A contract without a start date never qualifies while a date filter is active.
// Calendar fields are read in the start date's own location.
func FilterAndSum(contracts []domain.Contract, f CommissionFilter) CommissionResult {
	res := CommissionResult{
		Filtered: []domain.Contract{},
		Total:    decimal.Zero,
	}

	for _, c := range contracts {
		if !f.qualifies(c) {
			continue
		}
		res.Filtered = append(res.Filtered, c)
		res.Total = res.Total.Add(decimal.NewFromFloat(c.CommissionValue()))
		res.Count++
	}

	return res
}

func (f CommissionFilter) qualifies(c domain.Contract) bool {
	if f.HasDateFilter() {
		if c.StartDate == nil {
			return false
		}
		if !f.Year.Match(c.StartDate.Year()) || !f.Month.Match(int(c.StartDate.Month())) {
			return false
		}
	}
	return f.Provider.Match(c.Provider)
}
