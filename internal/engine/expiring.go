package engine

import (
	"time"

	"github.com/wonny/contractdesk/internal/domain"
)

// ExpiringWindowDays is the rolling alert window, in calendar days
const ExpiringWindowDays = 30

// StartOfDay truncates t to midnight in t's own location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ExpiringWindow returns [today, horizon]: midnight of ref and midnight
// ExpiringWindowDays calendar days later.
func ExpiringWindow(ref time.Time) (today, horizon time.Time) {
	today = StartOfDay(ref)
	return today, today.AddDate(0, 0, ExpiringWindowDays)
}

// SelectExpiring keeps contracts whose end date lies in the window, both ends
// inclusive. Open-ended contracts never qualify. Input order is preserved.
func SelectExpiring(contracts []domain.Contract, ref time.Time) []domain.Contract {
	today, horizon := ExpiringWindow(ref)

	out := []domain.Contract{}
	for _, c := range contracts {
		if c.EndDate == nil {
			continue
		}
		if c.EndDate.Before(today) || c.EndDate.After(horizon) {
			continue
		}
		out = append(out, c)
	}
	return out
}
