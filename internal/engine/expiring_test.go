package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/contractdesk/internal/domain"
)

func TestExpiringWindow(t *testing.T) {
	ref := time.Date(2024, time.January, 15, 17, 45, 12, 0, rome)

	today, horizon := ExpiringWindow(ref)

	assert.Equal(t, time.Date(2024, time.January, 15, 0, 0, 0, 0, rome), today)
	assert.Equal(t, time.Date(2024, time.February, 14, 0, 0, 0, 0, rome), horizon)
}

func TestSelectExpiring_Boundaries(t *testing.T) {
	ref := time.Date(2024, time.January, 15, 17, 45, 0, 0, rome)
	today := StartOfDay(ref)
	at := func(days int) *time.Time {
		d := today.AddDate(0, 0, days)
		return &d
	}

	contracts := []domain.Contract{
		{ID: "yesterday", EndDate: at(-1)},
		{ID: "today", EndDate: at(0)},
		{ID: "in-10", EndDate: at(10)},
		{ID: "open-ended"},
		{ID: "in-30", EndDate: at(30)},
		{ID: "in-31", EndDate: at(31)},
	}

	got := SelectExpiring(contracts, ref)

	assert.Equal(t, []string{"today", "in-10", "in-30"}, contractIDs(got))
}

func TestSelectExpiring_CrossesMonthAndDST(t *testing.T) {
	// window spans the Europe/Rome switch to summer time on 2024-03-31
	ref := time.Date(2024, time.March, 20, 9, 0, 0, 0, rome)
	contracts := []domain.Contract{
		{ID: "last-day", EndDate: date(2024, time.April, 19)},
		{ID: "day-after", EndDate: date(2024, time.April, 20)},
	}

	assert.Equal(t, []string{"last-day"}, contractIDs(SelectExpiring(contracts, ref)))
}

func TestSelectExpiring_Empty(t *testing.T) {
	got := SelectExpiring(nil, time.Now())
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
