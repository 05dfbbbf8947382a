package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/contractdesk/internal/domain"
)

func created(y int, m time.Month, d int) domain.Client {
	return domain.Client{CreatedAt: time.Date(y, m, d, 12, 0, 0, 0, rome)}
}

func TestMonthlyTrend_EmptyHasSixZeroBuckets(t *testing.T) {
	ref := time.Date(2024, time.June, 15, 10, 0, 0, 0, rome)

	trend := MonthlyTrend(nil, ref, nil)

	require.Len(t, trend.Buckets, TrendMonths)
	for _, b := range trend.Buckets {
		assert.Equal(t, 0, b.Count)
	}
	assert.Equal(t, 1, trend.Max)
	assert.Equal(t, 0, trend.Total)
}

func TestMonthlyTrend_CrossesYearBoundary(t *testing.T) {
	ref := time.Date(2024, time.February, 29, 23, 0, 0, 0, rome)

	trend := MonthlyTrend(nil, ref, MonthNames("it"))

	keys := make([]string, 0, len(trend.Buckets))
	labels := make([]string, 0, len(trend.Buckets))
	for _, b := range trend.Buckets {
		keys = append(keys, b.Key)
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"2023-09", "2023-10", "2023-11", "2023-12", "2024-01", "2024-02"}, keys)
	assert.Equal(t, []string{"Set", "Ott", "Nov", "Dic", "Gen", "Feb"}, labels)
	assert.Equal(t, 2023, trend.Buckets[0].Year)
	assert.Equal(t, time.September, trend.Buckets[0].Month)
}

func TestMonthlyTrend_CountsWithinWindow(t *testing.T) {
	ref := time.Date(2024, time.June, 15, 10, 0, 0, 0, rome)
	clients := []domain.Client{
		created(2024, time.June, 1),
		created(2024, time.June, 30),
		created(2024, time.January, 5),
		created(2024, time.March, 31),
		created(2023, time.December, 31), // outside
		created(2024, time.July, 1),      // future, outside
		created(2023, time.June, 10),     // same month, previous year
		{},                               // zero CreatedAt
	}

	trend := MonthlyTrend(clients, ref, MonthNames("en"))

	counts := make(map[string]int)
	for _, b := range trend.Buckets {
		counts[b.Key] = b.Count
	}
	assert.Equal(t, map[string]int{
		"2024-01": 1, "2024-02": 0, "2024-03": 1, "2024-04": 0, "2024-05": 0, "2024-06": 2,
	}, counts)
	assert.Equal(t, 4, trend.Total)
	assert.Equal(t, 2, trend.Max)
	assert.Equal(t, "Jun", trend.Buckets[5].Label)
}

func TestMonthlyTrend_UsesReferenceLocation(t *testing.T) {
	// 23:30 UTC on 31 May is already 1 June in Rome
	if rome == time.UTC {
		t.Skip("tzdata unavailable")
	}
	ref := time.Date(2024, time.June, 15, 0, 0, 0, 0, rome)
	clients := []domain.Client{{CreatedAt: time.Date(2024, time.May, 31, 23, 30, 0, 0, time.UTC)}}

	trend := MonthlyTrend(clients, ref, nil)

	assert.Equal(t, 1, trend.Buckets[5].Count)
	assert.Equal(t, 0, trend.Buckets[4].Count)
}

func TestMonthNames_UnknownLocaleFallsBackToItalian(t *testing.T) {
	assert.Equal(t, "Mag", MonthNames("xx")(time.May))
	assert.Equal(t, "May", MonthNames("en")(time.May))
}
