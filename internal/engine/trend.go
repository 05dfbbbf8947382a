package engine

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wonny/contractdesk/internal/domain"
)

// TrendMonths is the fixed number of trailing calendar months in a trend
const TrendMonths = 6

// MonthNamer returns the short label of a calendar month
type MonthNamer func(time.Month) string

var monthAbbrev = map[string][12]string{
	"it": {"gen", "feb", "mar", "apr", "mag", "giu", "lug", "ago", "set", "ott", "nov", "dic"},
	"en": {"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"},
}

// MonthNames returns a capitalised abbreviation namer for locale ("it", "en").
// Unknown locales fall back to Italian.
func MonthNames(locale string) MonthNamer {
	names, ok := monthAbbrev[locale]
	tag := language.Make(locale)
	if !ok {
		names = monthAbbrev["it"]
		tag = language.Italian
	}
	caser := cases.Title(tag)
	return func(m time.Month) string {
		return caser.String(names[m-1])
	}
}

// Bucket is one calendar month of the trend. Key ("2024-03") is its identity.
type Bucket struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Count int        `json:"count"`
}

// Trend is the six-month new-client series, oldest bucket first.
// Max is at least 1 so callers can divide by it.
type Trend struct {
	Buckets []Bucket `json:"buckets"`
	Max     int      `json:"max"`
	Total   int      `json:"total"`
}

func bucketKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// MonthlyTrend counts clients by creation month over the TrendMonths calendar
// months ending with ref's month. Creation instants are read in ref's location.
// Clients outside the window are ignored.
func MonthlyTrend(clients []domain.Client, ref time.Time, names MonthNamer) Trend {
	if names == nil {
		names = MonthNames("it")
	}
	loc := ref.Location()
	first := time.Date(ref.Year(), ref.Month()-(TrendMonths-1), 1, 0, 0, 0, 0, loc)

	buckets := make([]Bucket, TrendMonths)
	index := make(map[string]int, TrendMonths)
	for i := range buckets {
		d := first.AddDate(0, i, 0)
		key := bucketKey(d.Year(), d.Month())
		buckets[i] = Bucket{Key: key, Label: names(d.Month()), Year: d.Year(), Month: d.Month()}
		index[key] = i
	}

	for _, c := range clients {
		created := c.CreatedAt.In(loc)
		if i, ok := index[bucketKey(created.Year(), created.Month())]; ok {
			buckets[i].Count++
		}
	}

	trend := Trend{Buckets: buckets, Max: 1}
	for _, b := range buckets {
		trend.Total += b.Count
		if b.Count > trend.Max {
			trend.Max = b.Count
		}
	}
	return trend
}
