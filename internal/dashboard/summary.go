// Package dashboard composes engine results into the figures the dashboard
// shows and memoizes them per snapshot.
package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wonny/contractdesk/internal/domain"
	"github.com/wonny/contractdesk/internal/engine"
	"github.com/wonny/contractdesk/internal/widgetconfig"
)

// Query carries the commission widget filters
type Query struct {
	Year     engine.Filter[int]
	Month    engine.Filter[int]
	Provider engine.Filter[string]
}

// DefaultQuery selects everything
func DefaultQuery() Query {
	return Query{
		Year:     engine.All[int](),
		Month:    engine.All[int](),
		Provider: engine.All[string](),
	}
}

// ParseQuery converts raw request values. Empty and "all" mean no restriction.
func ParseQuery(year, month, provider string) (Query, error) {
	y, err := engine.ParseYear(year)
	if err != nil {
		return Query{}, err
	}
	m, err := engine.ParseMonth(month)
	if err != nil {
		return Query{}, err
	}
	return Query{Year: y, Month: m, Provider: engine.ParseProvider(provider)}, nil
}

func (q Query) commissionFilter() engine.CommissionFilter {
	return engine.CommissionFilter{Year: q.Year, Month: q.Month, Provider: q.Provider}
}

// CommissionSummary is the commission widget
type CommissionSummary struct {
	Year     string          `json:"year"`
	Month    string          `json:"month"`
	Provider string          `json:"provider"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// ExpiringItem is a contract ending inside the alert window
type ExpiringItem struct {
	Contract    domain.Contract `json:"contract"`
	ClientLabel string          `json:"clientLabel"`
	DaysLeft    int             `json:"daysLeft"`
}

// ProviderStat is one row of a provider tally widget
type ProviderStat struct {
	Provider string `json:"provider"`
	Label    string `json:"label"`
	Color    string `json:"color"`
	Count    int    `json:"count"`
}

// WidgetSummary is a provider tally widget
type WidgetSummary struct {
	Title     string         `json:"title"`
	Providers []ProviderStat `json:"providers"`
	Total     int            `json:"total"`
}

// Summary is everything the dashboard page renders
type Summary struct {
	GeneratedAt    time.Time         `json:"generatedAt"`
	Day            string            `json:"day"`
	TotalClients   int               `json:"totalClients"`
	TotalContracts int               `json:"totalContracts"`
	Commission     CommissionSummary `json:"commission"`
	Expiring       []ExpiringItem    `json:"expiring"`
	Trend          engine.Trend      `json:"trend"`
	Energy         WidgetSummary     `json:"energy"`
	Telephony      WidgetSummary     `json:"telephony"`
	Years          []int             `json:"years"`
	Providers      []string          `json:"providers"`
}

// Compute builds a Summary from a snapshot. ref is the reference instant; its
// location decides calendar days and months.
func Compute(snap *domain.Snapshot, q Query, ref time.Time, widgets *widgetconfig.Config) *Summary {
	commission := engine.FilterAndSum(snap.Contracts, q.commissionFilter())
	energy, telephony := engine.PartitionByCategory(snap.Contracts)

	providers := snap.Providers
	if providers == nil {
		providers = []string{}
	}

	return &Summary{
		GeneratedAt:    ref,
		Day:            ref.Format("2006-01-02"),
		TotalClients:   len(snap.Clients),
		TotalContracts: len(snap.Contracts),
		Commission: CommissionSummary{
			Year:     q.Year.String(),
			Month:    q.Month.String(),
			Provider: q.Provider.String(),
			Total:    commission.Total,
			Count:    commission.Count,
		},
		Expiring:  expiringItems(snap, ref, widgets.UnknownClientLabel),
		Trend:     engine.MonthlyTrend(snap.Clients, ref, engine.MonthNames(widgets.Locale)),
		Energy:    widgetSummary(widgets.Widgets.Energy, energy),
		Telephony: widgetSummary(widgets.Widgets.Telephony, telephony),
		Years:     engine.AvailableYears(snap.Contracts, widgets.Years),
		Providers: providers,
	}
}

func expiringItems(snap *domain.Snapshot, ref time.Time, fallback string) []ExpiringItem {
	labels := engine.NewClientLabels(snap.Clients, fallback)
	today := engine.StartOfDay(ref)

	items := []ExpiringItem{}
	for _, c := range engine.SelectExpiring(snap.Contracts, ref) {
		items = append(items, ExpiringItem{
			Contract:    c,
			ClientLabel: labels.Label(c.ClientID),
			DaysLeft:    daysBetween(today, *c.EndDate),
		})
	}
	return items
}

// daysBetween counts calendar days, so DST shifts do not lose a day
func daysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.In(from.Location()).Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

func widgetSummary(w widgetconfig.Widget, contracts []domain.Contract) WidgetSummary {
	counts := engine.Tally(contracts, w.Names())

	out := WidgetSummary{Title: w.Title, Providers: make([]ProviderStat, 0, len(counts))}
	for i, pc := range counts {
		p := w.Providers[i]
		out.Providers = append(out.Providers, ProviderStat{
			Provider: pc.Provider,
			Label:    p.DisplayLabel(),
			Color:    p.Color(),
			Count:    pc.Count,
		})
		out.Total += pc.Count
	}
	return out
}
