package commands

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/wonny/contractdesk/internal/dashboard"
	"github.com/wonny/contractdesk/internal/engine"
)

const rule = "───────────────────────────────────────────────────────────"

// formatEuro renders an amount the Italian way: € 1.234,50
func formatEuro(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("%s€ %s,%s", sign, b.String(), frac)
}

// maskPassword hides the password of a database URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}

func printSummary(w io.Writer, s *dashboard.Summary) {
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "  Dashboard %s\n", s.Day)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Clients: %d   Contracts: %d\n\n", s.TotalClients, s.TotalContracts)

	c := s.Commission
	fmt.Fprintf(w, "Commissions (year %s, month %s, provider %s)\n", c.Year, c.Month, c.Provider)
	fmt.Fprintf(w, "  %s over %d contracts\n\n", formatEuro(c.Total), c.Count)

	fmt.Fprintf(w, "Expiring within %d days: %d\n", engine.ExpiringWindowDays, len(s.Expiring))
	if len(s.Expiring) > 0 {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, item := range s.Expiring {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				item.Contract.EndDate.Format("02/01/2006"), item.ClientLabel,
				item.Contract.Provider, daysLeftLabel(item.DaysLeft))
		}
		tw.Flush()
	}
	fmt.Fprintln(w)

	for _, widget := range []dashboard.WidgetSummary{s.Energy, s.Telephony} {
		fmt.Fprintf(w, "%s (%d)\n", widget.Title, widget.Total)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, p := range widget.Providers {
			fmt.Fprintf(tw, "  %s\t%d\n", p.Label, p.Count)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "New clients, last %d months (%d)\n", engine.TrendMonths, s.Trend.Total)
	for _, b := range s.Trend.Buckets {
		fmt.Fprintf(w, "  %s %d  %s\n", b.Label, b.Year, bar(b.Count, s.Trend.Max, 30))
	}
}

func daysLeftLabel(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", days)
	}
}

// bar scales count against max into at most width cells
func bar(count, max, width int) string {
	if max < 1 {
		max = 1
	}
	n := count * width / max
	if count > 0 && n == 0 {
		n = 1
	}
	return strings.Repeat("█", n) + fmt.Sprintf(" %d", count)
}

func printSearchResult(w io.Writer, r engine.SearchResult, labels engine.ClientLabels) {
	fmt.Fprintf(w, "Clients (%d)\n", len(r.Clients))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range r.Clients {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", c.FullName(), c.Email, c.CodiceFiscale, engine.FormatAddress(c.ResidentialAddress))
	}
	tw.Flush()

	fmt.Fprintf(w, "\nContracts (%d)\n", len(r.Contracts))
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range r.Contracts {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", c.Provider, c.Type, c.ContractCode, labels.Label(c.ClientID))
	}
	tw.Flush()
}
