package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/contractdesk/internal/dashboard"
	"github.com/wonny/contractdesk/internal/engine"
	"github.com/wonny/contractdesk/pkg/logger"
)

// Summarizer is the part of dashboard.Service the warm job needs
type Summarizer interface {
	Summary(ctx context.Context, q dashboard.Query) (*dashboard.Summary, error)
}

// DashboardWarmJob precomputes the summaries the dashboard opens with, so the
// first request after a data change is served from cache
type DashboardWarmJob struct {
	svc    Summarizer
	now    func() (year, month int)
	logger *logger.Logger
}

// NewDashboardWarmJob creates the warm job. now supplies the current year and
// month for the "this month" view.
func NewDashboardWarmJob(svc Summarizer, now func() (year, month int), log *logger.Logger) *DashboardWarmJob {
	return &DashboardWarmJob{svc: svc, now: now, logger: log.Component("dashboard_warm")}
}

// Name returns the job name
func (j *DashboardWarmJob) Name() string {
	return "dashboard_warm"
}

// Schedule returns the cron schedule (every 10 minutes)
func (j *DashboardWarmJob) Schedule() string {
	return "0 */10 * * * *"
}

// Run computes the unfiltered and current-month summaries
func (j *DashboardWarmJob) Run(ctx context.Context) error {
	year, month := j.now()
	queries := []dashboard.Query{
		dashboard.DefaultQuery(),
		{Year: engine.Only(year), Month: engine.Only(month), Provider: engine.All[string]()},
	}

	for _, q := range queries {
		summary, err := j.svc.Summary(ctx, q)
		if err != nil {
			return fmt.Errorf("warm summary %s/%s: %w", q.Year, q.Month, err)
		}
		j.logger.WithFields(map[string]interface{}{
			"year":        q.Year.String(),
			"month":       q.Month.String(),
			"clients":     summary.TotalClients,
			"expiring":    len(summary.Expiring),
			"commissions": summary.Commission.Total.String(),
		}).Debug("Dashboard summary warmed")
	}
	return nil
}
