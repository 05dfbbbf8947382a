// Package jobs holds the contractdesk scheduled jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/contractdesk/internal/api/feed"
	"github.com/wonny/contractdesk/internal/dashboard"
	"github.com/wonny/contractdesk/pkg/logger"
)

// ExpiringLister is the part of dashboard.Service the digest needs
type ExpiringLister interface {
	Expiring(ctx context.Context) ([]dashboard.ExpiringItem, error)
}

// Broadcaster pushes a message to live dashboard subscribers
type Broadcaster interface {
	Broadcast(msg feed.Message)
}

// ExpiringDigestJob logs the contracts ending within the alert window every
// morning and pushes the list to connected dashboards
type ExpiringDigestJob struct {
	source ExpiringLister
	feed   Broadcaster
	logger *logger.Logger
}

// NewExpiringDigestJob creates the digest job; feed may be nil
func NewExpiringDigestJob(source ExpiringLister, feed Broadcaster, log *logger.Logger) *ExpiringDigestJob {
	return &ExpiringDigestJob{source: source, feed: feed, logger: log.Component("expiring_digest")}
}

// Name returns the job name
func (j *ExpiringDigestJob) Name() string {
	return "expiring_digest"
}

// Schedule returns the cron schedule (daily at 08:00)
func (j *ExpiringDigestJob) Schedule() string {
	return "0 0 8 * * *"
}

// Run builds and publishes the digest
func (j *ExpiringDigestJob) Run(ctx context.Context) error {
	items, err := j.source.Expiring(ctx)
	if err != nil {
		return fmt.Errorf("list expiring contracts: %w", err)
	}

	for _, item := range items {
		j.logger.WithFields(map[string]interface{}{
			"contract_id": item.Contract.ID,
			"client":      item.ClientLabel,
			"provider":    item.Contract.Provider,
			"days_left":   item.DaysLeft,
		}).Info("Contract expiring")
	}
	j.logger.WithField("count", len(items)).Info("Expiring digest completed")

	if j.feed != nil {
		j.feed.Broadcast(feed.Message{Type: feed.TypeExpiring, Data: items})
	}
	return nil
}
