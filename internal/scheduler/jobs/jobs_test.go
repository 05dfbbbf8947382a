package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/contractdesk/internal/api/feed"
	"github.com/wonny/contractdesk/internal/dashboard"
	"github.com/wonny/contractdesk/internal/domain"
	"github.com/wonny/contractdesk/internal/store"
	"github.com/wonny/contractdesk/pkg/logger"
)

type captureFeed struct {
	messages []feed.Message
}

func (c *captureFeed) Broadcast(msg feed.Message) {
	c.messages = append(c.messages, msg)
}

func newService(t *testing.T, repo *store.Memory) *dashboard.Service {
	t.Helper()
	svc, err := dashboard.NewService(repo, nil, time.UTC, time.Minute, logger.Nop())
	require.NoError(t, err)
	return svc.WithClock(func() time.Time { return time.Date(2024, 6, 1, 7, 0, 0, 0, time.UTC) })
}

func TestExpiringDigestJob(t *testing.T) {
	repo := store.NewMemory()
	repo.ImportClient(domain.Client{ID: "c1", FirstName: "Mario", LastName: "Rossi"}, "")
	end := time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)
	late := time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
	repo.ImportContract(domain.Contract{ID: "k1", ClientID: "c1", Type: domain.Gas, Provider: "Edison", EndDate: &end})
	repo.ImportContract(domain.Contract{ID: "k2", ClientID: "c1", Type: domain.Gas, Provider: "Edison", EndDate: &late})

	out := &captureFeed{}
	job := NewExpiringDigestJob(newService(t, repo), out, logger.Nop())

	assert.Equal(t, "expiring_digest", job.Name())
	require.NoError(t, job.Run(context.Background()))

	require.Len(t, out.messages, 1)
	assert.Equal(t, feed.TypeExpiring, out.messages[0].Type)
	items, ok := out.messages[0].Data.([]dashboard.ExpiringItem)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "k1", items[0].Contract.ID)
	assert.Equal(t, 19, items[0].DaysLeft)
}

type failingLister struct{}

func (failingLister) Expiring(context.Context) ([]dashboard.ExpiringItem, error) {
	return nil, errors.New("store offline")
}

func TestExpiringDigestJob_Error(t *testing.T) {
	job := NewExpiringDigestJob(failingLister{}, nil, logger.Nop())
	assert.ErrorContains(t, job.Run(context.Background()), "store offline")
}

type recordingSummarizer struct {
	queries []dashboard.Query
}

func (r *recordingSummarizer) Summary(_ context.Context, q dashboard.Query) (*dashboard.Summary, error) {
	r.queries = append(r.queries, q)
	return &dashboard.Summary{}, nil
}

func TestDashboardWarmJob(t *testing.T) {
	rec := &recordingSummarizer{}
	job := NewDashboardWarmJob(rec, func() (int, int) { return 2024, 6 }, logger.Nop())

	require.NoError(t, job.Run(context.Background()))
	require.Len(t, rec.queries, 2)
	assert.True(t, rec.queries[0].Year.IsAll())
	assert.Equal(t, "2024", rec.queries[1].Year.String())
	assert.Equal(t, "6", rec.queries[1].Month.String())
}
