package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wonny/contractdesk/internal/domain"
	"github.com/wonny/contractdesk/internal/engine"
	"github.com/wonny/contractdesk/internal/widgetconfig"
	"github.com/wonny/contractdesk/pkg/logger"
	"github.com/wonny/contractdesk/pkg/redis"
)

// Source yields a consistent copy of all collections
type Source interface {
	Snapshot(ctx context.Context) (*domain.Snapshot, error)
}

// Versioned is implemented by sources that can name their current content
// without reading it. Equal revisions mean equal snapshots.
type Versioned interface {
	Revision(ctx context.Context) (string, error)
}

type computeFunc func(*domain.Snapshot, Query, time.Time, *widgetconfig.Config) *Summary

// Service runs the engine over fresh snapshots. Summaries are memoized by the
// source revision (or a content hash when the source has none) together with
// the query, the reference day and the widget config, in an in-process cache
// and, when configured, in Redis shared with other instances.
type Service struct {
	source     Source
	widgets    *widgetconfig.Config
	widgetHash string
	loc        *time.Location
	ttl        time.Duration
	memo       *gocache.Cache
	shared     *redis.Cache
	now        func() time.Time
	compute    computeFunc
	logger     *logger.Logger
}

// NewService creates a dashboard service. loc decides what "today" means.
func NewService(source Source, widgets *widgetconfig.Config, loc *time.Location, ttl time.Duration, log *logger.Logger) (*Service, error) {
	if widgets == nil {
		widgets = widgetconfig.Default()
	}
	hash, err := widgetconfig.Hash(widgets)
	if err != nil {
		return nil, fmt.Errorf("hash widget config: %w", err)
	}
	if loc == nil {
		loc = time.UTC
	}
	if ttl <= 0 {
		ttl = redis.TTLMedium
	}

	return &Service{
		source:     source,
		widgets:    widgets,
		widgetHash: hash,
		loc:        loc,
		ttl:        ttl,
		memo:       gocache.New(ttl, 2*ttl),
		shared:     redis.NewCache(redis.Disabled(), "contractdesk"),
		now:        time.Now,
		compute:    Compute,
		logger:     log.Component("dashboard"),
	}, nil
}

// WithClock overrides the reference instant source
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithSharedCache adds a Redis layer behind the in-process memo
func (s *Service) WithSharedCache(c *redis.Cache) *Service {
	s.shared = c
	return s
}

// Widgets returns the active widget configuration
func (s *Service) Widgets() *widgetconfig.Config {
	return s.widgets
}

// Now is the current reference instant in the service location
func (s *Service) Now() time.Time {
	return s.now().In(s.loc)
}

// Summary computes, or returns the memoized, dashboard for q.
// GeneratedAt always reports the current reference instant.
func (s *Service) Summary(ctx context.Context, q Query) (*Summary, error) {
	ref := s.Now()
	if v, ok := s.source.(Versioned); ok {
		return s.summaryByRevision(ctx, v, q, ref)
	}

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	identity, err := contentHash(snap)
	if err != nil {
		return nil, err
	}
	key := memoKey("content:"+identity, q, ref, s.widgetHash)
	if cached, ok := s.lookup(ctx, key); ok {
		return stamped(cached, ref), nil
	}

	summary := s.compute(snap, q, ref, s.widgets)
	s.store(ctx, key, summary)
	return stamped(summary, ref), nil
}

// summaryByRevision only reads the snapshot on a miss
func (s *Service) summaryByRevision(ctx context.Context, v Versioned, q Query, ref time.Time) (*Summary, error) {
	rev, err := v.Revision(ctx)
	if err != nil {
		return nil, fmt.Errorf("read revision: %w", err)
	}
	key := memoKey("rev:"+rev, q, ref, s.widgetHash)
	if cached, ok := s.lookup(ctx, key); ok {
		return stamped(cached, ref), nil
	}

	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	summary := s.compute(snap, q, ref, s.widgets)

	// A write between the two reads means snap may be newer than rev
	if after, err := v.Revision(ctx); err == nil && after == rev {
		s.store(ctx, key, summary)
	} else {
		s.logger.WithField("revision", rev).Debug("source changed while computing, summary not memoized")
	}
	return stamped(summary, ref), nil
}

func (s *Service) lookup(ctx context.Context, key string) (*Summary, bool) {
	if cached, ok := s.memo.Get(key); ok {
		return cached.(*Summary), true
	}

	var shared Summary
	found, err := s.shared.Get(ctx, redis.SummaryKey(key), &shared)
	if err != nil {
		s.logger.WithError(err).Warn("shared cache read failed")
	}
	if !found {
		return nil, false
	}
	s.memo.Set(key, &shared, gocache.DefaultExpiration)
	return &shared, true
}

func (s *Service) store(ctx context.Context, key string, summary *Summary) {
	s.memo.Set(key, summary, gocache.DefaultExpiration)
	if err := s.shared.Set(ctx, redis.SummaryKey(key), summary, s.ttl); err != nil {
		s.logger.WithError(err).Warn("shared cache write failed")
	}
}

// stamped returns a shallow copy of a memoized summary dated ref. Memoized
// values are shared and never modified.
func stamped(summary *Summary, ref time.Time) *Summary {
	out := *summary
	out.GeneratedAt = ref
	return &out
}

// Search runs the full-text search over a fresh snapshot
func (s *Service) Search(ctx context.Context, query string) (engine.SearchResult, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return engine.SearchResult{}, fmt.Errorf("load snapshot: %w", err)
	}
	return engine.Search(query, snap.Clients, snap.Contracts), nil
}

// Contracts lists contracts, optionally restricted to one provider
func (s *Service) Contracts(ctx context.Context, provider engine.Filter[string]) ([]domain.Contract, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return engine.FilterByProvider(snap.Contracts, provider), nil
}

// Expiring lists contracts ending within the alert window with client labels
func (s *Service) Expiring(ctx context.Context) ([]ExpiringItem, error) {
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return expiringItems(snap, s.Now(), s.widgets.UnknownClientLabel), nil
}

// Invalidate drops every memoized summary. Entries are keyed by source
// revision or content, so this only reclaims memory early.
func (s *Service) Invalidate(ctx context.Context) {
	s.memo.Flush()
	if err := s.shared.Flush(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to flush shared dashboard cache")
	}
}

// contentHash identifies a snapshot by its JSON encoding. It costs a full
// pass over the data and is only used for sources without revisions.
func contentHash(snap *domain.Snapshot) (string, error) {
	h := sha256.New()
	if err := json.NewEncoder(h).Encode(snap); err != nil {
		return "", fmt.Errorf("hash snapshot: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// memoKey combines a snapshot identity with every other input of Compute.
// The reference instant only contributes its calendar day.
func memoKey(identity string, q Query, ref time.Time, widgetHash string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%s",
		identity, q.Year, q.Month, q.Provider, ref.Format("2006-01-02"), ref.Location(), widgetHash)
	return hex.EncodeToString(h.Sum(nil))
}
