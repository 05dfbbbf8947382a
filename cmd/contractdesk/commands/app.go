package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/contractdesk/internal/dashboard"
	"github.com/wonny/contractdesk/internal/external/crm"
	"github.com/wonny/contractdesk/internal/store"
	"github.com/wonny/contractdesk/internal/widgetconfig"
	"github.com/wonny/contractdesk/pkg/config"
	"github.com/wonny/contractdesk/pkg/database"
	"github.com/wonny/contractdesk/pkg/httputil"
	"github.com/wonny/contractdesk/pkg/logger"
	"github.com/wonny/contractdesk/pkg/redis"
)

// app holds the dependencies shared by every command
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	loc       *time.Location
	db        *database.DB
	cache     *redis.Client
	repo      store.Repository
	widgets   *widgetconfig.Config
	dashboard *dashboard.Service
}

type appOptions struct {
	// remoteURL reads snapshots from a remote API instead of the local store
	remoteURL string
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{cfg: cfg, log: logger.New(cfg), loc: cfg.Location()}

	a.widgets, err = widgetconfig.LoadOrDefault(cfg.Dashboard.WidgetConfig)
	if err != nil {
		return nil, fmt.Errorf("load widget config: %w", err)
	}

	switch cfg.Store {
	case config.StorePostgres:
		a.db, err = database.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.repo = store.NewPostgres(a.db.Pool, a.loc)
		a.log.Info("Connected to database")
	default:
		names := append(a.widgets.Widgets.Energy.Names(), a.widgets.Widgets.Telephony.Names()...)
		a.repo = store.NewMemory(names...)
		a.log.Warn("Using in-memory store; data is lost on exit")
	}

	a.cache, err = redis.New(ctx, cfg.Redis)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var source dashboard.Source = a.repo
	if opts.remoteURL != "" {
		remoteCfg := cfg.Remote
		remoteCfg.BaseURL = opts.remoteURL
		source = crm.NewClient(httputil.New(remoteCfg, a.log), opts.remoteURL, a.loc, a.log)
	}

	a.dashboard, err = dashboard.NewService(source, a.widgets, a.loc, cfg.Dashboard.CacheTTL, a.log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.dashboard.WithSharedCache(redis.NewCache(a.cache, "contractdesk"))

	return a, nil
}

// health is wired into /health
func (a *app) health(ctx context.Context) error {
	if a.db == nil {
		return nil
	}
	_, err := a.db.HealthCheck(ctx)
	return err
}

func (a *app) Close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
