package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/contractdesk/internal/api"
	"github.com/wonny/contractdesk/internal/api/feed"
	"github.com/wonny/contractdesk/internal/api/handlers"
	"github.com/wonny/contractdesk/internal/dashboard"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Start the REST API server.

Endpoints:
  GET    /health
  GET    /api/clients             POST /api/clients
  GET    /api/clients/{id}        PUT, DELETE
  GET    /api/contracts?provider= POST /api/contracts
  GET    /api/contracts/{id}      PUT, DELETE
  GET    /api/providers           POST /api/providers
  GET    /api/search?q=
  GET    /api/dashboard?year=&month=&provider=
  GET    /api/dashboard/expiring
  GET    /ws/dashboard            (websocket)

Example:
  go run ./cmd/contractdesk api
  go run ./cmd/contractdesk api --port 9000 --memory
  go run ./cmd/contractdesk api --scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort      string
	apiScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT)")
	apiCmd.Flags().BoolVar(&apiScheduler, "scheduler", false, "also run scheduled jobs; the expiring digest is pushed to /ws/dashboard")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	hub := feed.NewHub(a.dashboard, a.log)
	defer hub.Close()

	if apiScheduler {
		sched, err := newScheduler(a, hub)
		if err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	notify := writeNotifier{dashboard: a.dashboard, hub: hub}
	router := api.NewRouter(api.Handlers{
		Clients:   handlers.NewClientHandler(a.repo, notify, a.log),
		Contracts: handlers.NewContractHandler(a.repo, a.dashboard, notify, a.loc, a.log),
		Providers: handlers.NewProviderHandler(a.repo, notify, a.log),
		Dashboard: handlers.NewDashboardHandler(a.dashboard, a.log),
		Feed:      hub,
		Health:    a.health,
	}, a.log)

	fmt.Printf("Server running on http://localhost:%s (Ctrl+C to stop)\n", a.cfg.Port)
	if err := api.New(a.cfg, a.log, router).Run(ctx); err != nil {
		return err
	}

	a.log.Info("Server stopped")
	return nil
}

// writeNotifier drops stale summaries and then pushes a fresh one to subscribers
type writeNotifier struct {
	dashboard *dashboard.Service
	hub       *feed.Hub
}

func (n writeNotifier) Changed() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	n.dashboard.Invalidate(ctx)
	cancel()
	n.hub.Changed()
}
