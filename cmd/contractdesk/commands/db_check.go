package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/contractdesk/pkg/config"
	"github.com/wonny/contractdesk/pkg/database"
)

// dbCheckCmd represents the db-check command
var dbCheckCmd = &cobra.Command{
	Use:   "db-check",
	Short: "Check the PostgreSQL connection and pool",
	RunE:  runDBCheck,
}

func init() {
	rootCmd.AddCommand(dbCheckCmd)
}

func runDBCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	fmt.Printf("Database URL: %s\n", maskPassword(cfg.Database.URL))

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Printf("Healthy:        %v\n", status.Healthy)
	fmt.Printf("Response time:  %v\n", status.ResponseTime)
	fmt.Printf("Connections:    %d total, %d idle, %d max\n",
		status.Stats.TotalConns, status.Stats.IdleConns, status.Stats.MaxConns)
	return nil
}
