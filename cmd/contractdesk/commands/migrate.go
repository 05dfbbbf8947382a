package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/contractdesk/internal/store"
	"github.com/wonny/contractdesk/pkg/config"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:       "migrate [up|down]",
	Short:     "Apply or roll back the database schema",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE:      runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Store != config.StorePostgres {
		return fmt.Errorf("migrate needs STORE=%s", config.StorePostgres)
	}

	err = store.Migrate(cfg.Database.URL, direction)
	if errors.Is(err, store.ErrNoChange) {
		fmt.Println("Schema already up to date")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Migrations applied (%s)\n", direction)
	return nil
}
