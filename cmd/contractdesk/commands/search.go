package commands

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/contractdesk/internal/engine"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search clients and contracts",
	Long: `Case-insensitive substring search over client names, emails, fiscal codes,
phone numbers and IBANs, and over contract providers and codes.
Queries shorter than 2 characters return nothing.

Example:
  go run ./cmd/contractdesk search rossi
  go run ./cmd/contractdesk search IT60X054`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.dashboard.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	snap, err := a.repo.Snapshot(cmd.Context())
	if err != nil {
		return err
	}
	labels := engine.NewClientLabels(snap.Clients, a.widgets.UnknownClientLabel)

	printSearchResult(os.Stdout, result, labels)
	return nil
}
