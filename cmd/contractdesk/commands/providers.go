package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List or add providers",
	RunE:  listProviders,
}

var providersAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a provider (ignored if it already exists, case-insensitively)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  addProvider,
}

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.AddCommand(providersAddCmd)
}

func listProviders(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	providers, err := a.repo.ListProviders(cmd.Context())
	if err != nil {
		return err
	}
	for _, p := range providers {
		fmt.Println(p)
	}
	return nil
}

func addProvider(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	providers, err := a.repo.AddProvider(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Printf("Providers (%d): %s\n", len(providers), strings.Join(providers, ", "))
	return nil
}
