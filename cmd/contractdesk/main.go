package main

import (
	"os"

	"github.com/wonny/contractdesk/cmd/contractdesk/commands"
)

// go run ./cmd/contractdesk [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
