// Package main provides the entry point for the opencode client CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/opencode-ai/opencode-client/cmd/opencode-client/commands"
)

func main() {
	// Best effort: a missing .env is fine
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
