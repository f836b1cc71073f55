package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/coursefind-cli/internal/adapters/driving/cli"
)

func main() {
	// API keys may live in a local .env during development. A missing
	// file is not an error.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
