package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/matcha-labs/matcha-cli/internal/adapters/driving/cli"
)

func main() {
	// Silently ignore a missing .env; environment variables are only
	// one of the configuration sources.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
