// Package main is the entry point for the estatedesk CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mfortin/estatedesk/internal/cli"
	"github.com/mfortin/estatedesk/internal/logging"
)

func main() {
	// A missing .env file is fine; env vars may come from the shell.
	_ = godotenv.Load()

	logging.Setup(os.Getenv("ED_DEV_MODE") == "true")

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
