package main

import (
	"fmt"
	"os"

	"github.com/SergeyParamoshkin/santeplanete/internal/config"
	"github.com/SergeyParamoshkin/santeplanete/internal/storage"
)

// Exit codes for the migrate command.
const (
	exitSuccess = 0
	exitFailure = 1
)

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: migrate <up|down> [config.yml]")
		return exitFailure
	}

	direction := os.Args[1]
	if direction != storage.DirectionUp && direction != storage.DirectionDown {
		fmt.Fprintf(os.Stderr, "Invalid direction: %q (must be \"up\" or \"down\")\n", direction)
		return exitFailure
	}

	configPath := "config.yml"
	if len(os.Args) > 2 {
		configPath = os.Args[2]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return exitFailure
	}
	if cfg.Database.URL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		return exitFailure
	}

	changed, err := storage.Migrate(cfg.Database.URL, direction)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration %s failed: %v\n", direction, err)
		return exitFailure
	}

	if !changed {
		fmt.Println("No migrations to apply")
		return exitSuccess
	}

	fmt.Printf("Migration %s completed successfully\n", direction)
	return exitSuccess
}
