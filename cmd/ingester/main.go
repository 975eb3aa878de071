package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmassist/server/internal/config"
	"github.com/pharmassist/server/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: ingester <command> [options]")
		fmt.Println("Commands:")
		fmt.Println("  docs      - ingest reference documents from a directory")
		fmt.Println("\nOptions:")
		fmt.Println("  --path <path>  - directory to ingest from (default ./docs/monographs)")
		fmt.Println("  --user <id>    - owning user id for the documents (required)")
		fmt.Println("  --clear        - clear the user's existing documents before ingesting")
		os.Exit(1)
	}

	command := os.Args[1]

	// load environment variables
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	// connect to database
	ctx := context.Background()
	db, err := pgxpool.New(ctx, cfg.SupabaseConnString)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("connected to database")

	switch command {
	case "docs":
		flags := config.ParseIngestFlags()
		if err := IngestDocs(cfg, db, flags); err != nil {
			logger.Fatal("failed to ingest docs", "error", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}
