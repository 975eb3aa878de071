package config

import (
	"flag"
	"os"
)

// parses CLI flags for the ingester docs subcommand
func ParseIngestFlags() IngestFlags {
	args := os.Args[2:]

	fs := flag.NewFlagSet("docs", flag.ExitOnError)
	path := fs.String("path", "./docs/monographs", "path to reference document directory")
	userID := fs.String("user", "", "owning user id for the ingested documents")
	clearFlag := fs.Bool("clear", false, "clear the user's existing documents before ingesting")
	fs.Parse(args) //nolint:errcheck,gosec // G104: ExitOnError flag set handles errors

	return IngestFlags{Path: *path, UserID: *userID, Clear: *clearFlag}
}
