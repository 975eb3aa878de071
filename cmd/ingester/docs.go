package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmassist/server/internal/config"
	"github.com/pharmassist/server/internal/ingest"
	"github.com/pharmassist/server/internal/llm"
	"github.com/pharmassist/server/internal/logger"
	"github.com/pharmassist/server/internal/storage"
	"github.com/pharmassist/server/pharmassist/documents"
)

// chunks, embeds, and stores reference documents for one user
func IngestDocs(cfg *config.Config, db *pgxpool.Pool, flags config.IngestFlags) error {
	ctx := context.Background()

	if flags.UserID == "" {
		return fmt.Errorf("--user is required: documents are scoped to their owner")
	}

	logger.Info("starting document ingestion",
		"path", flags.Path,
		"user_id", flags.UserID,
		"clear", flags.Clear,
	)

	chunkStore := storage.NewClientWithPool(db)
	docRepo := documents.NewRepository(db)

	// clear the user's existing documents if requested
	if flags.Clear {
		logger.Info("clearing existing document chunks", "user_id", flags.UserID)

		if err := chunkStore.ClearOwnerChunks(ctx, flags.UserID); err != nil {
			return fmt.Errorf("failed to clear existing chunks: %w", err)
		}

		docs, err := docRepo.List(ctx, flags.UserID)
		if err != nil {
			return fmt.Errorf("failed to list documents for clearing: %w", err)
		}

		for _, doc := range docs {
			if err := docRepo.Delete(ctx, doc.ID, flags.UserID); err != nil {
				return fmt.Errorf("failed to delete document %s: %w", doc.ID, err)
			}
		}

		logger.Info("cleared existing documents", "count", len(docs))
	}

	embedder := llm.NewOpenAIEmbedder(llm.OpenAIConfig{
		APIKey: cfg.OpenAIKey,
		Model:  "text-embedding-3-small",
	})

	service := ingest.NewService(embedder, chunkStore, docRepo)

	docs, errs := service.IngestDirectory(ctx, flags.UserID, flags.Path)

	if len(errs) > 0 {
		logger.Warn("encountered errors while ingesting", "error_count", len(errs))

		for _, err := range errs {
			logger.Warn("ingestion error", "error", err)
		}
	}

	if len(docs) == 0 {
		return fmt.Errorf("no documents ingested from %s", flags.Path)
	}

	// verify insertion
	count, err := chunkStore.CountOwnerChunks(ctx, flags.UserID)
	if err != nil {
		return fmt.Errorf("failed to verify chunk count: %w", err)
	}

	logger.Info("successfully ingested documents",
		"documents", len(docs),
		"total_chunks", count,
	)

	return nil
}
