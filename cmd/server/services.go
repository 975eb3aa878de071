package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmassist/server/internal/config"
	"github.com/pharmassist/server/internal/contextbuilder"
	"github.com/pharmassist/server/internal/ingest"
	"github.com/pharmassist/server/internal/llm"
	"github.com/pharmassist/server/internal/rag"
	"github.com/pharmassist/server/internal/retriever"
	"github.com/pharmassist/server/internal/storage"
	"github.com/pharmassist/server/pharmassist/documents"
)

// creates and configures all service clients
func InitializeServices(cfg *config.Config, db *pgxpool.Pool, docRepo *documents.Repository) (*Services, error) {
	llmClient, err := llm.NewLLM(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	retrieverClient := retriever.New(db, llmClient)
	builder := contextbuilder.New()

	ragConfig := rag.DefaultConfig()
	ragConfig.TopK = retrieverClient.TopK()
	ragConfig.SimilarityThreshold = retrieverClient.Threshold()

	orchestrator := rag.NewWithConfig(retrieverClient, builder, llmClient, ragConfig)

	chunkStore := storage.NewClientWithPool(db)
	ingestService := ingest.NewService(llmClient, chunkStore, docRepo)

	return &Services{
		LLM:          llmClient,
		Retriever:    retrieverClient,
		Orchestrator: orchestrator,
		ChunkStore:   chunkStore,
		Ingest:       ingestService,
	}, nil
}
