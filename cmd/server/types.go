package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmassist/server/internal/config"
	"github.com/pharmassist/server/internal/ingest"
	"github.com/pharmassist/server/internal/llm"
	"github.com/pharmassist/server/internal/rag"
	"github.com/pharmassist/server/internal/retriever"
	"github.com/pharmassist/server/internal/storage"
	"github.com/pharmassist/server/pharmassist/conversations"
	"github.com/pharmassist/server/pharmassist/documents"
	"github.com/pharmassist/server/pharmassist/users"
)

// holds all dependencies and state for the API server
type Server struct {
	db       *pgxpool.Pool
	config   *config.Config
	userRepo *users.Repository
	convRepo *conversations.Repository
	docRepo  *documents.Repository
	services *Services
	router   *gin.Engine
}

// holds all external service clients
type Services struct {
	LLM          llm.LLM
	Retriever    *retriever.Client
	Orchestrator *rag.Orchestrator
	ChunkStore   *storage.Client
	Ingest       *ingest.Service
}
