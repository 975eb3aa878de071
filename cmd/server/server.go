package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmassist/server/internal/config"
	"github.com/pharmassist/server/pharmassist/conversations"
	"github.com/pharmassist/server/pharmassist/documents"
	"github.com/pharmassist/server/pharmassist/users"
)

// creates and configures a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.SupabaseConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// configure connection pool for supabase free tier pooler compatibility
	// free tier has ~10-15 pooler connections, so keep our pool small
	poolConfig.MaxConns = 5
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	// use simple protocol for supabase pooler (PgBouncer) compatibility:
	// transaction mode doesn't support prepared statements, which causes
	// connections to hang on subsequent queries
	poolConfig.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	userRepo := users.NewRepository(db)
	convRepo := conversations.NewRepository(db)
	docRepo := documents.NewRepository(db)

	services, err := InitializeServices(cfg, db, docRepo)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	router := gin.Default()

	server := &Server{
		db:       db,
		config:   cfg,
		userRepo: userRepo,
		convRepo: convRepo,
		docRepo:  docRepo,
		services: services,
		router:   router,
	}

	RegisterRoutes(router, server)

	return server, nil
}
