package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmassist/server/internal/rag"
)

// how long one database probe result is reused
const dbCheckInterval = 30 * time.Second

// caches the database probe so health polling doesn't hammer the pool
type dbChecker struct {
	mu        sync.Mutex
	pool      *pgxpool.Pool
	lastCheck time.Time
	lastOK    bool
}

func (d *dbChecker) healthy(ctx context.Context) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if time.Since(d.lastCheck) < dbCheckInterval {
		return d.lastOK
	}

	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	d.lastOK = d.pool.Ping(probeCtx) == nil
	d.lastCheck = time.Now()

	return d.lastOK
}

// Handler returns the basic liveness response
func Handler(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Status:  "healthy",
		Service: "pharmassist",
		Version: "1.0.0",
	})
}

// responds with pong for testing
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
	})
}

// ReadinessHandler reports database reachability and the chat pipeline's
// component health
func ReadinessHandler(pool *pgxpool.Pool, orchestrator *rag.Orchestrator) gin.HandlerFunc {
	checker := &dbChecker{pool: pool}

	return func(c *gin.Context) {
		dbStatus := "ok"
		status := "ready"
		code := http.StatusOK

		if !checker.healthy(c.Request.Context()) {
			dbStatus = "unreachable"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		var components map[string]bool
		if orchestrator != nil {
			components = orchestrator.Health()
		}

		c.JSON(code, ReadinessResponse{
			Status:     status,
			Database:   dbStatus,
			Components: components,
		})
	}
}
