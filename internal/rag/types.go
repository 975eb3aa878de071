package rag

import (
	"context"
	"sync"
	"time"

	"github.com/pharmassist/server/internal/contextbuilder"
	"github.com/pharmassist/server/internal/llm"
	"github.com/pharmassist/server/internal/retriever"
	"github.com/pharmassist/server/internal/retry"
)

// interface for user-scoped document chunk retrieval
type Retriever interface {
	SimilaritySearch(ctx context.Context, query, userID string, k int, threshold float32) ([]retriever.Chunk, error)
}

// interface for assembling retrieved chunks into a prompt context
type ContextBuilder interface {
	BuildContext(chunks []retriever.Chunk, query string, prefs map[string]string) (string, error)
	Stats(context string, chunks []retriever.Chunk) contextbuilder.Stats
}

// interface for resolving a generation tier to a concrete client
type GeneratorPool interface {
	Generator(tier llm.Tier) llm.TextGenerator
}

// orchestrates retrieval, context assembly, and generation with
// per-stage degradation
type Orchestrator struct {
	retriever  Retriever
	builder    ContextBuilder
	generators GeneratorPool
	health     *ComponentHealth
	config     Config
}

// contains all inputs for one question
type Query struct {
	Text        string
	UserID      string
	Tier        llm.Tier
	History     []llm.Message
	Preferences map[string]string
}

// the sole output of an orchestration call; failure is folded into
// Success/ErrorMessage rather than an error return
type Result struct {
	Response     string               `json:"response"`
	ContextUsed  string               `json:"context_used"`
	Documents    []retriever.Chunk    `json:"documents_retrieved"`
	Success      bool                 `json:"success"`
	ErrorMessage string               `json:"error_message,omitempty"`
	Tier         llm.Tier             `json:"model_tier"`
	Model        string               `json:"model,omitempty"`
	Stats        contextbuilder.Stats `json:"stats"`
	ProcessingMs int64                `json:"processing_ms"`
}

type Config struct {
	TopK                int
	SimilarityThreshold float32
	Retry               retry.Policy
}

func DefaultConfig() Config {
	return Config{
		TopK:                5,
		SimilarityThreshold: 0.3,
		Retry: retry.Policy{
			MaxAttempts:     2,
			BaseDelay:       1 * time.Second,
			ExponentialBase: 2.0,
			MaxDelay:        10 * time.Second,
		},
	}
}

// subsystem names tracked by ComponentHealth
const (
	ComponentRetriever      = "vector_retriever"
	ComponentContextBuilder = "context_builder"
	ComponentLLM            = "llm"
)

// ComponentHealth tracks which subsystems have failed since the
// orchestrator was constructed. Flags latch unhealthy; there is no
// re-probe path short of building a new orchestrator. Guarded by a
// mutex so a shared orchestrator is safe under concurrent requests.
type ComponentHealth struct {
	mu      sync.Mutex
	healthy map[string]bool
}

func NewComponentHealth() *ComponentHealth {
	return &ComponentHealth{
		healthy: map[string]bool{
			ComponentRetriever:      true,
			ComponentContextBuilder: true,
			ComponentLLM:            true,
		},
	}
}

func (h *ComponentHealth) IsHealthy(name string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.healthy[name]
}

// MarkUnhealthy latches the component as failed; the orchestrator skips
// it on subsequent calls
func (h *ComponentHealth) MarkUnhealthy(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.healthy[name] = false
}

// Snapshot returns a copy of the current flags for observability
func (h *ComponentHealth) Snapshot() map[string]bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	snapshot := make(map[string]bool, len(h.healthy))
	for name, ok := range h.healthy {
		snapshot[name] = ok
	}

	return snapshot
}
