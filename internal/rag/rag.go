package rag

import (
	"context"
	"strings"
	"time"

	"github.com/pharmassist/server/internal/contextbuilder"
	"github.com/pharmassist/server/internal/llm"
	"github.com/pharmassist/server/internal/logger"
	"github.com/pharmassist/server/internal/retriever"
)

const (
	// placeholder context recorded when the emergency generation path
	// produced the answer
	EmergencyContext = "emergency mode - no context available"

	// fixed user-facing message when every generation path is exhausted
	ApologyMessage = "I'm sorry - I wasn't able to answer your question right now. Please try again in a few moments."
)

func New(ret Retriever, builder ContextBuilder, generators GeneratorPool) *Orchestrator {
	return NewWithConfig(ret, builder, generators, DefaultConfig())
}

func NewWithConfig(ret Retriever, builder ContextBuilder, generators GeneratorPool, config Config) *Orchestrator {
	return &Orchestrator{
		retriever:  ret,
		builder:    builder,
		generators: generators,
		health:     NewComponentHealth(),
		config:     config,
	}
}

// Health returns the current component health snapshot
func (o *Orchestrator) Health() map[string]bool {
	return o.health.Snapshot()
}

// ProcessQuery runs the full retrieve → build context → generate
// pipeline for one question. It always returns a Result: every stage
// failure degrades to a weaker mode instead of aborting, and only total
// exhaustion of generation (including the emergency attempt) surfaces as
// Success=false with a readable message.
func (o *Orchestrator) ProcessQuery(ctx context.Context, q Query) *Result {
	start := time.Now()

	if q.Tier == "" {
		q.Tier = llm.TierFast
	}

	result := &Result{Tier: q.Tier}

	// stage 1: retrieval, degrading to zero chunks
	chunks := o.retrieve(ctx, q)
	result.Documents = chunks

	// stage 2: context assembly, degrading to an empty context
	contextStr := o.buildContext(chunks, q)
	result.ContextUsed = contextStr

	// stage 3: generation with retry, then the emergency fallback
	o.generate(ctx, q, contextStr, result)

	result.Stats = o.computeStats(contextStr, chunks)
	result.ProcessingMs = time.Since(start).Milliseconds()

	return result
}

// retrieve returns the user's relevant chunks, or nil when the retriever
// is unhealthy or fails. A failure latches the retriever unhealthy so
// later calls skip it outright.
func (o *Orchestrator) retrieve(ctx context.Context, q Query) []retriever.Chunk {
	if !o.health.IsHealthy(ComponentRetriever) {
		logger.Debug("skipping retrieval, component latched unhealthy", "user_id", q.UserID)
		return nil
	}

	chunks, err := o.retriever.SimilaritySearch(ctx, q.Text, q.UserID, o.config.TopK, o.config.SimilarityThreshold)
	if err != nil {
		logger.ErrorErr(err, "retrieval failed, continuing without document context", "user_id", q.UserID)
		o.health.MarkUnhealthy(ComponentRetriever)
		return nil
	}

	return chunks
}

// buildContext assembles the prompt context, degrading to an empty
// string when there is nothing to build from or the builder fails
func (o *Orchestrator) buildContext(chunks []retriever.Chunk, q Query) string {
	if len(chunks) == 0 {
		return ""
	}

	if !o.health.IsHealthy(ComponentContextBuilder) {
		logger.Debug("skipping context build, component latched unhealthy", "user_id", q.UserID)
		return ""
	}

	contextStr, err := o.builder.BuildContext(chunks, q.Text, q.Preferences)
	if err != nil {
		logger.ErrorErr(err, "context build failed, falling back to empty context", "user_id", q.UserID)
		o.health.MarkUnhealthy(ComponentContextBuilder)
		return ""
	}

	return contextStr
}

// generate fills in the result's response via the tiered generator,
// retrying transient failures, then falling back to the emergency path
func (o *Orchestrator) generate(ctx context.Context, q Query, contextStr string, result *Result) {
	generator := o.generators.Generator(q.Tier)
	result.Model = generator.Model()

	req := llm.TextGenerationRequest{
		SystemPrompt: systemPromptFor(contextStr),
		Messages:     buildMessages(q),
	}

	var genErr error

	if o.health.IsHealthy(ComponentLLM) {
		var resp *llm.TextGenerationResponse

		genErr = o.config.Retry.Do(ctx, func(ctx context.Context) error {
			var err error
			resp, err = generator.GenerateText(ctx, req)
			return err
		}, isRetryableGeneration)

		if genErr == nil {
			result.Response = resp.Text
			result.Success = true
			return
		}

		logger.ErrorErr(genErr, "generation failed after retries", "tier", string(q.Tier), "user_id", q.UserID)
		o.health.MarkUnhealthy(ComponentLLM)
	} else {
		logger.Debug("skipping primary generation, llm latched unhealthy", "user_id", q.UserID)
	}

	// emergency attempt: minimal prompt, no context, no history
	resp, err := generator.GenerateText(ctx, llm.TextGenerationRequest{
		SystemPrompt: buildEmergencySystemPrompt(),
		Messages:     []llm.Message{{Role: "user", Content: q.Text}},
	})

	if err != nil {
		logger.ErrorErr(err, "emergency generation failed", "user_id", q.UserID)
		result.Response = ApologyMessage
		result.Success = false
		result.ErrorMessage = "all generation attempts failed"
		return
	}

	result.Response = resp.Text
	result.ContextUsed = EmergencyContext
	result.Success = true
}

// computeStats never propagates a failure; a panic in stats bookkeeping
// degrades to minimal counts
func (o *Orchestrator) computeStats(contextStr string, chunks []retriever.Chunk) (stats contextbuilder.Stats) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("stats computation failed", "panic", r)
			stats = contextbuilder.Stats{ContextChars: len(contextStr), ChunkCount: len(chunks)}
		}
	}()

	return o.builder.Stats(contextStr, chunks)
}

func systemPromptFor(contextStr string) string {
	if contextStr != "" {
		return buildContextSystemPrompt(contextStr)
	}

	return buildGeneralSystemPrompt()
}

// malformed-request failures will not improve on retry; everything else
// (network, timeout, rate limit) is worth another attempt
func isRetryableGeneration(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())

	if strings.Contains(msg, "invalid") || strings.Contains(msg, "bad request") {
		return false
	}

	return true
}
