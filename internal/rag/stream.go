package rag

import (
	"context"
	"time"

	"github.com/pharmassist/server/internal/llm"
	"github.com/pharmassist/server/internal/logger"
)

// StreamQuery runs the same retrieval and context stages as
// ProcessQuery, then streams the generation, invoking sink for each text
// chunk as it arrives. The accumulated answer lands in the returned
// Result. On total generation failure the apology is emitted as a single
// chunk and the result is marked failed; a sink error (consumer gone)
// aborts quietly without the apology.
func (o *Orchestrator) StreamQuery(ctx context.Context, q Query, sink func(chunk string) error) *Result {
	start := time.Now()

	if q.Tier == "" {
		q.Tier = llm.TierFast
	}

	result := &Result{Tier: q.Tier}

	chunks := o.retrieve(ctx, q)
	result.Documents = chunks

	contextStr := o.buildContext(chunks, q)
	result.ContextUsed = contextStr

	generator := o.generators.Generator(q.Tier)
	result.Model = generator.Model()

	req := llm.TextGenerationRequest{
		SystemPrompt: systemPromptFor(contextStr),
		Messages:     buildMessages(q),
	}

	sinkFailed := false
	guardedSink := func(chunk string) error {
		if err := sink(chunk); err != nil {
			sinkFailed = true
			return err
		}
		return nil
	}

	var genErr error

	if o.health.IsHealthy(ComponentLLM) {
		var resp *llm.TextGenerationResponse

		// no mid-stream retry: a partially delivered answer cannot be
		// replayed, so a broken stream falls through to the emergency path
		resp, genErr = generator.StreamText(ctx, req, guardedSink)

		if genErr == nil {
			result.Response = resp.Text
			result.Success = true
			result.Stats = o.computeStats(contextStr, chunks)
			result.ProcessingMs = time.Since(start).Milliseconds()
			return result
		}

		if sinkFailed {
			result.Success = false
			result.ErrorMessage = "stream consumer disconnected"
			result.ProcessingMs = time.Since(start).Milliseconds()
			return result
		}

		logger.ErrorErr(genErr, "streaming generation failed", "tier", string(q.Tier), "user_id", q.UserID)
		o.health.MarkUnhealthy(ComponentLLM)
	} else {
		logger.Debug("skipping primary stream, llm latched unhealthy", "user_id", q.UserID)
	}

	// emergency attempt, still streamed so the client sees tokens
	resp, err := generator.StreamText(ctx, llm.TextGenerationRequest{
		SystemPrompt: buildEmergencySystemPrompt(),
		Messages:     []llm.Message{{Role: "user", Content: q.Text}},
	}, guardedSink)

	if err != nil {
		if !sinkFailed {
			logger.ErrorErr(err, "emergency stream failed", "user_id", q.UserID)

			if sendErr := sink(ApologyMessage); sendErr != nil {
				logger.Debug("could not deliver apology chunk", "error", sendErr)
			}
		}

		result.Response = ApologyMessage
		result.Success = false
		result.ErrorMessage = "all generation attempts failed"
		result.ProcessingMs = time.Since(start).Milliseconds()
		return result
	}

	result.Response = resp.Text
	result.ContextUsed = EmergencyContext
	result.Success = true
	result.Stats = o.computeStats(contextStr, chunks)
	result.ProcessingMs = time.Since(start).Milliseconds()

	return result
}
