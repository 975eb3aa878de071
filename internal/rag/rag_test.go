package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pharmassist/server/internal/contextbuilder"
	"github.com/pharmassist/server/internal/llm"
	"github.com/pharmassist/server/internal/retriever"
	"github.com/pharmassist/server/internal/retry"
)

// implements Retriever for testing
type mockRetriever struct {
	searchFunc func(ctx context.Context, query, userID string, k int, threshold float32) ([]retriever.Chunk, error)
	calls      int
}

func (m *mockRetriever) SimilaritySearch(ctx context.Context, query, userID string, k int, threshold float32) ([]retriever.Chunk, error) {
	m.calls++

	if m.searchFunc != nil {
		return m.searchFunc(ctx, query, userID, k, threshold)
	}

	return nil, nil
}

// implements ContextBuilder for testing
type mockBuilder struct {
	buildFunc func(chunks []retriever.Chunk, query string, prefs map[string]string) (string, error)
	calls     int
}

func (m *mockBuilder) BuildContext(chunks []retriever.Chunk, query string, prefs map[string]string) (string, error) {
	m.calls++

	if m.buildFunc != nil {
		return m.buildFunc(chunks, query, prefs)
	}

	return "", nil
}

func (m *mockBuilder) Stats(context string, chunks []retriever.Chunk) contextbuilder.Stats {
	return contextbuilder.Stats{ContextChars: len(context), ChunkCount: len(chunks)}
}

// implements llm.TextGenerator for testing; also serves as its own
// GeneratorPool so every tier resolves to the same mock
type mockGenerator struct {
	generateFunc func(ctx context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error)
	streamFunc   func(ctx context.Context, req llm.TextGenerationRequest, onChunk func(string) error) (*llm.TextGenerationResponse, error)

	generateCalls  int
	primaryCalls   int // calls that were not the emergency prompt
	emergencyCalls int
}

func (m *mockGenerator) GenerateText(ctx context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
	m.generateCalls++
	m.countPrompt(req)

	if m.generateFunc != nil {
		return m.generateFunc(ctx, req)
	}

	return &llm.TextGenerationResponse{Text: "mock answer"}, nil
}

func (m *mockGenerator) StreamText(ctx context.Context, req llm.TextGenerationRequest, onChunk func(string) error) (*llm.TextGenerationResponse, error) {
	m.generateCalls++
	m.countPrompt(req)

	if m.streamFunc != nil {
		return m.streamFunc(ctx, req, onChunk)
	}

	if err := onChunk("mock answer"); err != nil {
		return nil, err
	}

	return &llm.TextGenerationResponse{Text: "mock answer"}, nil
}

func (m *mockGenerator) countPrompt(req llm.TextGenerationRequest) {
	if req.SystemPrompt == buildEmergencySystemPrompt() {
		m.emergencyCalls++
	} else {
		m.primaryCalls++
	}
}

func (m *mockGenerator) Model() string {
	return "mock-model"
}

func (m *mockGenerator) Generator(_ llm.Tier) llm.TextGenerator {
	return m
}

// retry policy with negligible sleeps for tests
func testConfig() Config {
	return Config{
		TopK:                5,
		SimilarityThreshold: 0.3,
		Retry: retry.Policy{
			MaxAttempts:     2,
			BaseDelay:       time.Millisecond,
			ExponentialBase: 2.0,
			MaxDelay:        10 * time.Millisecond,
		},
	}
}

func newTestOrchestrator(ret *mockRetriever, builder *mockBuilder, gen *mockGenerator) *Orchestrator {
	return NewWithConfig(ret, builder, gen, testConfig())
}

func TestProcessQueryNeverRaises(t *testing.T) {
	ret := &mockRetriever{
		searchFunc: func(_ context.Context, _, _ string, _ int, _ float32) ([]retriever.Chunk, error) {
			return nil, errors.New("vector store unreachable")
		},
	}

	builder := &mockBuilder{
		buildFunc: func(_ []retriever.Chunk, _ string, _ map[string]string) (string, error) {
			return "", errors.New("builder exploded")
		},
	}

	gen := &mockGenerator{
		generateFunc: func(_ context.Context, _ llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			return nil, errors.New("model overloaded")
		},
	}

	o := newTestOrchestrator(ret, builder, gen)

	result := o.ProcessQuery(context.Background(), Query{Text: "what is warfarin", UserID: "u1"})

	if result == nil {
		t.Fatal("expected a result even under total failure")
	}

	if result.Success {
		t.Error("expected Success=false under total failure")
	}

	if result.Response != ApologyMessage {
		t.Errorf("expected fixed apology, got %q", result.Response)
	}

	if result.ErrorMessage == "" {
		t.Error("expected an error message in the result")
	}
}

func TestGeneralPromptWhenNoChunks(t *testing.T) {
	ret := &mockRetriever{} // returns zero chunks

	var seenPrompt string

	gen := &mockGenerator{
		generateFunc: func(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			seenPrompt = req.SystemPrompt
			return &llm.TextGenerationResponse{Text: "general answer"}, nil
		},
	}

	builder := &mockBuilder{}

	o := newTestOrchestrator(ret, builder, gen)

	result := o.ProcessQuery(context.Background(), Query{Text: "how does metformin work", UserID: "u1"})

	if !result.Success {
		t.Fatalf("expected success, got error %q", result.ErrorMessage)
	}

	if seenPrompt != buildGeneralSystemPrompt() {
		t.Error("expected the general-knowledge system prompt when no chunks were retrieved")
	}

	if result.ContextUsed != "" {
		t.Errorf("expected empty context, got %q", result.ContextUsed)
	}

	if len(result.Documents) != 0 {
		t.Errorf("expected no documents, got %d", len(result.Documents))
	}

	if builder.calls != 0 {
		t.Error("context builder should be skipped when there are no chunks")
	}
}

func TestRetrieverLatchesUnhealthy(t *testing.T) {
	ret := &mockRetriever{
		searchFunc: func(_ context.Context, _, _ string, _ int, _ float32) ([]retriever.Chunk, error) {
			return nil, errors.New("connection refused")
		},
	}

	gen := &mockGenerator{}

	o := newTestOrchestrator(ret, &mockBuilder{}, gen)

	o.ProcessQuery(context.Background(), Query{Text: "q1", UserID: "u1"})

	if o.Health()[ComponentRetriever] {
		t.Fatal("expected retriever to be marked unhealthy after a failure")
	}

	o.ProcessQuery(context.Background(), Query{Text: "q2", UserID: "u1"})

	if ret.calls != 1 {
		t.Errorf("expected retrieval to be skipped on the second call, got %d calls", ret.calls)
	}
}

func TestNonRetryableErrorNotRetried(t *testing.T) {
	gen := &mockGenerator{
		generateFunc: func(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			if req.SystemPrompt == buildEmergencySystemPrompt() {
				return &llm.TextGenerationResponse{Text: "recovered"}, nil
			}

			return nil, errors.New("bad request: context too long")
		},
	}

	o := newTestOrchestrator(&mockRetriever{}, &mockBuilder{}, gen)

	o.ProcessQuery(context.Background(), Query{Text: "q", UserID: "u1"})

	if gen.primaryCalls != 1 {
		t.Errorf("non-retryable error must not trigger a second attempt, got %d calls", gen.primaryCalls)
	}
}

func TestRetryableErrorRetried(t *testing.T) {
	gen := &mockGenerator{
		generateFunc: func(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			if req.SystemPrompt == buildEmergencySystemPrompt() {
				return &llm.TextGenerationResponse{Text: "recovered"}, nil
			}

			return nil, errors.New("timeout talking to model")
		},
	}

	o := newTestOrchestrator(&mockRetriever{}, &mockBuilder{}, gen)

	o.ProcessQuery(context.Background(), Query{Text: "q", UserID: "u1"})

	if gen.primaryCalls != 2 {
		t.Errorf("expected 2 attempts for a retryable error, got %d", gen.primaryCalls)
	}
}

func TestEndToEndWithContext(t *testing.T) {
	ret := &mockRetriever{
		searchFunc: func(_ context.Context, _, _ string, _ int, _ float32) ([]retriever.Chunk, error) {
			return []retriever.Chunk{
				{
					Filename:   "aspirin-monograph.pdf",
					Content:    "Aspirin irreversibly inhibits COX-1/COX-2.",
					Similarity: 0.9,
				},
			}, nil
		},
	}

	var seenPrompt string

	gen := &mockGenerator{
		generateFunc: func(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			seenPrompt = req.SystemPrompt
			return &llm.TextGenerationResponse{Text: "Aspirin works by inhibiting COX enzymes."}, nil
		},
	}

	// real context builder for the full pipeline
	o := NewWithConfig(ret, contextbuilder.NewWithBudget(8000), gen, testConfig())

	result := o.ProcessQuery(context.Background(), Query{
		Text:   "What is the mechanism of action of aspirin?",
		UserID: "u1",
		Tier:   llm.TierPremium,
	})

	if !result.Success {
		t.Fatalf("expected success, got %q", result.ErrorMessage)
	}

	if result.Response != "Aspirin works by inhibiting COX enzymes." {
		t.Errorf("unexpected response: %q", result.Response)
	}

	if !strings.Contains(result.ContextUsed, "COX") {
		t.Errorf("expected context to contain the retrieved excerpt, got %q", result.ContextUsed)
	}

	if len(result.Documents) != 1 {
		t.Errorf("expected 1 retrieved document, got %d", len(result.Documents))
	}

	if !strings.Contains(seenPrompt, "REFERENCE EXCERPTS") {
		t.Error("expected the context-grounded system prompt")
	}

	if result.Tier != llm.TierPremium {
		t.Errorf("expected premium tier in result, got %q", result.Tier)
	}

	if result.Stats.ChunkCount != 1 {
		t.Errorf("expected chunk count 1 in stats, got %d", result.Stats.ChunkCount)
	}
}

func TestEmergencyFallback(t *testing.T) {
	ret := &mockRetriever{
		searchFunc: func(_ context.Context, _, _ string, _ int, _ float32) ([]retriever.Chunk, error) {
			return nil, errors.New("retriever down")
		},
	}

	builder := &mockBuilder{
		buildFunc: func(_ []retriever.Chunk, _ string, _ map[string]string) (string, error) {
			return "", errors.New("builder down")
		},
	}

	gen := &mockGenerator{
		generateFunc: func(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			if req.SystemPrompt == buildEmergencySystemPrompt() {
				return &llm.TextGenerationResponse{Text: "Emergency response"}, nil
			}

			return nil, errors.New("model timeout")
		},
	}

	o := newTestOrchestrator(ret, builder, gen)

	result := o.ProcessQuery(context.Background(), Query{Text: "q", UserID: "u1"})

	if !result.Success {
		t.Fatalf("expected emergency fallback to succeed, got %q", result.ErrorMessage)
	}

	if result.Response != "Emergency response" {
		t.Errorf("unexpected response: %q", result.Response)
	}

	if result.ContextUsed != EmergencyContext {
		t.Errorf("expected emergency context placeholder, got %q", result.ContextUsed)
	}

	if gen.primaryCalls != 2 {
		t.Errorf("expected 2 primary attempts before the emergency call, got %d", gen.primaryCalls)
	}

	if gen.emergencyCalls != 1 {
		t.Errorf("expected exactly 1 emergency call, got %d", gen.emergencyCalls)
	}
}

func TestLLMLatchedSkipsPrimaryGeneration(t *testing.T) {
	gen := &mockGenerator{
		generateFunc: func(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			if req.SystemPrompt == buildEmergencySystemPrompt() {
				return &llm.TextGenerationResponse{Text: "emergency"}, nil
			}

			return nil, errors.New("model down")
		},
	}

	o := newTestOrchestrator(&mockRetriever{}, &mockBuilder{}, gen)

	o.ProcessQuery(context.Background(), Query{Text: "q1", UserID: "u1"})

	if o.Health()[ComponentLLM] {
		t.Fatal("expected llm to be marked unhealthy after retry exhaustion")
	}

	primaryBefore := gen.primaryCalls

	o.ProcessQuery(context.Background(), Query{Text: "q2", UserID: "u1"})

	if gen.primaryCalls != primaryBefore {
		t.Error("expected primary generation to be skipped while llm is latched unhealthy")
	}

	if gen.emergencyCalls != 2 {
		t.Errorf("expected one emergency call per request, got %d", gen.emergencyCalls)
	}
}

func TestHistoryWindowTrimmed(t *testing.T) {
	var seenMessages []llm.Message

	gen := &mockGenerator{
		generateFunc: func(_ context.Context, req llm.TextGenerationRequest) (*llm.TextGenerationResponse, error) {
			seenMessages = req.Messages
			return &llm.TextGenerationResponse{Text: "ok"}, nil
		},
	}

	o := newTestOrchestrator(&mockRetriever{}, &mockBuilder{}, gen)

	history := []llm.Message{
		{Role: "user", Content: "old question 1"},
		{Role: "assistant", Content: "old answer 1"},
		{Role: "user", Content: "old question 2"},
		{Role: "assistant", Content: "old answer 2"},
	}

	o.ProcessQuery(context.Background(), Query{Text: "current", UserID: "u1", History: history})

	// 2-message window plus the current query
	if len(seenMessages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(seenMessages))
	}

	if seenMessages[0].Content != "old question 2" {
		t.Errorf("expected the most recent history first, got %q", seenMessages[0].Content)
	}

	if seenMessages[2].Content != "current" {
		t.Errorf("expected the current query last, got %q", seenMessages[2].Content)
	}
}

func TestStreamQueryDeliversChunks(t *testing.T) {
	gen := &mockGenerator{
		streamFunc: func(_ context.Context, _ llm.TextGenerationRequest, onChunk func(string) error) (*llm.TextGenerationResponse, error) {
			for _, piece := range []string{"Aspirin ", "inhibits ", "COX."} {
				if err := onChunk(piece); err != nil {
					return nil, err
				}
			}

			return &llm.TextGenerationResponse{Text: "Aspirin inhibits COX."}, nil
		},
	}

	o := newTestOrchestrator(&mockRetriever{}, &mockBuilder{}, gen)

	var received []string

	result := o.StreamQuery(context.Background(), Query{Text: "q", UserID: "u1"}, func(chunk string) error {
		received = append(received, chunk)
		return nil
	})

	if !result.Success {
		t.Fatalf("expected success, got %q", result.ErrorMessage)
	}

	if len(received) != 3 {
		t.Errorf("expected 3 chunks, got %d", len(received))
	}

	if result.Response != "Aspirin inhibits COX." {
		t.Errorf("unexpected accumulated response: %q", result.Response)
	}
}

func TestStreamQueryTotalFailureEmitsApology(t *testing.T) {
	gen := &mockGenerator{
		streamFunc: func(_ context.Context, _ llm.TextGenerationRequest, _ func(string) error) (*llm.TextGenerationResponse, error) {
			return nil, errors.New("stream broke")
		},
	}

	o := newTestOrchestrator(&mockRetriever{}, &mockBuilder{}, gen)

	var received []string

	result := o.StreamQuery(context.Background(), Query{Text: "q", UserID: "u1"}, func(chunk string) error {
		received = append(received, chunk)
		return nil
	})

	if result.Success {
		t.Error("expected failure")
	}

	if len(received) != 1 || received[0] != ApologyMessage {
		t.Errorf("expected a single apology chunk, got %v", received)
	}

	if result.Response != ApologyMessage {
		t.Errorf("expected apology response, got %q", result.Response)
	}
}
