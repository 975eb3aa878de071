package contextbuilder

import (
	"strings"
	"testing"

	"github.com/pharmassist/server/internal/retriever"
)

func TestBuildContextEmptyChunks(t *testing.T) {
	b := NewWithBudget(1000)

	ctx, err := b.BuildContext(nil, "what is aspirin", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if ctx != "" {
		t.Errorf("expected empty context for no chunks, got %q", ctx)
	}
}

func TestBuildContextOrdersBySimilarity(t *testing.T) {
	b := NewWithBudget(10000)

	chunks := []retriever.Chunk{
		{Filename: "low.pdf", Content: "low relevance text", Similarity: 0.4},
		{Filename: "high.pdf", Content: "high relevance text", Similarity: 0.9},
	}

	ctx, err := b.BuildContext(chunks, "query", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	highIdx := strings.Index(ctx, "high relevance text")
	lowIdx := strings.Index(ctx, "low relevance text")

	if highIdx == -1 || lowIdx == -1 {
		t.Fatalf("expected both chunks in context, got %q", ctx)
	}

	if highIdx > lowIdx {
		t.Error("expected higher-similarity chunk to come first")
	}
}

func TestBuildContextIncludesSourceAttribution(t *testing.T) {
	b := NewWithBudget(10000)

	chunks := []retriever.Chunk{
		{Filename: "bnf-aspirin.pdf", ChunkIndex: 2, Content: "Aspirin inhibits COX.", Similarity: 0.9},
	}

	ctx, err := b.BuildContext(chunks, "query", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(ctx, "bnf-aspirin.pdf") {
		t.Errorf("expected filename in context, got %q", ctx)
	}

	if !strings.Contains(ctx, "section 3") {
		t.Errorf("expected 1-based section number in context, got %q", ctx)
	}
}

func TestBuildContextRespectsBudget(t *testing.T) {
	b := NewWithBudget(200)

	big := strings.Repeat("pharmacokinetics ", 50)
	chunks := []retriever.Chunk{
		{Filename: "a.pdf", Content: big, Similarity: 0.9},
		{Filename: "b.pdf", Content: big, Similarity: 0.8},
	}

	ctx, err := b.BuildContext(chunks, "query", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(ctx) > 200 {
		t.Errorf("context length %d exceeds budget 200", len(ctx))
	}
}

func TestBuildContextRendersPreferences(t *testing.T) {
	b := NewWithBudget(10000)

	chunks := []retriever.Chunk{
		{Filename: "a.pdf", Content: "content", Similarity: 0.9},
	}

	ctx, err := b.BuildContext(chunks, "query", map[string]string{"detail_level": "clinical"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(ctx, "detail_level: clinical") {
		t.Errorf("expected preference hint in context, got %q", ctx)
	}
}

func TestStats(t *testing.T) {
	b := NewWithBudget(10000)

	chunks := []retriever.Chunk{
		{Similarity: 0.8},
		{Similarity: 0.6},
	}

	stats := b.Stats("some context", chunks)

	if stats.ContextChars != len("some context") {
		t.Errorf("unexpected context chars: %d", stats.ContextChars)
	}

	if stats.ChunkCount != 2 {
		t.Errorf("unexpected chunk count: %d", stats.ChunkCount)
	}

	if stats.AvgSimilarity < 0.69 || stats.AvgSimilarity > 0.71 {
		t.Errorf("unexpected avg similarity: %f", stats.AvgSimilarity)
	}

	if stats.Truncated {
		t.Error("short context should not be marked truncated")
	}
}

func TestStatsEmpty(t *testing.T) {
	b := NewWithBudget(10000)

	stats := b.Stats("", nil)

	if stats.ContextChars != 0 || stats.ChunkCount != 0 || stats.AvgSimilarity != 0 {
		t.Errorf("expected zeroed stats, got %+v", stats)
	}
}
