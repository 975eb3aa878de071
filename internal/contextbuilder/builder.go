package contextbuilder

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pharmassist/server/internal/retriever"
)

const defaultMaxChars = 8000

// New creates a context builder with the character budget read from the
// environment (CONTEXT_MAX_CHARS)
func New() *Builder {
	maxChars := defaultMaxChars

	if maxStr := os.Getenv("CONTEXT_MAX_CHARS"); maxStr != "" {
		if val, err := strconv.Atoi(maxStr); err == nil && val > 0 {
			maxChars = val
		}
	}

	return &Builder{maxChars: maxChars}
}

// NewWithBudget creates a builder with an explicit character budget
func NewWithBudget(maxChars int) *Builder {
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}

	return &Builder{maxChars: maxChars}
}

// BuildContext assembles retrieved chunks into a single bounded string
// for prompting. Chunks are ordered by similarity and attributed to their
// source document; the result is truncated at the character budget.
func (b *Builder) BuildContext(chunks []retriever.Chunk, query string, prefs map[string]string) (string, error) {
	if len(chunks) == 0 {
		return "", nil
	}

	ordered := make([]retriever.Chunk, len(chunks))
	copy(ordered, chunks)

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Similarity > ordered[j].Similarity
	})

	var builder strings.Builder

	if hints := preferenceHints(prefs); hints != "" {
		builder.WriteString(hints)
		builder.WriteString("\n\n")
	}

	for i, chunk := range ordered {
		section := fmt.Sprintf("[Source %d: %s, section %d, relevance %.2f]\n%s\n\n",
			i+1, chunk.Filename, chunk.ChunkIndex+1, chunk.Similarity, strings.TrimSpace(chunk.Content))

		// stop before blowing the budget; a partial chunk is worse than
		// one fewer chunk
		if builder.Len()+len(section) > b.maxChars {
			if builder.Len() == 0 {
				// a single oversized chunk still has to fit somehow
				return strings.TrimSpace(section[:b.maxChars]), nil
			}

			break
		}

		builder.WriteString(section)
	}

	return strings.TrimSpace(builder.String()), nil
}

// Stats computes context-size observability numbers. Never fails; an
// empty context yields zeroed stats.
func (b *Builder) Stats(context string, chunks []retriever.Chunk) Stats {
	stats := Stats{
		ContextChars: len(context),
		ChunkCount:   len(chunks),
	}

	if len(chunks) > 0 {
		var total float32
		for _, chunk := range chunks {
			total += chunk.Similarity
		}

		stats.AvgSimilarity = total / float32(len(chunks))
	}

	stats.Truncated = stats.ContextChars >= b.maxChars

	return stats
}

// renders the user's preference bag as instruction hints for the prompt
func preferenceHints(prefs map[string]string) string {
	if len(prefs) == 0 {
		return ""
	}

	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var builder strings.Builder
	builder.WriteString("[Reader preferences]")

	for _, k := range keys {
		builder.WriteString(fmt.Sprintf("\n- %s: %s", k, prefs[k]))
	}

	return builder.String()
}
