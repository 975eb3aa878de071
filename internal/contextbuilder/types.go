package contextbuilder

type Builder struct {
	maxChars int
}

// observability numbers for one assembled context
type Stats struct {
	ContextChars  int     `json:"context_chars"`
	ChunkCount    int     `json:"chunk_count"`
	AvgSimilarity float32 `json:"avg_similarity"`
	Truncated     bool    `json:"truncated"`
}
