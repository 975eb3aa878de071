package retriever

import (
	"os"
	"strconv"
)

const (
	defaultTopK      = 5
	defaultThreshold = 0.3
)

// loadRetrieverConfig loads retrieval tunables from environment variables
func loadRetrieverConfig() *RetrieverConfig {
	topK := defaultTopK
	if topKStr := os.Getenv("RETRIEVAL_TOP_K"); topKStr != "" {
		if val, err := strconv.Atoi(topKStr); err == nil && val > 0 {
			topK = val
		}
	}

	threshold := float32(defaultThreshold)
	if thresholdStr := os.Getenv("RETRIEVAL_SIMILARITY_THRESHOLD"); thresholdStr != "" {
		if val, err := strconv.ParseFloat(thresholdStr, 32); err == nil && val >= 0 && val <= 1 {
			threshold = float32(val)
		}
	}

	return &RetrieverConfig{
		TopK:      topK,
		Threshold: threshold,
	}
}
