package retriever

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/pharmassist/server/internal/llm"
)

// New creates a retriever backed by the shared connection pool, with
// retrieval tunables read from the environment
func New(pool *pgxpool.Pool, embedder llm.Embedder) *Client {
	config := loadRetrieverConfig()

	return &Client{
		pool:      pool,
		embedder:  embedder,
		topK:      config.TopK,
		threshold: config.Threshold,
	}
}

// TopK returns the configured default result count
func (c *Client) TopK() int {
	return c.topK
}

// Threshold returns the configured default similarity floor
func (c *Client) Threshold() float32 {
	return c.threshold
}

// SimilaritySearch embeds the query and returns the user's top-K most
// similar document chunks at or above the similarity threshold. Results
// are strictly scoped to the given user's own documents; the scoping
// filter lives in the match_document_chunks SQL function.
func (c *Client) SimilaritySearch(ctx context.Context, query, userID string, k int, threshold float32) ([]Chunk, error) {
	if k <= 0 {
		k = c.topK
	}

	if threshold <= 0 {
		threshold = c.threshold
	}

	// generate embedding for query
	embedding, err := c.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	rows, err := c.pool.Query(ctx, similaritySearchQuery, pgvector.NewVector(embedding), userID, k, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}

	defer rows.Close()

	var results []Chunk

	for rows.Next() {
		var chunk Chunk
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.Filename,
			&chunk.ChunkIndex,
			&chunk.Content,
			&chunk.Similarity,
		)

		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		results = append(results, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}
