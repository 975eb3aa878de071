package retriever

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pharmassist/server/internal/llm"
)

type Client struct {
	pool     *pgxpool.Pool
	embedder llm.Embedder

	topK      int
	threshold float32
}

// a fragment of a previously uploaded document with its similarity to
// the query, scoped to the owning user
type Chunk struct {
	ID         string  `json:"id"`
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	Content    string  `json:"content"`
	Similarity float32 `json:"similarity"`
}

type RetrieverConfig struct {
	TopK      int
	Threshold float32
}
