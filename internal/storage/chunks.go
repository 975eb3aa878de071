package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"github.com/pharmassist/server/internal/chunker"
	"github.com/pharmassist/server/internal/logger"
)

// InsertChunksBatch stores a document's chunks with their embeddings in
// a single transaction, so a partially ingested document never becomes
// retrievable
func (c *Client) InsertChunksBatch(ctx context.Context, documentID string, chunks []chunker.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunks and embeddings length mismatch: %d vs %d", len(chunks), len(embeddings))
	}

	if len(chunks) == 0 {
		return nil
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// no-op if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			logger.Warn("failed to rollback transaction", "error", err)
		}
	}()

	batch := &pgx.Batch{}

	for i, chunk := range chunks {
		batch.Queue(insertChunkQuery,
			documentID,
			chunk.Index,
			chunk.SectionTitle,
			chunk.Content,
			pgvector.NewVector(embeddings[i]),
		)
	}

	br := tx.SendBatch(ctx, batch)

	for i := range len(chunks) {
		if _, err := br.Exec(); err != nil {
			br.Close() //nolint:errcheck,gosec // G104: error path cleanup
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	// must close batch results before committing, otherwise the
	// connection is still busy
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteDocumentChunks removes every chunk belonging to one document
func (c *Client) DeleteDocumentChunks(ctx context.Context, documentID string) error {
	_, err := c.pool.Exec(ctx, deleteDocumentChunksQuery, documentID)
	if err != nil {
		return fmt.Errorf("failed to delete document chunks: %w", err)
	}

	return nil
}

// ClearOwnerChunks removes all chunks across every document an owner has
// uploaded, used by the ingester's --clear flag
func (c *Client) ClearOwnerChunks(ctx context.Context, ownerID string) error {
	_, err := c.pool.Exec(ctx, deleteOwnerChunksQuery, ownerID)
	if err != nil {
		return fmt.Errorf("failed to clear owner chunks: %w", err)
	}

	return nil
}

// CountOwnerChunks returns how many chunks an owner has stored
func (c *Client) CountOwnerChunks(ctx context.Context, ownerID string) (int, error) {
	var count int

	err := c.pool.QueryRow(ctx, countOwnerChunksQuery, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count owner chunks: %w", err)
	}

	return count, nil
}
