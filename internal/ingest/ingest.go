// Package ingest turns uploaded documents into embedded, retrievable
// chunks. The upload endpoint and the ingester CLI both run through it.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pharmassist/server/internal/chunker"
	"github.com/pharmassist/server/internal/extractor"
	"github.com/pharmassist/server/internal/llm"
	"github.com/pharmassist/server/internal/logger"
	"github.com/pharmassist/server/internal/storage"
	"github.com/pharmassist/server/pharmassist/documents"
)

// texts per embedding API call
const embedBatchSize = 64

type Service struct {
	embedder   llm.Embedder
	chunkStore *storage.Client
	docRepo    *documents.Repository
	chunkOpts  chunker.Options
}

func NewService(embedder llm.Embedder, chunkStore *storage.Client, docRepo *documents.Repository) *Service {
	return &Service{
		embedder:   embedder,
		chunkStore: chunkStore,
		docRepo:    docRepo,
		chunkOpts:  chunker.DefaultOptions(),
	}
}

// IngestBytes processes one in-memory document end to end: extract text,
// chunk, embed, and store. The document row and its chunks land
// together; nothing is retrievable until the whole pipeline succeeds.
func (s *Service) IngestBytes(ctx context.Context, ownerID, filename string, data []byte) (*documents.Document, error) {
	text, err := extractor.Extract(filename, data)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filename, err)
	}

	chunks := chunker.ChunkText(text, s.chunkOpts)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no content found in %s", filename)
	}

	embeddings, err := s.embedChunks(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed %s: %w", filename, err)
	}

	doc, err := s.docRepo.Create(ctx, ownerID, filename, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}

	if err := s.chunkStore.InsertChunksBatch(ctx, doc.ID, chunks, embeddings); err != nil {
		// drop the orphaned document row so a retry starts clean
		if delErr := s.docRepo.Delete(ctx, doc.ID, ownerID); delErr != nil {
			logger.Warn("failed to remove document after chunk insert failure",
				"document_id", doc.ID,
				"error", delErr,
			)
		}

		return nil, fmt.Errorf("store chunks: %w", err)
	}

	if err := s.docRepo.SetChunkCount(ctx, doc.ID, len(chunks)); err != nil {
		logger.Warn("failed to record chunk count", "document_id", doc.ID, "error", err)
	}

	doc.ChunkCount = len(chunks)

	logger.Info("ingested document",
		"document_id", doc.ID,
		"filename", filename,
		"chunks", len(chunks),
	)

	return doc, nil
}

// IngestFile reads and processes one document from disk
func (s *Service) IngestFile(ctx context.Context, ownerID, path string) (*documents.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return s.IngestBytes(ctx, ownerID, filepath.Base(path), data)
}

// IngestDirectory walks a directory and ingests every supported file,
// returning the documents created and one error per failed file
func (s *Service) IngestDirectory(ctx context.Context, ownerID, dir string) ([]*documents.Document, []error) {
	var docs []*documents.Document
	var errs []error

	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			errs = append(errs, fmt.Errorf("path %s: %w", path, err))
			return nil // continue walking
		}

		if info.IsDir() || !extractor.Supported(path) {
			return nil
		}

		doc, err := s.IngestFile(ctx, ownerID, path)
		if err != nil {
			logger.Warn("failed to ingest file", "path", path, "error", err)
			errs = append(errs, err)
			return nil // continue with other files
		}

		docs = append(docs, doc)

		return nil
	})

	if walkErr != nil {
		errs = append(errs, fmt.Errorf("walk %s: %w", dir, walkErr))
	}

	return docs, errs
}

// DeleteDocument removes a document and its chunks
func (s *Service) DeleteDocument(ctx context.Context, ownerID, documentID string) error {
	if _, err := s.docRepo.Get(ctx, documentID, ownerID); err != nil {
		return err
	}

	if err := s.chunkStore.DeleteDocumentChunks(ctx, documentID); err != nil {
		return err
	}

	return s.docRepo.Delete(ctx, documentID, ownerID)
}

func (s *Service) embedChunks(ctx context.Context, chunks []chunker.Chunk) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(chunks))

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := min(start+embedBatchSize, len(chunks))

		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Content)
		}

		batch, err := s.embedder.GenerateEmbeddings(ctx, texts)
		if err != nil {
			return nil, err
		}

		embeddings = append(embeddings, batch...)
	}

	return embeddings, nil
}
