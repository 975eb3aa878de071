package documents

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, ownerID, filename string, sizeBytes int64) (*Document, error) {
	var doc Document

	err := r.db.QueryRow(ctx, queryCreate, ownerID, filename, sizeBytes).Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Filename,
		&doc.SizeBytes,
		&doc.ChunkCount,
		&doc.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *Repository) Get(ctx context.Context, documentID, ownerID string) (*Document, error) {
	var doc Document

	err := r.db.QueryRow(ctx, queryGet, documentID, ownerID).Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.Filename,
		&doc.SizeBytes,
		&doc.ChunkCount,
		&doc.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}

	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *Repository) List(ctx context.Context, ownerID string) ([]Document, error) {
	rows, err := r.db.Query(ctx, queryList, ownerID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var docs []Document

	for rows.Next() {
		var doc Document

		err := rows.Scan(
			&doc.ID,
			&doc.OwnerID,
			&doc.Filename,
			&doc.SizeBytes,
			&doc.ChunkCount,
			&doc.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return docs, nil
}

// records how many chunks ingestion produced for the document
func (r *Repository) SetChunkCount(ctx context.Context, documentID string, count int) error {
	_, err := r.db.Exec(ctx, querySetChunkCount, count, documentID)
	return err
}

// deletes a document row; callers remove its chunks through the chunk
// store first
func (r *Repository) Delete(ctx context.Context, documentID, ownerID string) error {
	tag, err := r.db.Exec(ctx, queryDelete, documentID, ownerID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrDocumentNotFound
	}

	return nil
}
