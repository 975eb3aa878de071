package documents

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles document metadata database operations; chunk rows live in the
// storage package
type Repository struct {
	db *pgxpool.Pool
}

// one uploaded source document
type Document struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}
