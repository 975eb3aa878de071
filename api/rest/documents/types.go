package documents

import (
	"github.com/pharmassist/server/pharmassist/documents"
)

// ListResponse wraps the user's uploaded documents
type ListResponse struct {
	Documents []documents.Document `json:"documents"`
}

// UploadResponse describes one ingested document
type UploadResponse struct {
	Document *documents.Document `json:"document"`
}
