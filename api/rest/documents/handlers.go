package documents

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmassist/server/internal/auth"
	resterrors "github.com/pharmassist/server/internal/errors"
	"github.com/pharmassist/server/internal/extractor"
	"github.com/pharmassist/server/internal/ingest"
	"github.com/pharmassist/server/pharmassist/documents"
)

// uploads are read fully into memory before extraction
const maxUploadBytes = 20 << 20 // 20 MB

// UploadHandler ingests one uploaded file into the user's document set
func UploadHandler(ingestService *ingest.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			resterrors.Unauthorized(c, "")
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			resterrors.BadRequest(c, "file field required", err)
			return
		}

		if fileHeader.Size > maxUploadBytes {
			resterrors.PayloadTooLarge(c, "file exceeds the 20 MB limit")
			return
		}

		if !extractor.Supported(fileHeader.Filename) {
			resterrors.UnsupportedMediaType(c, "only pdf, txt, and md files are supported")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			resterrors.InternalError(c, "failed to open upload", err)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
		if err != nil {
			resterrors.InternalError(c, "failed to read upload", err)
			return
		}

		if int64(len(data)) > maxUploadBytes {
			resterrors.PayloadTooLarge(c, "file exceeds the 20 MB limit")
			return
		}

		doc, err := ingestService.IngestBytes(c.Request.Context(), userID, fileHeader.Filename, data)
		if err != nil {
			resterrors.BadRequest(c, "failed to ingest document", err)
			return
		}

		c.JSON(http.StatusCreated, UploadResponse{Document: doc})
	}
}

// ListHandler lists the user's uploaded documents
func ListHandler(docRepo *documents.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			resterrors.Unauthorized(c, "")
			return
		}

		docs, err := docRepo.List(c.Request.Context(), userID)
		if err != nil {
			resterrors.InternalError(c, "failed to list documents", err)
			return
		}

		if docs == nil {
			docs = []documents.Document{}
		}

		c.JSON(http.StatusOK, ListResponse{Documents: docs})
	}
}

// DeleteHandler removes a document and its chunks
func DeleteHandler(ingestService *ingest.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			resterrors.Unauthorized(c, "")
			return
		}

		documentID, ok := resterrors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		err := ingestService.DeleteDocument(c.Request.Context(), userID, documentID)
		if errors.Is(err, documents.ErrDocumentNotFound) {
			resterrors.NotFound(c, "document")
			return
		}

		if err != nil {
			resterrors.InternalError(c, "failed to delete document", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "document deleted"})
	}
}
