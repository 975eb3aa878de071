package storage

const (
	insertChunkQuery = `
		INSERT INTO document_chunks (document_id, chunk_index, section_title, content, embedding)
		VALUES ($1, $2, $3, $4, $5)
	`

	deleteDocumentChunksQuery = "DELETE FROM document_chunks WHERE document_id = $1"

	deleteOwnerChunksQuery = `
		DELETE FROM document_chunks
		USING documents
		WHERE document_chunks.document_id = documents.id
		  AND documents.owner_id = $1
	`

	countOwnerChunksQuery = `
		SELECT COUNT(*)
		FROM document_chunks
		JOIN documents ON documents.id = document_chunks.document_id
		WHERE documents.owner_id = $1
	`
)
