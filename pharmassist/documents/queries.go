package documents

const (
	queryCreate = `
		INSERT INTO documents (owner_id, filename, size_bytes)
		VALUES ($1, $2, $3)
		RETURNING id, owner_id, filename, size_bytes, chunk_count, created_at
	`

	queryGet = `
		SELECT id, owner_id, filename, size_bytes, chunk_count, created_at
		FROM documents
		WHERE id = $1 AND owner_id = $2
	`

	queryList = `
		SELECT id, owner_id, filename, size_bytes, chunk_count, created_at
		FROM documents
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	querySetChunkCount = `
		UPDATE documents SET chunk_count = $1 WHERE id = $2
	`

	queryDelete = `
		DELETE FROM documents WHERE id = $1 AND owner_id = $2
	`
)
