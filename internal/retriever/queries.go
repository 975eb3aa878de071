package retriever

const (
	// match_document_chunks is a server-side SQL function:
	//   match_document_chunks(query_embedding vector, owner_id uuid,
	//                         match_count int, match_threshold float)
	// returning the owner's chunks ordered by cosine similarity
	similaritySearchQuery = `
		SELECT
			id::text,
			document_id::text,
			filename,
			chunk_index,
			content,
			similarity
		FROM match_document_chunks($1, $2, $3, $4)
	`
)
