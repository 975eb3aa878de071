package conversations

const (
	queryCreate = `
		INSERT INTO conversations (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, title, created_at, updated_at
	`

	queryGet = `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE id = $1 AND user_id = $2
	`

	queryList = `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	queryCountByUser = `
		SELECT COUNT(*) FROM conversations WHERE user_id = $1
	`

	queryRename = `
		UPDATE conversations
		SET title = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, title, created_at, updated_at
	`

	queryDelete = `
		DELETE FROM conversations WHERE id = $1 AND user_id = $2
	`

	queryTouch = `
		UPDATE conversations SET updated_at = NOW() WHERE id = $1
	`

	queryAddMessage = `
		INSERT INTO messages (conversation_id, role, content, model_tier, sources_count, processing_ms)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, conversation_id, role, content, COALESCE(model_tier, ''), sources_count, processing_ms, created_at
	`

	queryListMessages = `
		SELECT id, conversation_id, role, content, COALESCE(model_tier, ''), sources_count, processing_ms, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	queryRecentMessages = `
		SELECT id, conversation_id, role, content, COALESCE(model_tier, ''), sources_count, processing_ms, created_at
		FROM (
			SELECT id, conversation_id, role, content, model_tier, sources_count, processing_ms, created_at
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`
)
