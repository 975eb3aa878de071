package conversations

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// handles conversation and message database operations
type Repository struct {
	db *pgxpool.Pool
}

// one chat thread owned by a user
type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// one turn within a conversation
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	ModelTier      string    `json:"model_tier,omitempty"`
	SourcesCount   int       `json:"sources_count"`
	ProcessingMs   int64     `json:"processing_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

type CreateConversationRequest struct {
	Title string `json:"title"`
}

type RenameConversationRequest struct {
	Title string `json:"title" binding:"required"`
}
