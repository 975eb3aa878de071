package chat

import (
	"github.com/pharmassist/server/internal/rag"
)

// request payload for asking a question
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	ConversationID string `json:"conversation_id,omitempty"`
	Tier           string `json:"tier,omitempty"` // "fast" or "premium"

	// optional per-request overrides for the stored profile preferences
	Preferences map[string]string `json:"preferences,omitempty"`
}

// response payload wrapping the pipeline result
type ChatResponse struct {
	ConversationID string      `json:"conversation_id"`
	Result         *rag.Result `json:"result"`
}
