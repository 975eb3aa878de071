package conversations

import (
	"github.com/pharmassist/server/api/rest/pagination"
	"github.com/pharmassist/server/pharmassist/conversations"
)

// ListResponse wraps a page of conversations
type ListResponse struct {
	Conversations []conversations.Conversation `json:"conversations"`
	Pagination    pagination.Meta              `json:"pagination"`
}

// DetailResponse is one conversation with its full message history
type DetailResponse struct {
	Conversation *conversations.Conversation `json:"conversation"`
	Messages     []conversations.Message     `json:"messages"`
}
