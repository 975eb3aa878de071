package conversations

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmassist/server/api/rest/pagination"
	"github.com/pharmassist/server/internal/auth"
	"github.com/pharmassist/server/internal/errors"
	"github.com/pharmassist/server/pharmassist/conversations"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListHandler lists the authenticated user's conversations, most
// recently active first
func ListHandler(convRepo *conversations.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		params := pagination.FromQuery(c, defaultPageSize, maxPageSize)

		convs, total, err := convRepo.List(c.Request.Context(), userID, params.Limit, params.Offset)
		if err != nil {
			errors.InternalError(c, "failed to list conversations", err)
			return
		}

		if convs == nil {
			convs = []conversations.Conversation{}
		}

		c.JSON(http.StatusOK, ListResponse{
			Conversations: convs,
			Pagination:    pagination.NewMeta(params, total),
		})
	}
}

// GetHandler returns one conversation with its messages
func GetHandler(convRepo *conversations.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		conversationID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		conv, err := convRepo.Get(c.Request.Context(), conversationID, userID)
		if err != nil {
			errors.NotFound(c, "conversation")
			return
		}

		messages, err := convRepo.ListMessages(c.Request.Context(), conversationID)
		if err != nil {
			errors.InternalError(c, "failed to load messages", err)
			return
		}

		if messages == nil {
			messages = []conversations.Message{}
		}

		c.JSON(http.StatusOK, DetailResponse{
			Conversation: conv,
			Messages:     messages,
		})
	}
}

// RenameHandler updates a conversation's title
func RenameHandler(convRepo *conversations.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		conversationID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		var req conversations.RenameConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		conv, err := convRepo.Rename(c.Request.Context(), conversationID, userID, req.Title)
		if err != nil {
			errors.NotFound(c, "conversation")
			return
		}

		c.JSON(http.StatusOK, conv)
	}
}

// DeleteHandler removes a conversation and its messages
func DeleteHandler(convRepo *conversations.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		conversationID, ok := errors.ValidatePathUUID(c, "id")
		if !ok {
			return
		}

		if err := convRepo.Delete(c.Request.Context(), conversationID, userID); err != nil {
			errors.NotFound(c, "conversation")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "conversation deleted"})
	}
}
