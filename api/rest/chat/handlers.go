package chat

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pharmassist/server/internal/auth"
	"github.com/pharmassist/server/internal/errors"
	"github.com/pharmassist/server/internal/llm"
	"github.com/pharmassist/server/internal/logger"
	"github.com/pharmassist/server/internal/rag"
	"github.com/pharmassist/server/internal/retry"
	"github.com/pharmassist/server/pharmassist/conversations"
	"github.com/pharmassist/server/pharmassist/users"
)

const (
	// prior turns loaded from the conversation for the prompt
	historyMessages = 2

	maxMessageLength = 8000
)

// AskHandler answers one question through the RAG pipeline and persists
// the exchange in a conversation
func AskHandler(orchestrator *rag.Orchestrator, convRepo *conversations.Repository, userRepo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := auth.GetUserID(c)
		if !exists {
			errors.Unauthorized(c, "")
			return
		}

		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		if len(req.Message) > maxMessageLength {
			errors.BadRequest(c, "message too long", nil)
			return
		}

		tier, ok := parseTier(req.Tier)
		if !ok {
			errors.BadRequest(c, "tier must be \"fast\" or \"premium\"", nil)
			return
		}

		ctx := c.Request.Context()

		conv, err := resolveConversation(c, convRepo, userID, req)
		if err != nil {
			return // response already written
		}

		history := loadHistory(c, convRepo, conv.ID)

		// per-request preferences take precedence over the stored profile
		preferences := req.Preferences
		if preferences == nil {
			preferences = loadPreferences(c, userRepo, userID)
		}

		query := rag.Query{
			Text:        req.Message,
			UserID:      userID,
			Tier:        tier,
			History:     history,
			Preferences: preferences,
		}

		result := orchestrator.ProcessQuery(ctx, query)

		// the premium tier falls back to fast before giving up
		if !result.Success && tier == llm.TierPremium {
			logger.Warn("premium generation failed, retrying on fast tier",
				"user_id", userID,
				"error", result.ErrorMessage,
			)

			query.Tier = llm.TierFast
			result = orchestrator.ProcessQuery(ctx, query)
		}

		saveExchange(c, convRepo, conv.ID, req.Message, result)

		c.JSON(http.StatusOK, ChatResponse{
			ConversationID: conv.ID,
			Result:         result,
		})
	}
}

// resolveConversation loads the requested conversation or starts a new
// one titled after the question
func resolveConversation(c *gin.Context, convRepo *conversations.Repository, userID string, req ChatRequest) (*conversations.Conversation, error) {
	ctx := c.Request.Context()

	if req.ConversationID == "" {
		conv, err := convRepo.Create(ctx, userID, titleFromMessage(req.Message))
		if err != nil {
			errors.InternalError(c, "failed to create conversation", err)
			return nil, err
		}

		return conv, nil
	}

	if !errors.IsValidUUID(req.ConversationID) {
		errors.BadRequest(c, "invalid conversation_id", nil)
		return nil, conversations.ErrConversationNotFound
	}

	conv, err := convRepo.Get(ctx, req.ConversationID, userID)
	if err != nil {
		errors.NotFound(c, "conversation")
		return nil, err
	}

	return conv, nil
}

// loadHistory fetches the trailing turns; a failure degrades to an
// empty history rather than blocking the answer
func loadHistory(c *gin.Context, convRepo *conversations.Repository, conversationID string) []llm.Message {
	messages, err := convRepo.RecentMessages(c.Request.Context(), conversationID, historyMessages)
	if err != nil {
		logger.Warn("failed to load conversation history", "conversation_id", conversationID, "error", err)
		return nil
	}

	history := make([]llm.Message, 0, len(messages))

	for _, msg := range messages {
		history = append(history, llm.Message{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	return history
}

// loadPreferences fetches the user's answer preferences, degrading to
// none on failure
func loadPreferences(c *gin.Context, userRepo *users.Repository, userID string) map[string]string {
	user, err := userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		logger.Warn("failed to load user preferences", "user_id", userID, "error", err)
		return nil
	}

	return user.Preferences
}

// saveExchange persists the user turn and the assistant turn. Saves are
// retried once; a final failure is logged but does not fail the request,
// since the user already has their answer.
func saveExchange(c *gin.Context, convRepo *conversations.Repository, conversationID, question string, result *rag.Result) {
	ctx := c.Request.Context()
	policy := retry.Policy{
		MaxAttempts:     2,
		BaseDelay:       100 * time.Millisecond,
		ExponentialBase: 2.0,
		MaxDelay:        time.Second,
	}

	err := policy.Do(ctx, func(ctx context.Context) error {
		_, err := convRepo.AddMessage(ctx, conversationID, "user", question, "", 0, 0)
		return err
	}, nil)

	if err != nil {
		logger.ErrorErr(err, "failed to save user message", "conversation_id", conversationID)
	}

	err = policy.Do(ctx, func(ctx context.Context) error {
		_, err := convRepo.AddMessage(ctx, conversationID, "assistant", result.Response, string(result.Tier), len(result.Documents), result.ProcessingMs)
		return err
	}, nil)

	if err != nil {
		logger.ErrorErr(err, "failed to save assistant message", "conversation_id", conversationID)
	}
}

func parseTier(tier string) (llm.Tier, bool) {
	switch tier {
	case "", "fast":
		return llm.TierFast, true
	case "premium":
		return llm.TierPremium, true
	default:
		return "", false
	}
}

// titleFromMessage trims the question into a conversation title
func titleFromMessage(message string) string {
	const maxTitle = 60

	if len(message) <= maxTitle {
		return message
	}

	return message[:maxTitle] + "..."
}
