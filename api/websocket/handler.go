// Package websocket streams chat answers token by token over a
// WebSocket connection, one query frame per answer.
package websocket

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pharmassist/server/internal/auth"
	"github.com/pharmassist/server/internal/llm"
	"github.com/pharmassist/server/internal/logger"
	"github.com/pharmassist/server/internal/rag"
	"github.com/pharmassist/server/pharmassist/conversations"
	"github.com/pharmassist/server/pharmassist/users"
)

// prior turns loaded from the conversation for the prompt
const historyMessages = 2

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     checkOrigin,
}

// StreamHandler upgrades the connection and serves streamed answers
// until the client disconnects. Clients authenticate with a token query
// parameter since browsers cannot set headers on WebSocket upgrades.
func StreamHandler(orchestrator *rag.Orchestrator, convRepo *conversations.Repository, userRepo *users.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.TokenFromRequest(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		claims, err := auth.ValidateJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.ErrorErr(err, "websocket upgrade failed")
			return
		}

		session := &chatSession{
			conn:         conn,
			userID:       claims.UserID,
			orchestrator: orchestrator,
			convRepo:     convRepo,
			userRepo:     userRepo,
		}

		session.run(c.Request.Context())
	}
}

type chatSession struct {
	// guards writes; the ping loop and the stream sink share the conn
	writeMu sync.Mutex

	conn         *websocket.Conn
	userID       string
	orchestrator *rag.Orchestrator
	convRepo     *conversations.Repository
	userRepo     *users.Repository
}

func (s *chatSession) run(ctx context.Context) {
	defer s.conn.Close()

	s.conn.SetReadLimit(maxQueryBytes)
	s.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: websocket setup
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: pong handler
		return nil
	})

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	done := make(chan struct{})
	defer close(done)

	go s.keepAlive(pingTicker, done)

	for {
		var frame QueryFrame

		if err := s.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", "user_id", s.userID, "error", err)
			}

			return
		}

		s.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck,gosec // G104: reset after read

		if frame.Type != TypeQuery || frame.Message == "" {
			s.writeJSON(ErrorFrame{Type: TypeError, Error: "expected a query frame with a message"})
			continue
		}

		s.handleQuery(ctx, frame)
	}
}

func (s *chatSession) handleQuery(ctx context.Context, frame QueryFrame) {
	tier := llm.TierFast
	if frame.Tier == "premium" {
		tier = llm.TierPremium
	}

	conv, err := s.resolveConversation(ctx, frame)
	if err != nil {
		s.writeJSON(ErrorFrame{Type: TypeError, Error: "conversation not found"})
		return
	}

	query := rag.Query{
		Text:        frame.Message,
		UserID:      s.userID,
		Tier:        tier,
		History:     s.loadHistory(ctx, conv.ID),
		Preferences: s.loadPreferences(ctx),
	}

	result := s.orchestrator.StreamQuery(ctx, query, func(chunk string) error {
		return s.writeJSON(ChunkFrame{Type: TypeChunk, Content: chunk})
	})

	s.saveExchange(ctx, conv.ID, frame.Message, result)

	if err := s.writeJSON(DoneFrame{
		Type:           TypeDone,
		ConversationID: conv.ID,
		Result:         result,
	}); err != nil {
		logger.Warn("failed to send done frame", "user_id", s.userID, "error", err)
	}
}

func (s *chatSession) resolveConversation(ctx context.Context, frame QueryFrame) (*conversations.Conversation, error) {
	if frame.ConversationID == "" {
		title := frame.Message
		if len(title) > 60 {
			title = title[:60] + "..."
		}

		return s.convRepo.Create(ctx, s.userID, title)
	}

	return s.convRepo.Get(ctx, frame.ConversationID, s.userID)
}

func (s *chatSession) loadHistory(ctx context.Context, conversationID string) []llm.Message {
	messages, err := s.convRepo.RecentMessages(ctx, conversationID, historyMessages)
	if err != nil {
		logger.Warn("failed to load conversation history", "conversation_id", conversationID, "error", err)
		return nil
	}

	history := make([]llm.Message, 0, len(messages))

	for _, msg := range messages {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	return history
}

func (s *chatSession) loadPreferences(ctx context.Context) map[string]string {
	user, err := s.userRepo.FindByID(ctx, s.userID)
	if err != nil {
		logger.Warn("failed to load user preferences", "user_id", s.userID, "error", err)
		return nil
	}

	return user.Preferences
}

func (s *chatSession) saveExchange(ctx context.Context, conversationID, question string, result *rag.Result) {
	if _, err := s.convRepo.AddMessage(ctx, conversationID, "user", question, "", 0, 0); err != nil {
		logger.ErrorErr(err, "failed to save user message", "conversation_id", conversationID)
	}

	if _, err := s.convRepo.AddMessage(ctx, conversationID, "assistant", result.Response, string(result.Tier), len(result.Documents), result.ProcessingMs); err != nil {
		logger.ErrorErr(err, "failed to save assistant message", "conversation_id", conversationID)
	}
}

func (s *chatSession) writeJSON(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket timing
	return s.conn.WriteJSON(v)
}

func (s *chatSession) keepAlive(ticker *time.Ticker, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.writeMu.Lock()
			s.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck,gosec // G104: websocket ping timing
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()

			if err != nil {
				return
			}
		}
	}
}
