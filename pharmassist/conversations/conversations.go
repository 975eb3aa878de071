package conversations

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, userID, title string) (*Conversation, error) {
	if title == "" {
		title = "New conversation"
	}

	var conv Conversation

	err := r.db.QueryRow(ctx, queryCreate, userID, title).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &conv, nil
}

// fetches one conversation, scoped to its owner
func (r *Repository) Get(ctx context.Context, conversationID, userID string) (*Conversation, error) {
	var conv Conversation

	err := r.db.QueryRow(ctx, queryGet, conversationID, userID).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConversationNotFound
	}

	if err != nil {
		return nil, err
	}

	return &conv, nil
}

func (r *Repository) List(ctx context.Context, userID string, limit, offset int) ([]Conversation, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, queryCountByUser, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, queryList, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var convs []Conversation

	for rows.Next() {
		var conv Conversation

		err := rows.Scan(
			&conv.ID,
			&conv.UserID,
			&conv.Title,
			&conv.CreatedAt,
			&conv.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}

		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return convs, total, nil
}

func (r *Repository) Rename(ctx context.Context, conversationID, userID, title string) (*Conversation, error) {
	var conv Conversation

	err := r.db.QueryRow(ctx, queryRename, title, conversationID, userID).Scan(
		&conv.ID,
		&conv.UserID,
		&conv.Title,
		&conv.CreatedAt,
		&conv.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrConversationNotFound
	}

	if err != nil {
		return nil, err
	}

	return &conv, nil
}

// deletes a conversation and, via the schema's cascade, its messages
func (r *Repository) Delete(ctx context.Context, conversationID, userID string) error {
	tag, err := r.db.Exec(ctx, queryDelete, conversationID, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrConversationNotFound
	}

	return nil
}

// appends one turn and bumps the conversation's updated_at so listing
// stays ordered by recency
func (r *Repository) AddMessage(ctx context.Context, conversationID, role, content, modelTier string, sourcesCount int, processingMs int64) (*Message, error) {
	var msg Message

	var tier any
	if modelTier != "" {
		tier = modelTier
	}

	err := r.db.QueryRow(ctx, queryAddMessage, conversationID, role, content, tier, sourcesCount, processingMs).Scan(
		&msg.ID,
		&msg.ConversationID,
		&msg.Role,
		&msg.Content,
		&msg.ModelTier,
		&msg.SourcesCount,
		&msg.ProcessingMs,
		&msg.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	if _, err := r.db.Exec(ctx, queryTouch, conversationID); err != nil {
		return nil, err
	}

	return &msg, nil
}

func (r *Repository) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	rows, err := r.db.Query(ctx, queryListMessages, conversationID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanMessages(rows)
}

// RecentMessages returns the last n turns in chronological order, used
// to build the prompt history window
func (r *Repository) RecentMessages(ctx context.Context, conversationID string, n int) ([]Message, error) {
	rows, err := r.db.Query(ctx, queryRecentMessages, conversationID, n)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]Message, error) {
	var messages []Message

	for rows.Next() {
		var msg Message

		err := rows.Scan(
			&msg.ID,
			&msg.ConversationID,
			&msg.Role,
			&msg.Content,
			&msg.ModelTier,
			&msg.SourcesCount,
			&msg.ProcessingMs,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
