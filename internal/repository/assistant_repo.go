package repository

import (
	"context"

	"github.com/Ayush-kumar-28/Mentorverse-sub001/internal/models"
)

type AssistantRepository struct {
	db DBTX
}

func NewAssistantRepository(db DBTX) *AssistantRepository {
	return &AssistantRepository{db: db}
}

func (r *AssistantRepository) CreateOrGetConversation(
	ctx context.Context,
	userID int64,
) (*models.AssistantConversation, error) {
	query := `
		INSERT INTO assistant_conversations (user_id)
		VALUES ($1)
		ON CONFLICT (user_id)
		DO UPDATE SET updated_at = assistant_conversations.updated_at
		RETURNING id, user_id, created_at, updated_at
	`

	var conversation models.AssistantConversation
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&conversation.ID,
		&conversation.UserID,
		&conversation.CreatedAt,
		&conversation.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &conversation, nil
}

func (r *AssistantRepository) CreateMessage(
	ctx context.Context,
	conversationID int64,
	sender string,
	content string,
) (*models.AssistantMessage, error) {
	query := `
		INSERT INTO assistant_messages (conversation_id, sender, content)
		VALUES ($1, $2, $3)
		RETURNING id, conversation_id, sender, content, created_at
	`

	var message models.AssistantMessage
	err := r.db.QueryRow(ctx, query, conversationID, sender, content).Scan(
		&message.ID,
		&message.ConversationID,
		&message.Sender,
		&message.Content,
		&message.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &message, nil
}

// ListRecentMessages returns up to limit messages in chronological order.
func (r *AssistantRepository) ListRecentMessages(
	ctx context.Context,
	conversationID int64,
	limit int,
) ([]models.AssistantMessage, error) {
	query := `
		SELECT id, conversation_id, sender, content, created_at
		FROM (
			SELECT id, conversation_id, sender, content, created_at
			FROM assistant_messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.AssistantMessage, 0)
	for rows.Next() {
		var message models.AssistantMessage
		if err := rows.Scan(
			&message.ID,
			&message.ConversationID,
			&message.Sender,
			&message.Content,
			&message.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
