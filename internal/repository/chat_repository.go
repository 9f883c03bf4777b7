package repository

import (
	"context"
	"fmt"

	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

type ChatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

var _ domain.ChatRepository = (*ChatRepository)(nil)

// History returns the stored turns of chatID, oldest first.
func (r *ChatRepository) History(ctx context.Context, chatID string) ([]domain.ChatTurn, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.ChatMessage
	query := exec.Rebind(`SELECT sender, message FROM ai_chats WHERE chat_id = ? ORDER BY created_at ASC, id ASC`)
	if err := exec.SelectContext(ctx, &rows, query, chatID); err != nil {
		return nil, fmt.Errorf("failed to load chat history %s: %w", chatID, err)
	}

	turns := make([]domain.ChatTurn, 0, len(rows))
	for _, row := range rows {
		turns = append(turns, domain.ChatTurn{Sender: row.Sender, Message: row.Message})
	}
	return turns, nil
}
