package service

import (
	"context"
	"strings"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/validation"

	"go.uber.org/zap"
)

// ChatService answers a chat message in the context of the stored history.
type ChatService struct {
	llm     domain.TextGenerator
	history domain.ChatRepository
}

func NewChatService(llm domain.TextGenerator, history domain.ChatRepository) *ChatService {
	return &ChatService{llm: llm, history: history}
}

// Reply only fails validation. Every later failure yields an empty reply.
func (s *ChatService) Reply(ctx context.Context, chatID, message string) (string, error) {
	if err := validation.ValidateChat(message, chatID); err != nil {
		return "", err
	}
	log := logger.Get().With(zap.String("chat_id", chatID))

	var turns []domain.ChatTurn
	if s.history != nil {
		var err error
		turns, err = s.history.History(ctx, chatID)
		if err != nil {
			log.Warn("Could not load chat history, answering without it", zap.Error(err))
			turns = nil
		}
	}

	messages := make([]domain.ChatMessage, 0, len(turns)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: chatSystemPrompt})
	for _, t := range turns {
		role := domain.RoleModel
		if t.Sender == "user" {
			role = domain.RoleUser
		}
		messages = append(messages, domain.ChatMessage{Role: role, Content: t.Message})
	}
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: message})

	reply, err := s.llm.Generate(ctx, messages, chatOptions)
	if err != nil {
		log.Error("Chat model call failed", zap.Error(err))
		return "", nil
	}
	return strings.TrimSpace(reply), nil
}
