package handler_test

import (
	"context"

	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/service"
)

// --- Manual Mocks ---

type MockContentGenerator struct {
	GenerateFlashcardsFunc func(ctx context.Context, req domain.GenerationRequest) ([]domain.Flashcard, error)
	GenerateQuizFunc       func(ctx context.Context, req domain.GenerationRequest) ([]domain.QuizQuestion, error)
}

func (m *MockContentGenerator) GenerateFlashcards(ctx context.Context, req domain.GenerationRequest) ([]domain.Flashcard, error) {
	if m.GenerateFlashcardsFunc != nil {
		return m.GenerateFlashcardsFunc(ctx, req)
	}
	panic("MockContentGenerator.GenerateFlashcardsFunc not implemented")
}

func (m *MockContentGenerator) GenerateQuiz(ctx context.Context, req domain.GenerationRequest) ([]domain.QuizQuestion, error) {
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, req)
	}
	panic("MockContentGenerator.GenerateQuizFunc not implemented")
}

type MockQuizGrader struct {
	GradeFunc func(ctx context.Context, inputs []domain.GradingInput) ([]domain.GradedResult, error)
}

func (m *MockQuizGrader) Grade(ctx context.Context, inputs []domain.GradingInput) ([]domain.GradedResult, error) {
	if m.GradeFunc != nil {
		return m.GradeFunc(ctx, inputs)
	}
	panic("MockQuizGrader.GradeFunc not implemented")
}

type MockStudyPlanner struct {
	GenerateFunc func(ctx context.Context, req domain.StudyPlanRequest) (*service.StudyPlanResult, error)
}

func (m *MockStudyPlanner) Generate(ctx context.Context, req domain.StudyPlanRequest) (*service.StudyPlanResult, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	panic("MockStudyPlanner.GenerateFunc not implemented")
}

type MockChatResponder struct {
	ReplyFunc func(ctx context.Context, chatID, message string) (string, error)
}

func (m *MockChatResponder) Reply(ctx context.Context, chatID, message string) (string, error) {
	if m.ReplyFunc != nil {
		return m.ReplyFunc(ctx, chatID, message)
	}
	panic("MockChatResponder.ReplyFunc not implemented")
}

type MockBadgeEvaluator struct {
	EvaluateFunc func(ctx context.Context, userID string) (*service.EvaluationResult, error)
}

func (m *MockBadgeEvaluator) Evaluate(ctx context.Context, userID string) (*service.EvaluationResult, error) {
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, userID)
	}
	panic("MockBadgeEvaluator.EvaluateFunc not implemented")
}

type MockStandingReader struct {
	StandingFunc func(ctx context.Context, userID string) (*dto.StandingResponse, error)
}

func (m *MockStandingReader) Standing(ctx context.Context, userID string) (*dto.StandingResponse, error) {
	if m.StandingFunc != nil {
		return m.StandingFunc(ctx, userID)
	}
	panic("MockStandingReader.StandingFunc not implemented")
}

type MockNotificationSender struct {
	SendFunc func(ctx context.Context, toUserID, message, notificationType string, data map[string]any) (*domain.Notification, error)
}

func (m *MockNotificationSender) Send(ctx context.Context, toUserID, message, notificationType string, data map[string]any) (*domain.Notification, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, toUserID, message, notificationType, data)
	}
	panic("MockNotificationSender.SendFunc not implemented")
}

type MockReminderSender struct {
	SendDueRemindersFunc func(ctx context.Context) (int, error)
}

func (m *MockReminderSender) SendDueReminders(ctx context.Context) (int, error) {
	if m.SendDueRemindersFunc != nil {
		return m.SendDueRemindersFunc(ctx)
	}
	panic("MockReminderSender.SendDueRemindersFunc not implemented")
}
