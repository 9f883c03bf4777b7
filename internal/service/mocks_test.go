package service

import (
	"context"
	"time"

	"study-buddy/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockTextGenerator ---
type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, messages []domain.ChatMessage, opts domain.GenerationOptions) (string, error) {
	args := m.Called(ctx, messages, opts)
	return args.String(0), args.Error(1)
}

// --- MockMetricsRepository ---
type MockMetricsRepository struct {
	mock.Mock
}

func (m *MockMetricsRepository) GetMetrics(ctx context.Context, userID string) (*domain.UserMetrics, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserMetrics), args.Error(1)
}

func (m *MockMetricsRepository) TopUserIDs(ctx context.Context, limit int) ([]string, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMetricsRepository) MarkFirstLoginCompleted(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockMetricsRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- MockBadgeRepository ---
type MockBadgeRepository struct {
	mock.Mock
}

func (m *MockBadgeRepository) ListDefinitions(ctx context.Context) ([]domain.BadgeDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BadgeDefinition), args.Error(1)
}

func (m *MockBadgeRepository) EarnedBadgeIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBadgeRepository) GrantBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	args := m.Called(ctx, userID, badgeID)
	return args.Bool(0), args.Error(1)
}

// --- MockNotificationRepository ---
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// --- MockChatRepository ---
type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) History(ctx context.Context, chatID string) ([]domain.ChatTurn, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatTurn), args.Error(1)
}

// --- MockAssignmentRepository ---
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) ListIncomplete(ctx context.Context) ([]domain.Assignment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Assignment), args.Error(1)
}

// --- MockEventPublisher ---
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event domain.BadgeUnlockedEvent) {
	m.Called(ctx, event)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockLeaderboardReader ---
type MockLeaderboardReader struct {
	mock.Mock
}

func (m *MockLeaderboardReader) TopUserIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- MockBadgeNotifier ---
type MockBadgeNotifier struct {
	mock.Mock
}

func (m *MockBadgeNotifier) BadgeUnlocked(ctx context.Context, userID string, badge domain.BadgeDefinition) error {
	args := m.Called(ctx, userID, badge)
	return args.Error(0)
}

// passthroughTx runs fn directly.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
