package domain

import "context"

type ChatRole string

const (
	RoleSystem ChatRole = "system"
	RoleUser   ChatRole = "user"
	RoleModel  ChatRole = "model"
)

type ChatMessage struct {
	Role    ChatRole
	Content string
}

type GenerationOptions struct {
	Temperature float64
	MaxTokens   int
}

// TextGenerator is the external model. One call, one reply, no retries.
type TextGenerator interface {
	Generate(ctx context.Context, messages []ChatMessage, opts GenerationOptions) (string, error)
}

// MetricsRepository reads the gamification table.
type MetricsRepository interface {
	// GetMetrics returns nil, nil when the user has no metrics row yet.
	GetMetrics(ctx context.Context, userID string) (*UserMetrics, error)
	TopUserIDs(ctx context.Context, limit int) ([]string, error)
	MarkFirstLoginCompleted(ctx context.Context, userID string) error
	ListUserIDs(ctx context.Context) ([]string, error)
}

type BadgeRepository interface {
	ListDefinitions(ctx context.Context) ([]BadgeDefinition, error)
	EarnedBadgeIDs(ctx context.Context, userID string) ([]string, error)
	// GrantBadge reports granted=false, err=nil when the pair already exists.
	GrantBadge(ctx context.Context, userID, badgeID string) (bool, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
}

type ChatRepository interface {
	History(ctx context.Context, chatID string) ([]ChatTurn, error)
}

type AssignmentRepository interface {
	ListIncomplete(ctx context.Context) ([]Assignment, error)
}

// EventPublisher delivers ephemeral UI events. Delivery is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, event BadgeUnlockedEvent)
}

// TransactionManager runs fn inside one datastore transaction. Repositories
// pick the transaction up from the context they are handed.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
