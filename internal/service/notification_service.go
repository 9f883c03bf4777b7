package service

import (
	"context"
	"strings"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
)

const msgNotificationRequired = "toUserId and message are required"

// NotificationService writes durable inbox rows.
type NotificationService struct {
	repo domain.NotificationRepository
}

func NewNotificationService(repo domain.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// Send stores a notification. Type defaults to "general" and data to {}.
func (s *NotificationService) Send(ctx context.Context, toUserID, message, notificationType string, data map[string]any) (*domain.Notification, error) {
	if strings.TrimSpace(toUserID) == "" || strings.TrimSpace(message) == "" {
		return nil, domain.NewInvalidInputError(msgNotificationRequired)
	}
	if notificationType == "" {
		notificationType = domain.NotificationGeneral
	}
	if data == nil {
		data = map[string]any{}
	}

	n := &domain.Notification{
		UserID:  toUserID,
		Message: message,
		Type:    notificationType,
		Data:    data,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		logger.Get().Error("Failed to store notification",
			zap.String("user_id", toUserID),
			zap.String("type", notificationType),
			zap.Error(err))
		return nil, domain.NewDatastoreError("Failed to send notification", err)
	}
	return n, nil
}

// BadgeUnlocked stores the inbox row announcing badge.
func (s *NotificationService) BadgeUnlocked(ctx context.Context, userID string, badge domain.BadgeDefinition) error {
	return s.repo.Create(ctx, &domain.Notification{
		UserID:  userID,
		Message: domain.BadgeUnlockedMessage(badge.Name),
		Type:    domain.NotificationBadgeUnlocked,
		Data:    map[string]any{"badgeId": badge.ID},
	})
}
