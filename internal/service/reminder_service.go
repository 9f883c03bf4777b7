package service

import (
	"context"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
)

// ReminderService notifies owners of assignments due today or tomorrow.
type ReminderService struct {
	assignments   domain.AssignmentRepository
	notifications domain.NotificationRepository
	now           func() time.Time
}

func NewReminderService(assignments domain.AssignmentRepository, notifications domain.NotificationRepository) *ReminderService {
	return &ReminderService{assignments: assignments, notifications: notifications, now: time.Now}
}

// SendDueReminders returns how many reminders were stored. Only the initial
// listing can fail the run; individual inserts are logged and skipped.
func (s *ReminderService) SendDueReminders(ctx context.Context) (int, error) {
	list, err := s.assignments.ListIncomplete(ctx)
	if err != nil {
		return 0, domain.NewDatastoreError("DB error", err)
	}

	now := s.now()
	sent := 0
	for _, a := range list {
		msg := a.ReminderMessage(now)
		if msg == "" {
			continue
		}
		err := s.notifications.Create(ctx, &domain.Notification{
			UserID:  a.UserID,
			Message: msg,
			Type:    domain.NotificationAssignmentReminder,
			Data:    map[string]any{"assignmentId": a.ID},
		})
		if err != nil {
			logger.Get().Warn("Failed to store assignment reminder",
				zap.String("assignment_id", a.ID),
				zap.String("user_id", a.UserID),
				zap.Error(err))
			continue
		}
		sent++
	}

	logger.Get().Info("Assignment reminders sent", zap.Int("candidates", len(list)), zap.Int("sent", sent))
	return sent, nil
}
