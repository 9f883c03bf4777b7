package domain

import (
	"fmt"
	"time"
)

const (
	NotificationGeneral            = "general"
	NotificationBadgeUnlocked      = "badge_unlocked"
	NotificationAssignmentReminder = "assignment_reminder"
)

// Notification is the durable row shown in the user's inbox.
type Notification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	Read      bool           `json:"read"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ChatTurn is one stored line of an AI chat.
type ChatTurn struct {
	Sender  string
	Message string
}

type Assignment struct {
	ID          string
	UserID      string
	Title       string
	DueDate     time.Time
	IsCompleted bool
}

// DaysUntilDue counts whole 24h periods between now and the due date,
// truncated toward zero.
func (a Assignment) DaysUntilDue(now time.Time) int {
	return int(a.DueDate.Sub(now) / (24 * time.Hour))
}

// ReminderMessage returns the reminder text for an assignment, or "" when
// it is not due today or tomorrow.
func (a Assignment) ReminderMessage(now time.Time) string {
	switch a.DaysUntilDue(now) {
	case 0:
		return fmt.Sprintf("\"%s\" is due TODAY!", a.Title)
	case 1:
		return fmt.Sprintf("\"%s\" is due TOMORROW.", a.Title)
	default:
		return ""
	}
}
