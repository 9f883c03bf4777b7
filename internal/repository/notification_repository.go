package repository

import (
	"context"
	"fmt"
	"time"

	"study-buddy/internal/database"
	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"
	"study-buddy/internal/util"

	"github.com/jmoiron/sqlx"
)

type NotificationRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db, dialect: database.DialectOf(db)}
}

var _ domain.NotificationRepository = (*NotificationRepository)(nil)

func fromDomainNotification(n *domain.Notification) (*models.Notification, error) {
	data, err := util.EncodeJSONColumn(n.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification data: %w", err)
	}
	return &models.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Message:   n.Message,
		Type:      n.Type,
		Data:      data,
		IsRead:    n.Read,
		CreatedAt: n.CreatedAt,
	}, nil
}

// Create fills in ID, Type and CreatedAt when they are unset, then inserts n.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = util.NewULID()
	}
	if n.Type == "" {
		n.Type = domain.NotificationGeneral
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	row, err := fromDomainNotification(n)
	if err != nil {
		return err
	}

	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(fmt.Sprintf(`INSERT INTO notifications (id, user_id, message, type, data, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, %s, ?)`, r.dialect.BoolLiteral(row.IsRead)))

	if _, err := exec.ExecContext(ctx, query, row.ID, row.UserID, row.Message, row.Type, row.Data, row.CreatedAt); err != nil {
		return fmt.Errorf("failed to create notification for user %s: %w", n.UserID, err)
	}
	return nil
}
