package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"study-buddy/internal/database"
	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// GamificationRepository reads and flags rows of the gamification table.
type GamificationRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

func NewGamificationRepository(db *sqlx.DB) *GamificationRepository {
	return &GamificationRepository{db: db, dialect: database.DialectOf(db)}
}

var _ domain.MetricsRepository = (*GamificationRepository)(nil)

func toDomainMetrics(m *models.Gamification) *domain.UserMetrics {
	if m == nil {
		return nil
	}
	return &domain.UserMetrics{
		UserID:              m.UserID,
		Points:              m.Points,
		CurrentStreak:       m.CurrentStreak,
		FirstLoginCompleted: m.FirstLoginCompleted,
	}
}

func (r *GamificationRepository) GetMetrics(ctx context.Context, userID string) (*domain.UserMetrics, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT user_id, points, current_streak, first_login_completed
		FROM gamification WHERE user_id = ?`)

	var row models.Gamification
	if err := exec.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get metrics for user %s: %w", userID, err)
	}
	return toDomainMetrics(&row), nil
}

// TopUserIDs orders by points descending; ties are broken by user id so the
// ranking is stable between reads.
func (r *GamificationRepository) TopUserIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}
	exec := GetExecutor(ctx, r.db)
	query := `SELECT user_id FROM gamification ORDER BY points DESC, user_id ASC` + r.dialect.LimitClause(limit)

	ids := []string{}
	if err := exec.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	return ids, nil
}

func (r *GamificationRepository) MarkFirstLoginCompleted(ctx context.Context, userID string) error {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(fmt.Sprintf(
		`UPDATE gamification SET first_login_completed = %s, updated_at = ? WHERE user_id = ?`,
		r.dialect.BoolLiteral(true)))

	if _, err := exec.ExecContext(ctx, query, time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("failed to mark first login for user %s: %w", userID, err)
	}
	return nil
}

func (r *GamificationRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	exec := GetExecutor(ctx, r.db)
	ids := []string{}
	if err := exec.SelectContext(ctx, &ids, `SELECT user_id FROM gamification ORDER BY user_id`); err != nil {
		return nil, fmt.Errorf("failed to list users with metrics: %w", err)
	}
	return ids, nil
}
