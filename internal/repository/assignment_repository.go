package repository

import (
	"context"
	"fmt"

	"study-buddy/internal/database"
	"study-buddy/internal/domain"
	"study-buddy/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

type AssignmentRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db, dialect: database.DialectOf(db)}
}

var _ domain.AssignmentRepository = (*AssignmentRepository)(nil)

func (r *AssignmentRepository) ListIncomplete(ctx context.Context) ([]domain.Assignment, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Assignment
	query := fmt.Sprintf(`SELECT id, user_id, title, due_date, is_completed
		FROM assignments WHERE is_completed = %s ORDER BY due_date`, r.dialect.BoolLiteral(false))
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list incomplete assignments: %w", err)
	}

	out := make([]domain.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Assignment{
			ID:          row.ID,
			UserID:      row.UserID,
			Title:       row.Title,
			DueDate:     row.DueDate,
			IsCompleted: row.IsCompleted,
		})
	}
	return out, nil
}
