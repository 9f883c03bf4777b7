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

type BadgeRepository struct {
	db      *sqlx.DB
	dialect database.Dialect
}

func NewBadgeRepository(db *sqlx.DB) *BadgeRepository {
	return &BadgeRepository{db: db, dialect: database.DialectOf(db)}
}

var _ domain.BadgeRepository = (*BadgeRepository)(nil)

func toDomainBadge(m models.Badge) domain.BadgeDefinition {
	return domain.BadgeDefinition{
		ID:               m.ID,
		Name:             m.Name,
		Description:      util.NullStringOr(m.Description, ""),
		Icon:             util.NullStringOr(m.Icon, ""),
		Rarity:           domain.Rarity(m.Rarity),
		RequirementType:  domain.RequirementType(m.RequirementType),
		RequirementValue: m.RequirementValue,
	}
}

func (r *BadgeRepository) ListDefinitions(ctx context.Context) ([]domain.BadgeDefinition, error) {
	exec := GetExecutor(ctx, r.db)
	var rows []models.Badge
	query := `SELECT id, name, description, icon, rarity, requirement_type, requirement_value
		FROM badges ORDER BY id`
	if err := exec.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list badge definitions: %w", err)
	}

	defs := make([]domain.BadgeDefinition, 0, len(rows))
	for _, row := range rows {
		defs = append(defs, toDomainBadge(row))
	}
	return defs, nil
}

func (r *BadgeRepository) EarnedBadgeIDs(ctx context.Context, userID string) ([]string, error) {
	exec := GetExecutor(ctx, r.db)
	ids := []string{}
	query := exec.Rebind(`SELECT badge_id FROM user_badges WHERE user_id = ?`)
	if err := exec.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list earned badges for user %s: %w", userID, err)
	}
	return ids, nil
}

// GrantBadge inserts the (user, badge) pair. The primary key on user_badges
// decides who wins concurrent grants: the loser sees granted=false and no error.
func (r *BadgeRepository) GrantBadge(ctx context.Context, userID, badgeID string) (bool, error) {
	exec := GetExecutor(ctx, r.db)

	query := `INSERT INTO user_badges (user_id, badge_id, earned_at) VALUES (?, ?, ?)`
	if r.dialect != database.Oracle {
		query += ` ON CONFLICT (user_id, badge_id) DO NOTHING`
	}

	res, err := exec.ExecContext(ctx, exec.Rebind(query), userID, badgeID, time.Now().UTC())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to grant badge %s to user %s: %w", badgeID, userID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read grant result for badge %s: %w", badgeID, err)
	}
	return affected > 0, nil
}
