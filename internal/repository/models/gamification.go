package models

import (
	"database/sql"
	"time"
)

// Gamification maps a row of the gamification table.
type Gamification struct {
	UserID              string `db:"user_id"`
	Points              int    `db:"points"`
	CurrentStreak       int    `db:"current_streak"`
	FirstLoginCompleted bool   `db:"first_login_completed"`
}

// Badge maps a row of the badges table.
type Badge struct {
	ID               string         `db:"id"`
	Name             string         `db:"name"`
	Description      sql.NullString `db:"description"`
	Icon             sql.NullString `db:"icon"`
	Rarity           string         `db:"rarity"`
	RequirementType  string         `db:"requirement_type"`
	RequirementValue int            `db:"requirement_value"`
}

// UserBadge maps a row of the user_badges table.
type UserBadge struct {
	UserID   string    `db:"user_id"`
	BadgeID  string    `db:"badge_id"`
	EarnedAt time.Time `db:"earned_at"`
}
