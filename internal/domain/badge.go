package domain

import (
	"errors"
	"fmt"
	"time"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
	RarityMythic    Rarity = "mythic"
)

type RequirementType string

const (
	RequirementPoints      RequirementType = "points"
	RequirementLevel       RequirementType = "level"
	RequirementStreak      RequirementType = "streak"
	RequirementTop10       RequirementType = "top_10"
	RequirementTop1        RequirementType = "top_1"
	RequirementFirstLogin  RequirementType = "first_login"
	RequirementPerfectWeek RequirementType = "perfect_week"
)

// PerfectWeekStreak is the streak length a perfect_week badge asks for.
const PerfectWeekStreak = 7

// PointsPerLevel controls Level.
const PointsPerLevel = 100

// BadgeDefinition is managed elsewhere; the engine only reads it.
type BadgeDefinition struct {
	ID               string
	Name             string
	Description      string
	Icon             string
	Rarity           Rarity
	RequirementType  RequirementType
	RequirementValue int
}

type EarnedBadge struct {
	UserID   string
	BadgeID  string
	EarnedAt time.Time
}

// UserMetrics is the gamification row of a user.
type UserMetrics struct {
	UserID              string
	Points              int
	CurrentStreak       int
	FirstLoginCompleted bool
}

// Level is floor(points/100)+1. It is derived on every read and never stored.
func Level(points int) int {
	q := points / PointsPerLevel
	if points < 0 && points%PointsPerLevel != 0 {
		q--
	}
	return q + 1
}

// Standing is what a requirement gets to look at.
// LeaderboardIndex is the zero-based position among the top ten, or -1.
type Standing struct {
	Metrics          UserMetrics
	Level            int
	LeaderboardIndex int
}

func NewStanding(m UserMetrics, topUserIDs []string) Standing {
	idx := -1
	for i, id := range topUserIDs {
		if id == m.UserID {
			idx = i
			break
		}
	}
	return Standing{Metrics: m, Level: Level(m.Points), LeaderboardIndex: idx}
}

func (s Standing) IsTop10() bool { return s.LeaderboardIndex >= 0 && s.LeaderboardIndex < 10 }
func (s Standing) IsTop1() bool  { return s.LeaderboardIndex == 0 }

// Requirement is a closed set: only the types in this file implement it.
type Requirement interface {
	Kind() RequirementType
	Satisfied(s Standing) bool
	sealed()
}

type PointsRequirement struct{ Min int }
type LevelRequirement struct{ Min int }
type StreakRequirement struct{ Min int }
type Top10Requirement struct{}
type Top1Requirement struct{}
type FirstLoginRequirement struct{}
type PerfectWeekRequirement struct{}

func (PointsRequirement) Kind() RequirementType      { return RequirementPoints }
func (LevelRequirement) Kind() RequirementType       { return RequirementLevel }
func (StreakRequirement) Kind() RequirementType      { return RequirementStreak }
func (Top10Requirement) Kind() RequirementType       { return RequirementTop10 }
func (Top1Requirement) Kind() RequirementType        { return RequirementTop1 }
func (FirstLoginRequirement) Kind() RequirementType  { return RequirementFirstLogin }
func (PerfectWeekRequirement) Kind() RequirementType { return RequirementPerfectWeek }

func (r PointsRequirement) Satisfied(s Standing) bool { return s.Metrics.Points >= r.Min }
func (r LevelRequirement) Satisfied(s Standing) bool  { return s.Level >= r.Min }
func (r StreakRequirement) Satisfied(s Standing) bool { return s.Metrics.CurrentStreak >= r.Min }
func (Top10Requirement) Satisfied(s Standing) bool    { return s.IsTop10() }
func (Top1Requirement) Satisfied(s Standing) bool     { return s.IsTop1() }

// A first_login badge is earned while the flag is still unset.
func (FirstLoginRequirement) Satisfied(s Standing) bool { return !s.Metrics.FirstLoginCompleted }

func (PerfectWeekRequirement) Satisfied(s Standing) bool {
	return s.Metrics.CurrentStreak >= PerfectWeekStreak
}

func (PointsRequirement) sealed()      {}
func (LevelRequirement) sealed()       {}
func (StreakRequirement) sealed()      {}
func (Top10Requirement) sealed()       {}
func (Top1Requirement) sealed()        {}
func (FirstLoginRequirement) sealed()  {}
func (PerfectWeekRequirement) sealed() {}

var ErrUnknownRequirement = errors.New("unknown requirement type")

// ParseRequirement turns a stored (type, value) pair into a Requirement.
func ParseRequirement(kind RequirementType, value int) (Requirement, error) {
	switch kind {
	case RequirementPoints:
		return PointsRequirement{Min: value}, nil
	case RequirementLevel:
		return LevelRequirement{Min: value}, nil
	case RequirementStreak:
		return StreakRequirement{Min: value}, nil
	case RequirementTop10:
		return Top10Requirement{}, nil
	case RequirementTop1:
		return Top1Requirement{}, nil
	case RequirementFirstLogin:
		return FirstLoginRequirement{}, nil
	case RequirementPerfectWeek:
		return PerfectWeekRequirement{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequirement, kind)
	}
}

func (b BadgeDefinition) Requirement() (Requirement, error) {
	return ParseRequirement(b.RequirementType, b.RequirementValue)
}

const (
	DefaultBadgeIcon        = "Trophy"
	DefaultBadgeDescription = "Amazing work!"
	EventBadgeUnlocked      = "badge-unlocked"
)

var knownIcons = map[string]struct{}{
	"Trophy": {}, "Flame": {}, "Star": {}, "Zap": {}, "Crown": {},
	"Gem": {}, "Sparkles": {}, "Medal": {}, "Award": {}, "Shield": {},
}

// NormalizeIcon falls back to the trophy for icon keys the UI cannot draw.
func NormalizeIcon(icon string) string {
	if _, ok := knownIcons[icon]; ok {
		return icon
	}
	return DefaultBadgeIcon
}

// BadgeUnlockedEvent is the payload of the ephemeral "badge-unlocked" event.
type BadgeUnlockedEvent struct {
	UserID      string `json:"userId"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Rarity      Rarity `json:"rarity"`
}

func NewBadgeUnlockedEvent(userID string, b BadgeDefinition) BadgeUnlockedEvent {
	description := b.Description
	if description == "" {
		description = DefaultBadgeDescription
	}
	return BadgeUnlockedEvent{
		UserID:      userID,
		ID:          b.ID,
		Name:        b.Name,
		Description: description,
		Icon:        NormalizeIcon(b.Icon),
		Rarity:      b.Rarity,
	}
}

func BadgeUnlockedMessage(badgeName string) string {
	return fmt.Sprintf("You unlocked the \"%s\" badge!", badgeName)
}
