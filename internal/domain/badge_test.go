package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		points int
		want   int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{250, 3},
		{1999, 20},
		{-1, 0},
		{-100, 0},
		{-101, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.points), "points=%d", tt.points)
	}
}

func TestNewStanding(t *testing.T) {
	m := UserMetrics{UserID: "u3", Points: 250}
	s := NewStanding(m, []string{"u1", "u2", "u3"})
	assert.Equal(t, 2, s.LeaderboardIndex)
	assert.Equal(t, 3, s.Level)
	assert.True(t, s.IsTop10())
	assert.False(t, s.IsTop1())

	first := NewStanding(UserMetrics{UserID: "u1"}, []string{"u1"})
	assert.True(t, first.IsTop1())
	assert.True(t, first.IsTop10())

	outside := NewStanding(m, []string{"a", "b"})
	assert.Equal(t, -1, outside.LeaderboardIndex)
	assert.False(t, outside.IsTop10())
	assert.False(t, outside.IsTop1())
}

func TestRequirements_Satisfied(t *testing.T) {
	standing := NewStanding(UserMetrics{UserID: "u1", Points: 250, CurrentStreak: 7}, []string{"u0", "u1"})

	tests := []struct {
		name     string
		kind     RequirementType
		value    int
		standing Standing
		want     bool
	}{
		{"points reached", RequirementPoints, 200, standing, true},
		{"points exact", RequirementPoints, 250, standing, true},
		{"points not reached", RequirementPoints, 300, standing, false},
		{"level reached", RequirementLevel, 3, standing, true},
		{"level not reached", RequirementLevel, 4, standing, false},
		{"streak reached", RequirementStreak, 5, standing, true},
		{"streak not reached", RequirementStreak, 10, standing, false},
		{"top 10", RequirementTop10, 0, standing, true},
		{"top 1 second place", RequirementTop1, 0, standing, false},
		{"first login pending", RequirementFirstLogin, 0, standing, true},
		{"first login done", RequirementFirstLogin, 0, Standing{Metrics: UserMetrics{FirstLoginCompleted: true}, LeaderboardIndex: -1}, false},
		{"perfect week", RequirementPerfectWeek, 0, standing, true},
		{"perfect week ignores value", RequirementPerfectWeek, 30, standing, true},
		{"perfect week short streak", RequirementPerfectWeek, 0, Standing{Metrics: UserMetrics{CurrentStreak: 6}, LeaderboardIndex: -1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequirement(tt.kind, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, req.Kind())
			assert.Equal(t, tt.want, req.Satisfied(tt.standing))
		})
	}
}

func TestParseRequirement_Unknown(t *testing.T) {
	req, err := ParseRequirement("quiz_master", 3)
	assert.Nil(t, req)
	assert.True(t, errors.Is(err, ErrUnknownRequirement))
}

func TestNewBadgeUnlockedEvent(t *testing.T) {
	ev := NewBadgeUnlockedEvent("u1", BadgeDefinition{ID: "b1", Name: "Scholar", Icon: "Rocket", Rarity: RarityEpic})
	assert.Equal(t, "u1", ev.UserID)
	assert.Equal(t, "b1", ev.ID)
	assert.Equal(t, "Trophy", ev.Icon)
	assert.Equal(t, DefaultBadgeDescription, ev.Description)
	assert.Equal(t, RarityEpic, ev.Rarity)

	ev = NewBadgeUnlockedEvent("u1", BadgeDefinition{ID: "b2", Name: "Hot", Description: "7 days", Icon: "Flame"})
	assert.Equal(t, "Flame", ev.Icon)
	assert.Equal(t, "7 days", ev.Description)
}

func TestBadgeUnlockedMessage(t *testing.T) {
	assert.Equal(t, `You unlocked the "Week Warrior" badge!`, BadgeUnlockedMessage("Week Warrior"))
}
