package dto

import "study-buddy/internal/domain"

type EvaluateBadgesResponse struct {
	Success   bool     `json:"success"`
	NewBadges []string `json:"newBadges"`
}

// StandingResponse describes where a user stands. LeaderboardPosition is
// 1-based and omitted outside the top ten.
type StandingResponse struct {
	Points              int              `json:"points"`
	Level               int              `json:"level"`
	Rank                domain.RankTier  `json:"rank"`
	NextRank            *domain.RankTier `json:"nextRank,omitempty"`
	LeaderboardPosition *int             `json:"leaderboardPosition,omitempty"`
}

// @Description Request body for sending a notification
type SendNotificationRequest struct {
	ToUserID string         `json:"toUserId"`
	Message  string         `json:"message"`
	Type     string         `json:"type,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

type ReminderResponse struct {
	Success bool `json:"success"`
	Sent    int  `json:"sent"`
}
