package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/events"
	"study-buddy/internal/handler"
	"study-buddy/internal/middleware"
	"study-buddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asUser(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, userID)
		return c.Next()
	}
}

func setupBadgeApp(engine *MockBadgeEvaluator, standing *MockStandingReader) *fiber.App {
	h := handler.NewBadgeHandler(engine, standing, events.NewBus())
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	badges := app.Group("/api/badges", asUser("u1"))
	badges.Post("/evaluate", h.Evaluate)
	badges.Get("/standing", h.Standing)
	return app
}

func TestBadgeHandler_Evaluate(t *testing.T) {
	engine := &MockBadgeEvaluator{
		EvaluateFunc: func(ctx context.Context, userID string) (*service.EvaluationResult, error) {
			assert.Equal(t, "u1", userID)
			return &service.EvaluationResult{Success: true, NewBadges: []string{"Century"}}, nil
		},
	}
	app := setupBadgeApp(engine, &MockStandingReader{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/badges/evaluate", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.EvaluateBadgesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.Equal(t, []string{"Century"}, body.NewBadges)
}

func TestBadgeHandler_EvaluateDatastoreError(t *testing.T) {
	engine := &MockBadgeEvaluator{
		EvaluateFunc: func(ctx context.Context, userID string) (*service.EvaluationResult, error) {
			return nil, domain.NewDatastoreError("Failed to load badge state", errors.New("db down"))
		},
	}
	app := setupBadgeApp(engine, &MockStandingReader{})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/badges/evaluate", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Failed to load badge state", body.Error)
}

func TestBadgeHandler_Standing(t *testing.T) {
	pos := 3
	standing := &MockStandingReader{
		StandingFunc: func(ctx context.Context, userID string) (*dto.StandingResponse, error) {
			assert.Equal(t, "u1", userID)
			return &dto.StandingResponse{
				Points:              420,
				Level:               5,
				Rank:                domain.RankFor(420),
				NextRank:            domain.NextRank(420),
				LeaderboardPosition: &pos,
			}, nil
		},
	}
	app := setupBadgeApp(&MockBadgeEvaluator{}, standing)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/badges/standing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.StandingResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 420, body.Points)
	assert.Equal(t, "Gold", body.Rank.Name)
	require.NotNil(t, body.NextRank)
	assert.Equal(t, "Platinum", body.NextRank.Name)
	require.NotNil(t, body.LeaderboardPosition)
	assert.Equal(t, 3, *body.LeaderboardPosition)
}
