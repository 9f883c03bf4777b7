package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"study-buddy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const leaderboardKey = "studybuddy:leaderboard:top:10"

func TestLeaderboard_CacheHit(t *testing.T) {
	repo := new(MockMetricsRepository)
	c := new(MockCache)
	svc := NewLeaderboardService(repo, c, 30*time.Second, 10)

	c.On("Get", mock.Anything, leaderboardKey).Return(`["a","b"]`, nil)

	ids, err := svc.TopUserIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)
	repo.AssertNotCalled(t, "TopUserIDs", mock.Anything, mock.Anything)
}

func TestLeaderboard_CacheMissLoadsAndStores(t *testing.T) {
	repo := new(MockMetricsRepository)
	c := new(MockCache)
	svc := NewLeaderboardService(repo, c, 30*time.Second, 10)

	c.On("Get", mock.Anything, leaderboardKey).Return("", domain.ErrCacheMiss)
	repo.On("TopUserIDs", mock.Anything, 10).Return([]string{"x", "y"}, nil).Once()
	c.On("Set", mock.Anything, leaderboardKey, `["x","y"]`, 30*time.Second).Return(nil).Once()

	ids, err := svc.TopUserIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, ids)
	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestLeaderboard_CacheFailuresFallBackToDatastore(t *testing.T) {
	repo := new(MockMetricsRepository)
	c := new(MockCache)
	svc := NewLeaderboardService(repo, c, time.Minute, 10)

	c.On("Get", mock.Anything, leaderboardKey).Return("", errors.New("redis down"))
	repo.On("TopUserIDs", mock.Anything, 10).Return([]string{"x"}, nil)
	c.On("Set", mock.Anything, leaderboardKey, mock.Anything, time.Minute).Return(errors.New("redis down"))

	ids, err := svc.TopUserIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids)
}

func TestLeaderboard_CorruptEntryIsIgnored(t *testing.T) {
	repo := new(MockMetricsRepository)
	c := new(MockCache)
	svc := NewLeaderboardService(repo, c, time.Minute, 10)

	c.On("Get", mock.Anything, leaderboardKey).Return(`{not json`, nil)
	repo.On("TopUserIDs", mock.Anything, 10).Return([]string{"x"}, nil)
	c.On("Set", mock.Anything, leaderboardKey, `["x"]`, time.Minute).Return(nil)

	ids, err := svc.TopUserIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, ids)
}

func TestLeaderboard_NoCache(t *testing.T) {
	repo := new(MockMetricsRepository)
	svc := NewLeaderboardService(repo, nil, time.Minute, 0)

	repo.On("TopUserIDs", mock.Anything, DefaultLeaderboardSize).Return(nil, errors.New("db down"))

	_, err := svc.TopUserIDs(context.Background())
	assert.Error(t, err)
	assert.NotPanics(t, func() { svc.Invalidate(context.Background()) })
}

func TestLeaderboard_Invalidate(t *testing.T) {
	c := new(MockCache)
	svc := NewLeaderboardService(new(MockMetricsRepository), c, time.Minute, 10)
	c.On("Delete", mock.Anything, leaderboardKey).Return(nil).Once()

	svc.Invalidate(context.Background())
	c.AssertExpectations(t)
}

func TestLeaderboard_Standing(t *testing.T) {
	t.Run("in the top ten", func(t *testing.T) {
		repo := new(MockMetricsRepository)
		svc := NewLeaderboardService(repo, nil, time.Minute, 10)
		repo.On("GetMetrics", mock.Anything, "u2").Return(&domain.UserMetrics{UserID: "u2", Points: 420}, nil)
		repo.On("TopUserIDs", mock.Anything, 10).Return([]string{"u1", "u2"}, nil)

		st, err := svc.Standing(context.Background(), "u2")
		require.NoError(t, err)
		assert.Equal(t, 420, st.Points)
		assert.Equal(t, 5, st.Level)
		assert.Equal(t, "Gold", st.Rank.Name)
		require.NotNil(t, st.NextRank)
		assert.Equal(t, "Platinum", st.NextRank.Name)
		require.NotNil(t, st.LeaderboardPosition)
		assert.Equal(t, 2, *st.LeaderboardPosition)
	})

	t.Run("no metrics row", func(t *testing.T) {
		repo := new(MockMetricsRepository)
		svc := NewLeaderboardService(repo, nil, time.Minute, 10)
		repo.On("GetMetrics", mock.Anything, "new").Return(nil, nil)
		repo.On("TopUserIDs", mock.Anything, 10).Return([]string{"u1"}, nil)

		st, err := svc.Standing(context.Background(), "new")
		require.NoError(t, err)
		assert.Equal(t, 0, st.Points)
		assert.Equal(t, 1, st.Level)
		assert.Equal(t, "Rookie", st.Rank.Name)
		assert.Nil(t, st.LeaderboardPosition)
	})

	t.Run("datastore error", func(t *testing.T) {
		repo := new(MockMetricsRepository)
		svc := NewLeaderboardService(repo, nil, time.Minute, 10)
		repo.On("GetMetrics", mock.Anything, "u1").Return(nil, errors.New("db down"))

		_, err := svc.Standing(context.Background(), "u1")
		assertDomainError(t, err, domain.ErrDatastore, "Failed to load standing")
	})
}
