package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"study-buddy/internal/cache"
	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultLeaderboardSize = 10

// LeaderboardService ranks users by points. Reads go through the cache
// when one is configured; concurrent misses share one datastore query.
type LeaderboardService struct {
	metrics domain.MetricsRepository
	cache   domain.Cache
	ttl     time.Duration
	size    int
	group   singleflight.Group
}

// NewLeaderboardService accepts a nil cache, in which case every read hits the datastore.
func NewLeaderboardService(metrics domain.MetricsRepository, c domain.Cache, ttl time.Duration, size int) *LeaderboardService {
	if size <= 0 {
		size = DefaultLeaderboardSize
	}
	return &LeaderboardService{metrics: metrics, cache: c, ttl: ttl, size: size}
}

func (s *LeaderboardService) cacheKey() string {
	return cache.GenerateCacheKey("leaderboard", "top", strconv.Itoa(s.size))
}

// TopUserIDs returns up to size user ids, best first.
func (s *LeaderboardService) TopUserIDs(ctx context.Context) ([]string, error) {
	key := s.cacheKey()

	if ids, ok := s.fromCache(ctx, key); ok {
		return ids, nil
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		ids, err := s.metrics.TopUserIDs(ctx, s.size)
		if err != nil {
			return nil, err
		}
		s.toCache(ctx, key, ids)
		return ids, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Leaderboard load shared", zap.String("key", key))
	}

	ids := v.([]string)
	out := make([]string, len(ids))
	copy(out, ids)
	return out, nil
}

func (s *LeaderboardService) fromCache(ctx context.Context, key string) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Leaderboard cache read failed, using datastore", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		logger.Get().Warn("Corrupt leaderboard cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return ids, true
}

func (s *LeaderboardService) toCache(ctx context.Context, key string, ids []string) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(raw), s.ttl); err != nil {
		logger.Get().Warn("Leaderboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops the cached ranking.
func (s *LeaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey()); err != nil {
		logger.Get().Warn("Leaderboard cache invalidation failed", zap.Error(err))
	}
}

// Standing reports points, level, rank tier and leaderboard position. A user
// without a gamification row stands at zero points.
func (s *LeaderboardService) Standing(ctx context.Context, userID string) (*dto.StandingResponse, error) {
	m, err := s.metrics.GetMetrics(ctx, userID)
	if err != nil {
		return nil, domain.NewDatastoreError("Failed to load standing", err)
	}
	if m == nil {
		m = &domain.UserMetrics{UserID: userID}
	}

	top, err := s.TopUserIDs(ctx)
	if err != nil {
		return nil, domain.NewDatastoreError("Failed to load leaderboard", err)
	}

	st := domain.NewStanding(*m, top)
	resp := &dto.StandingResponse{
		Points:   m.Points,
		Level:    st.Level,
		Rank:     domain.RankFor(m.Points),
		NextRank: domain.NextRank(m.Points),
	}
	if st.IsTop10() {
		pos := st.LeaderboardIndex + 1
		resp.LeaderboardPosition = &pos
	}
	return resp, nil
}
