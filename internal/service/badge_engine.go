package service

import (
	"context"
	"fmt"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LeaderboardReader supplies the current top user ids, best first.
type LeaderboardReader interface {
	TopUserIDs(ctx context.Context) ([]string, error)
}

// BadgeNotifier writes the durable announcement of a grant.
type BadgeNotifier interface {
	BadgeUnlocked(ctx context.Context, userID string, badge domain.BadgeDefinition) error
}

// EvaluationResult lists the names of badges this call actually granted.
type EvaluationResult struct {
	Success   bool     `json:"success"`
	NewBadges []string `json:"newBadges"`
}

// BadgeEngine awards badges whose requirement a user now meets. It holds no
// lock: overlapping evaluations of the same user are expected, and the
// unique (user_id, badge_id) key decides which one grants.
type BadgeEngine struct {
	metrics     domain.MetricsRepository
	badges      domain.BadgeRepository
	leaderboard LeaderboardReader
	notifier    BadgeNotifier
	tx          domain.TransactionManager
	events      domain.EventPublisher
}

// NewBadgeEngine wires the engine. tx and events may be nil.
func NewBadgeEngine(
	metrics domain.MetricsRepository,
	badges domain.BadgeRepository,
	leaderboard LeaderboardReader,
	notifier BadgeNotifier,
	tx domain.TransactionManager,
	events domain.EventPublisher,
) *BadgeEngine {
	return &BadgeEngine{
		metrics:     metrics,
		badges:      badges,
		leaderboard: leaderboard,
		notifier:    notifier,
		tx:          tx,
		events:      events,
	}
}

// Evaluate checks every badge userID has not earned yet. A failure while
// granting one badge is logged and the loop moves on to the next.
func (e *BadgeEngine) Evaluate(ctx context.Context, userID string) (*EvaluationResult, error) {
	log := logger.Get().With(zap.String("user_id", userID))

	metrics, err := e.metrics.GetMetrics(ctx, userID)
	if err != nil {
		return nil, domain.NewDatastoreError("Failed to load gamification metrics", err)
	}
	if metrics == nil {
		log.Debug("No gamification metrics yet, nothing to evaluate")
		return &EvaluationResult{Success: true, NewBadges: []string{}}, nil
	}

	var (
		top    []string
		defs   []domain.BadgeDefinition
		earned []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		top, err = e.leaderboard.TopUserIDs(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		defs, err = e.badges.ListDefinitions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		earned, err = e.badges.EarnedBadgeIDs(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.NewDatastoreError("Failed to load badge state", err)
	}

	standing := domain.NewStanding(*metrics, top)
	have := make(map[string]struct{}, len(earned))
	for _, id := range earned {
		have[id] = struct{}{}
	}

	result := &EvaluationResult{Success: true, NewBadges: []string{}}
	for _, def := range defs {
		if _, ok := have[def.ID]; ok {
			continue
		}

		req, err := def.Requirement()
		if err != nil {
			log.Warn("Skipping badge with unknown requirement",
				zap.String("badge_id", def.ID),
				zap.String("requirement_type", string(def.RequirementType)))
			continue
		}
		if !req.Satisfied(standing) {
			continue
		}

		granted, err := e.grant(ctx, userID, def)
		if err != nil {
			log.Error("Failed to award badge", zap.String("badge_id", def.ID), zap.Error(err))
			continue
		}
		if !granted {
			log.Debug("Badge already granted by a concurrent evaluation", zap.String("badge_id", def.ID))
			continue
		}

		result.NewBadges = append(result.NewBadges, def.Name)
		if e.events != nil {
			e.events.Publish(ctx, domain.NewBadgeUnlockedEvent(userID, def))
		}
		log.Info("Badge unlocked", zap.String("badge_id", def.ID), zap.String("badge", def.Name))
	}
	return result, nil
}

// grant inserts the pair and, only when this call inserted it, applies the
// follow-ups. All writes share one transaction so a failed follow-up leaves
// the badge unearned for the next trigger to retry.
func (e *BadgeEngine) grant(ctx context.Context, userID string, def domain.BadgeDefinition) (bool, error) {
	var granted bool
	err := e.inTx(ctx, func(txCtx context.Context) error {
		ok, err := e.badges.GrantBadge(txCtx, userID, def.ID)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		if def.RequirementType == domain.RequirementFirstLogin {
			if err := e.metrics.MarkFirstLoginCompleted(txCtx, userID); err != nil {
				return fmt.Errorf("mark first login: %w", err)
			}
		}
		if e.notifier != nil {
			if err := e.notifier.BadgeUnlocked(txCtx, userID, def); err != nil {
				return fmt.Errorf("notify: %w", err)
			}
		}
		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}

func (e *BadgeEngine) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if e.tx == nil {
		return fn(ctx)
	}
	return e.tx.WithTransaction(ctx, fn)
}

// EvaluateAll runs Evaluate for every user with a metrics row and returns
// how many badges were granted. Per-user failures are logged and skipped.
func (e *BadgeEngine) EvaluateAll(ctx context.Context) (int, error) {
	ids, err := e.metrics.ListUserIDs(ctx)
	if err != nil {
		return 0, domain.NewDatastoreError("Failed to list users", err)
	}

	total := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		res, err := e.Evaluate(ctx, id)
		if err != nil {
			logger.Get().Error("Badge evaluation failed", zap.String("user_id", id), zap.Error(err))
			continue
		}
		total += len(res.NewBadges)
	}
	return total, nil
}
