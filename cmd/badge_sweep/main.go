// badge_sweep evaluates badges once for every user with gamification metrics.
// Useful after adding badge definitions or when push triggers were down.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"study-buddy/internal/config"
	"study-buddy/internal/database"
	"study-buddy/internal/events"
	"study-buddy/internal/logger"
	"study-buddy/internal/repository"
	"study-buddy/internal/service"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	metrics := repository.NewGamificationRepository(db)
	leaderboard := service.NewLeaderboardService(metrics, nil, 0, cfg.Badges.LeaderboardSize)
	engine := service.NewBadgeEngine(
		metrics,
		repository.NewBadgeRepository(db),
		leaderboard,
		service.NewNotificationService(repository.NewNotificationRepository(db)),
		repository.NewTransactionManagerAdapter(db),
		// No SSE clients live in this process; the inbox row is the record.
		events.NewBus(),
	)

	granted, err := engine.EvaluateAll(ctx)
	if err != nil {
		l.Fatal("Badge sweep failed", zap.Error(err))
	}
	l.Info("Badge sweep completed", zap.Int("granted", granted))
}
