package main

import (
	"context"
	"flag"
	"log"

	"study-buddy/internal/config"
	"study-buddy/internal/database"
	"study-buddy/internal/logger"

	"go.uber.org/zap"
)

func main() {
	direction := flag.String("direction", string(database.Up), "migration direction: up or down")
	flag.Parse()

	dir := database.Direction(*direction)
	if dir != database.Up && dir != database.Down {
		log.Fatalf("Unknown migration direction %q, want up or down", *direction)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	l := logger.Get()
	defer logger.Sync()

	db, err := database.Open(context.Background(), cfg.DB, cfg.GetDSN())
	if err != nil {
		l.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, dir); err != nil {
		l.Fatal("Failed to run migrations", zap.Error(err))
	}
}
