// @title Study Buddy API
// @version 1.0
// @description AI content generation, grading, study plans and gamification for Study Buddy.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"study-buddy/internal/adapter"
	"study-buddy/internal/adapter/llm"
	"study-buddy/internal/cache"
	"study-buddy/internal/config"
	"study-buddy/internal/database"
	"study-buddy/internal/domain"
	"study-buddy/internal/events"
	"study-buddy/internal/handler"
	"study-buddy/internal/logger"
	"study-buddy/internal/middleware"
	"study-buddy/internal/repository"
	"study-buddy/internal/scheduler"
	"study-buddy/internal/service"
	"study-buddy/internal/trigger"

	_ "study-buddy/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Text model
	generator, err := llm.NewGeneratorFromConfig(ctx, cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	// Database
	dsn := cfg.GetDSN()
	db, err := database.Open(ctx, cfg.DB, dsn)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	gamificationRepo := repository.NewGamificationRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	chatRepo := repository.NewChatRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Events and cache. Redis is optional; without it events stay in process.
	bus := events.NewBus()
	var publisher domain.EventPublisher = bus
	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without cache and cross-instance events", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
			redisBus := adapter.NewRedisEventBus(redisClient, cfg.Redis.EventChannel)
			if err := redisBus.StartForwarder(ctx, bus); err != nil {
				appLogger.Warn("Redis event forwarder failed, publishing locally", zap.Error(err))
			} else {
				publisher = redisBus
				appLogger.Info("Badge events fan out over redis", zap.String("channel", cfg.Redis.EventChannel))
			}
		}
	}

	// Services
	generationService := service.NewGenerationService(generator)
	gradingService := service.NewGradingService(generator)
	studyPlanService := service.NewStudyPlanService(generator)
	chatService := service.NewChatService(generator, chatRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	reminderService := service.NewReminderService(assignmentRepo, notificationRepo)
	leaderboardService := service.NewLeaderboardService(gamificationRepo, cacheAdapter,
		cfg.Badges.LeaderboardTTL, cfg.Badges.LeaderboardSize)
	badgeEngine := service.NewBadgeEngine(gamificationRepo, badgeRepo, leaderboardService,
		notificationService, txManager, publisher)

	// Background triggers
	reminderAt := ""
	if cfg.Reminders.Enabled {
		reminderAt = cfg.Reminders.At
	}
	sched := scheduler.New(badgeEngine, reminderService, scheduler.Options{
		PollInterval: cfg.Badges.PollInterval,
		ReminderAt:   reminderAt,
	})
	if err := sched.Start(); err != nil {
		appLogger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	listenerDone := make(chan struct{})
	if database.DialectOf(db) == database.Postgres {
		listener := trigger.NewListener(dsn, cfg.Badges.ListenChannel, badgeEngine, leaderboardService)
		go func() {
			defer close(listenerDone)
			if err := listener.Run(ctx); err != nil {
				appLogger.Error("Gamification listener stopped", zap.Error(err))
			}
		}()
	} else {
		close(listenerDone)
		appLogger.Info("Push triggers need postgres; relying on the scheduled badge sweep",
			zap.String("driver", cfg.DB.Driver))
	}

	// Handlers
	generationHandler := handler.NewGenerationHandler(generationService, gradingService, studyPlanService, chatService)
	badgeHandler := handler.NewBadgeHandler(badgeEngine, leaderboardService, bus)
	notificationHandler := handler.NewNotificationHandler(notificationService, reminderService)
	checks := map[string]handler.Pinger{"database": handler.PingFunc(db.PingContext)}
	if cacheAdapter != nil {
		checks["redis"] = cacheAdapter
	}
	healthHandler := handler.NewHealthHandler(checks)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", ExposeHeaders: handler.PlanSourceHeader, MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Health)

	// Model-backed routes
	api.Post("/generate/flashcards", generationHandler.GenerateFlashcards)
	api.Post("/generate/quizzes", generationHandler.GenerateQuizzes)
	api.Post("/grade/quiz", generationHandler.GradeQuiz)
	api.Post("/study-plans", generationHandler.CreateStudyPlan)
	api.Post("/ai-chat", generationHandler.Chat)

	// Gamification routes (all protected)
	protected := middleware.Protected(cfg.Auth.JWTSecret)
	badges := api.Group("/badges", protected)
	badges.Post("/evaluate", badgeHandler.Evaluate)
	badges.Get("/standing", badgeHandler.Standing)
	badges.Get("/events", badgeHandler.Events)

	api.Post("/notifications/send", protected, notificationHandler.Send)
	api.Get("/assignments/reminder", middleware.CronSecret(cfg.Auth.CronSecret), notificationHandler.Reminders)

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		serverErr <- app.Listen(":" + strconv.Itoa(cfg.Server.Port))
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			appLogger.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}

	appLogger.Info("Shutting down server...")
	stop()
	badgeHandler.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	<-listenerDone
	appLogger.Info("Server exited gracefully")
}
