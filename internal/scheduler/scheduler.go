package scheduler

import (
	"context"
	"fmt"
	"time"

	"study-buddy/internal/logger"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

const (
	TagBadgeSweep = "badge-sweep"
	TagReminders  = "assignment-reminders"
)

// BadgeSweeper re-evaluates every user with gamification metrics.
type BadgeSweeper interface {
	EvaluateAll(ctx context.Context) (int, error)
}

type ReminderSender interface {
	SendDueReminders(ctx context.Context) (int, error)
}

// Options controls which jobs run. A zero PollInterval disables the sweep
// and an empty ReminderAt disables reminders.
type Options struct {
	PollInterval time.Duration
	ReminderAt   string
	JobTimeout   time.Duration
}

// Scheduler runs the periodic badge sweep and the daily reminder job.
type Scheduler struct {
	scheduler *gocron.Scheduler
	badges    BadgeSweeper
	reminders ReminderSender
	opts      Options

	ctx    context.Context
	cancel context.CancelFunc
}

func New(badges BadgeSweeper, reminders ReminderSender, opts Options) *Scheduler {
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 5 * time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		badges:    badges,
		reminders: reminders,
		opts:      opts,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Register adds the configured jobs without starting them.
func (s *Scheduler) Register() error {
	if s.badges != nil && s.opts.PollInterval > 0 {
		// SingletonMode keeps a slow sweep from overlapping the next tick.
		_, err := s.scheduler.Every(s.opts.PollInterval).
			Tag(TagBadgeSweep).
			SingletonMode().
			Do(s.runBadgeSweep)
		if err != nil {
			return fmt.Errorf("could not schedule badge sweep: %w", err)
		}
	}

	if s.reminders != nil && s.opts.ReminderAt != "" {
		_, err := s.scheduler.Every(1).Day().At(s.opts.ReminderAt).
			Tag(TagReminders).
			SingletonMode().
			Do(s.runReminders)
		if err != nil {
			return fmt.Errorf("could not schedule reminders at %q: %w", s.opts.ReminderAt, err)
		}
	}
	return nil
}

// Start registers the jobs and runs them in the background.
func (s *Scheduler) Start() error {
	if err := s.Register(); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	logger.Get().Info("Scheduler started",
		zap.Duration("badge_poll_interval", s.opts.PollInterval),
		zap.String("reminders_at", s.opts.ReminderAt),
		zap.Int("jobs", len(s.scheduler.Jobs())))
	return nil
}

// Stop cancels running jobs and stops the scheduler.
func (s *Scheduler) Stop() {
	s.cancel()
	s.scheduler.Stop()
}

func (s *Scheduler) runBadgeSweep() {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.JobTimeout)
	defer cancel()

	start := time.Now()
	granted, err := s.badges.EvaluateAll(ctx)
	if err != nil {
		logger.Get().Error("Badge sweep failed", zap.Error(err))
		return
	}
	logger.Get().Debug("Badge sweep finished", zap.Int("granted", granted), zap.Duration("took", time.Since(start)))
}

func (s *Scheduler) runReminders() {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.JobTimeout)
	defer cancel()

	sent, err := s.reminders.SendDueReminders(ctx)
	if err != nil {
		logger.Get().Error("Assignment reminders failed", zap.Error(err))
		return
	}
	logger.Get().Info("Assignment reminders job finished", zap.Int("sent", sent))
}
