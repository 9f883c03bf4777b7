// Package trigger turns postgres NOTIFY messages about gamification changes
// into badge evaluations.
package trigger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"study-buddy/internal/logger"
	"study-buddy/internal/service"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const (
	DefaultChannel = "gamification_changed"

	minReconnect = 10 * time.Second
	maxReconnect = time.Minute
	pingInterval = 90 * time.Second
)

type Evaluator interface {
	Evaluate(ctx context.Context, userID string) (*service.EvaluationResult, error)
}

// Invalidator drops cached rankings once points move.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// source is the part of *pq.Listener the loop needs.
type source interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Listener evaluates badges for every user id announced on the channel.
// Each notification is handled on its own goroutine.
type Listener struct {
	src         source
	channel     string
	engine      Evaluator
	invalidator Invalidator
	timeout     time.Duration
	wg          sync.WaitGroup
}

// NewListener opens a dedicated postgres connection for LISTEN.
func NewListener(dsn, channel string, engine Evaluator, invalidator Invalidator) *Listener {
	log := logger.Get()
	l := pq.NewListener(dsn, minReconnect, maxReconnect, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnectionAttemptFailed, pq.ListenerEventDisconnected:
			log.Warn("Gamification listener connection problem", zap.Int("event", int(ev)), zap.Error(err))
		case pq.ListenerEventReconnected:
			log.Info("Gamification listener reconnected")
		}
	})
	return newListener(l, channel, engine, invalidator)
}

func newListener(src source, channel string, engine Evaluator, invalidator Invalidator) *Listener {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Listener{
		src:         src,
		channel:     channel,
		engine:      engine,
		invalidator: invalidator,
		timeout:     30 * time.Second,
	}
}

// Run listens until ctx is done, then waits for in-flight evaluations.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.src.Listen(l.channel); err != nil {
		return fmt.Errorf("could not listen on %s: %w", l.channel, err)
	}
	logger.Get().Info("Listening for gamification changes", zap.String("channel", l.channel))

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer l.wg.Wait()

	notifications := l.src.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			return l.src.Close()
		case n, ok := <-notifications:
			if !ok {
				return nil
			}
			// nil after a reconnect: changes made meanwhile were missed,
			// the scheduled sweep picks them up.
			if n == nil {
				continue
			}
			l.dispatch(ctx, n.Extra)
		case <-ticker.C:
			go func() {
				if err := l.src.Ping(); err != nil {
					logger.Get().Warn("Gamification listener ping failed", zap.Error(err))
				}
			}()
		}
	}
}

func (l *Listener) dispatch(ctx context.Context, payload string) {
	userID := strings.TrimSpace(payload)
	if userID == "" {
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		evalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()

		if l.invalidator != nil {
			l.invalidator.Invalidate(evalCtx)
		}
		res, err := l.engine.Evaluate(evalCtx, userID)
		if err != nil {
			logger.Get().Error("Triggered badge evaluation failed", zap.String("user_id", userID), zap.Error(err))
			return
		}
		if len(res.NewBadges) > 0 {
			logger.Get().Info("Triggered badge evaluation granted badges",
				zap.String("user_id", userID),
				zap.Strings("badges", res.NewBadges))
		}
	}()
}
