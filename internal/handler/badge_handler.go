package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/events"
	"study-buddy/internal/logger"
	"study-buddy/internal/middleware"
	"study-buddy/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const sseHeartbeat = 15 * time.Second

type BadgeEvaluator interface {
	Evaluate(ctx context.Context, userID string) (*service.EvaluationResult, error)
}

type StandingReader interface {
	Standing(ctx context.Context, userID string) (*dto.StandingResponse, error)
}

// BadgeHandler exposes badge evaluation, standings and the live unlock stream.
type BadgeHandler struct {
	engine   BadgeEvaluator
	standing StandingReader
	bus      *events.Bus

	done      chan struct{}
	closeOnce sync.Once
}

func NewBadgeHandler(engine BadgeEvaluator, standing StandingReader, bus *events.Bus) *BadgeHandler {
	return &BadgeHandler{engine: engine, standing: standing, bus: bus, done: make(chan struct{})}
}

// Close ends every open event stream. Call it before shutting the server down.
func (h *BadgeHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Evaluate godoc
// @Summary Evaluate badges for the caller
// @Description Grants every badge the authenticated user now qualifies for
// @Tags badges
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.EvaluateBadgesResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /badges/evaluate [post]
func (h *BadgeHandler) Evaluate(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	result, err := h.engine.Evaluate(c.UserContext(), userID)
	if err != nil {
		return middleware.RespondError(c, err)
	}
	return c.JSON(dto.EvaluateBadgesResponse{Success: result.Success, NewBadges: result.NewBadges})
}

// Standing godoc
// @Summary Points, level and rank of the caller
// @Tags badges
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.StandingResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /badges/standing [get]
func (h *BadgeHandler) Standing(c *fiber.Ctx) error {
	resp, err := h.standing.Standing(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return middleware.RespondError(c, err)
	}
	return c.JSON(resp)
}

// Events godoc
// @Summary Live badge unlocks
// @Description Server-sent events stream; each unlock arrives as event "badge-unlocked"
// @Tags badges
// @Produce text/event-stream
// @Security ApiKeyAuth
// @Success 200 {object} domain.BadgeUnlockedEvent
// @Failure 401 {object} dto.ErrorResponse
// @Router /badges/events [get]
func (h *BadgeHandler) Events(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	sub := h.bus.Subscribe(userID, events.DefaultBuffer)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer h.bus.Unsubscribe(sub)
		streamEvents(w, sub.C, h.done, sseHeartbeat)
		logger.Get().Debug("Event stream closed", zap.String("user_id", userID))
	})
	return nil
}

// streamEvents copies events to w until the channel closes, done fires or
// the client goes away.
func streamEvents(w *bufio.Writer, ch <-chan domain.BadgeUnlockedEvent, done <-chan struct{}, heartbeat time.Duration) {
	if _, err := w.WriteString(": connected\n\n"); err != nil || w.Flush() != nil {
		return
	}

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, ev); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := w.WriteString(": ping\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}

func writeEvent(w *bufio.Writer, ev domain.BadgeUnlockedEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", domain.EventBadgeUnlocked, payload); err != nil {
		return err
	}
	return w.Flush()
}
