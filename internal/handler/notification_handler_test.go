package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"study-buddy/internal/domain"
	"study-buddy/internal/handler"
	"study-buddy/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupNotificationApp(sender *MockNotificationSender, reminders *MockReminderSender) *fiber.App {
	h := handler.NewNotificationHandler(sender, reminders)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	api := app.Group("/api")
	api.Post("/notifications/send", asUser("u1"), h.Send)
	api.Get("/assignments/reminder", middleware.CronSecret("cron-secret"), h.Reminders)
	return app
}

func TestNotificationHandler_Send(t *testing.T) {
	sender := &MockNotificationSender{
		SendFunc: func(ctx context.Context, toUserID, message, notificationType string, data map[string]any) (*domain.Notification, error) {
			assert.Equal(t, "u2", toUserID)
			assert.Equal(t, "Nice streak!", message)
			assert.Equal(t, "", notificationType)
			assert.Equal(t, "x", data["k"])
			return &domain.Notification{ID: "n1"}, nil
		},
	}
	app := setupNotificationApp(sender, &MockReminderSender{})

	resp, body := postJSON(t, app, "/api/notifications/send", `{"toUserId":"u2","message":"Nice streak!","data":{"k":"x"}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"success": true}, body)
}

func TestNotificationHandler_SendValidation(t *testing.T) {
	sender := &MockNotificationSender{
		SendFunc: func(ctx context.Context, toUserID, message, notificationType string, data map[string]any) (*domain.Notification, error) {
			return nil, domain.NewInvalidInputError("toUserId and message are required")
		},
	}
	app := setupNotificationApp(sender, &MockReminderSender{})

	resp, body := postJSON(t, app, "/api/notifications/send", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "toUserId and message are required", body["error"])
}

func TestNotificationHandler_Reminders(t *testing.T) {
	t.Run("authorized", func(t *testing.T) {
		reminders := &MockReminderSender{
			SendDueRemindersFunc: func(ctx context.Context) (int, error) { return 2, nil },
		}
		app := setupNotificationApp(&MockNotificationSender{}, reminders)

		req := httptest.NewRequest(http.MethodGet, "/api/assignments/reminder", nil)
		req.Header.Set("Authorization", "Bearer cron-secret")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("wrong secret never reaches the service", func(t *testing.T) {
		app := setupNotificationApp(&MockNotificationSender{}, &MockReminderSender{})

		req := httptest.NewRequest(http.MethodGet, "/api/assignments/reminder", nil)
		req.Header.Set("Authorization", "Bearer guess")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("datastore failure", func(t *testing.T) {
		reminders := &MockReminderSender{
			SendDueRemindersFunc: func(ctx context.Context) (int, error) {
				return 0, domain.NewDatastoreError("DB error", errors.New("db down"))
			},
		}
		app := setupNotificationApp(&MockNotificationSender{}, reminders)

		req := httptest.NewRequest(http.MethodGet, "/api/assignments/reminder", nil)
		req.Header.Set("Authorization", "Bearer cron-secret")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func TestHealthHandler(t *testing.T) {
	t.Run("all up", func(t *testing.T) {
		h := handler.NewHealthHandler(map[string]handler.Pinger{"database": stubPinger{}, "redis": nil})
		app := fiber.New()
		app.Get("/health", h.Health)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("degraded", func(t *testing.T) {
		h := handler.NewHealthHandler(map[string]handler.Pinger{
			"database": handler.PingFunc(func(context.Context) error { return errors.New("down") }),
		})
		app := fiber.New()
		app.Get("/health", h.Health)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}
