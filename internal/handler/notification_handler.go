package handler

import (
	"context"

	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type NotificationSender interface {
	Send(ctx context.Context, toUserID, message, notificationType string, data map[string]any) (*domain.Notification, error)
}

type ReminderSender interface {
	SendDueReminders(ctx context.Context) (int, error)
}

type NotificationHandler struct {
	notifications NotificationSender
	reminders     ReminderSender
}

func NewNotificationHandler(notifications NotificationSender, reminders ReminderSender) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, reminders: reminders}
}

// Send godoc
// @Summary Send a notification
// @Description Stores an inbox notification for toUserId. type defaults to "general".
// @Tags notifications
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.SendNotificationRequest true "Notification"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /notifications/send [post]
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var req dto.SendNotificationRequest
	if !parseBody(c, &req) {
		req = dto.SendNotificationRequest{}
	}

	if _, err := h.notifications.Send(c.UserContext(), req.ToUserID, req.Message, req.Type, req.Data); err != nil {
		return middleware.RespondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Reminders godoc
// @Summary Send assignment reminders
// @Description Notifies owners of incomplete assignments due today or tomorrow. Requires the cron secret as bearer token.
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.ReminderResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /assignments/reminder [get]
func (h *NotificationHandler) Reminders(c *fiber.Ctx) error {
	sent, err := h.reminders.SendDueReminders(c.UserContext())
	if err != nil {
		return middleware.RespondError(c, err)
	}
	return c.JSON(dto.ReminderResponse{Success: true, Sent: sent})
}
