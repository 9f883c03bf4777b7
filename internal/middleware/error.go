package middleware

import (
	"errors"
	"net/http"

	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatusFor maps a domain error code to its HTTP status.
func StatusFor(code domain.ErrorCode) int {
	switch code {
	case domain.ErrInvalidInput, domain.ErrNoValidRecords, domain.ErrInvalidFormat:
		return http.StatusBadRequest
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as {"error": message} with the matching status.
// Handlers call it directly; ErrorHandler uses it for anything they return.
func RespondError(c *fiber.Ctx, err error) error {
	log := logger.Get()

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := StatusFor(domainErr.Code)
		fields := []zap.Field{
			zap.String("path", c.Path()),
			zap.String("code", string(domainErr.Code)),
			zap.Int("status", status),
			zap.Error(domainErr.Err),
		}
		if status >= http.StatusInternalServerError {
			log.Error(domainErr.Message, fields...)
		} else {
			log.Warn(domainErr.Message, fields...)
		}
		return c.Status(status).JSON(dto.ErrorResponse{Error: domainErr.Message})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		log.Warn("Fiber error occurred",
			zap.Int("code", fiberErr.Code),
			zap.String("message", fiberErr.Message),
		)
		return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{Error: fiberErr.Message})
	}

	log.Error("Unknown error occurred",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
}

// ErrorHandler is the fiber-level catch-all.
func ErrorHandler() fiber.ErrorHandler {
	return RespondError
}
