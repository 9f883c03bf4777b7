package middleware

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"study-buddy/internal/dto"
	"study-buddy/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
)

var errMissingSubject = errors.New("token has no subject")

// bearerToken returns the token after "Bearer ", or "" when there is none.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(AuthorizationHeader)
	if !strings.HasPrefix(header, BearerSchema) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerSchema))
}

// ParseUserID validates an HS256 token issued by the auth service and
// returns its subject.
func ParseUserID(tokenString string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", errMissingSubject
	}
	return claims.Subject, nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
}

// Protected requires a valid bearer JWT and stores its subject under UserIDKey.
func Protected(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return unauthorized(c)
		}

		userID, err := ParseUserID(tokenString, key)
		if err != nil {
			logger.Get().Debug("JWT validation failed", zap.String("path", c.Path()), zap.Error(err))
			return unauthorized(c)
		}

		c.Locals(UserIDKey, userID)
		return c.Next()
	}
}

// CronSecret guards scheduler-facing routes with a shared bearer secret.
// An empty secret rejects every request.
func CronSecret(secret string) fiber.Handler {
	want := []byte(secret)
	return func(c *fiber.Ctx) error {
		got := []byte(bearerToken(c))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			logger.Get().Warn("Rejected cron request", zap.String("path", c.Path()), zap.String("ip", c.IP()))
			return unauthorized(c)
		}
		return c.Next()
	}
}

// UserID reads what Protected stored.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}
