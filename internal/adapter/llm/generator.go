package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// Generator implements domain.TextGenerator on top of any langchaingo model.
type Generator struct {
	model    llms.Model
	timeout  time.Duration
	provider string
}

func NewGenerator(model llms.Model, provider string, timeout time.Duration) *Generator {
	return &Generator{model: model, provider: provider, timeout: timeout}
}

var errEmptyResponse = errors.New("model returned no choices")

// Generate sends the conversation once and returns the text of the first choice.
func (g *Generator) Generate(ctx context.Context, messages []domain.ChatMessage, opts domain.GenerationOptions) (string, error) {
	l := logger.Get()
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages to send")
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		content = append(content, llms.TextParts(messageType(m.Role), m.Content))
	}

	callOpts := []llms.CallOption{llms.WithTemperature(opts.Temperature)}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}

	start := time.Now()
	resp, err := g.model.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.String("provider", g.provider), zap.Duration("timeout", g.timeout))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		l.Error("LLM call failed", zap.String("provider", g.provider), zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", errEmptyResponse
	}

	text := resp.Choices[0].Content
	l.Debug("LLM response received",
		zap.String("provider", g.provider),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("chars", len(text)),
		zap.String("head", head(text, 200)))
	return text, nil
}

func messageType(role domain.ChatRole) schema.ChatMessageType {
	switch role {
	case domain.RoleSystem:
		return schema.ChatMessageTypeSystem
	case domain.RoleModel:
		return schema.ChatMessageTypeAI
	default:
		return schema.ChatMessageTypeHuman
	}
}

func head(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ domain.TextGenerator = (*Generator)(nil)
