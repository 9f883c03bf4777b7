package service

import (
	"context"
	"errors"

	"study-buddy/internal/domain"
	"study-buddy/internal/extract"
	"study-buddy/internal/logger"
	"study-buddy/internal/validation"

	"go.uber.org/zap"
)

const msgNoJSONArray = "AI did not return a valid JSON array"

// GenerationService turns a prompt into flashcards or quiz questions with
// exactly one model call.
type GenerationService struct {
	llm domain.TextGenerator
}

func NewGenerationService(llm domain.TextGenerator) *GenerationService {
	return &GenerationService{llm: llm}
}

func (s *GenerationService) GenerateFlashcards(ctx context.Context, req domain.GenerationRequest) ([]domain.Flashcard, error) {
	count, err := validation.ValidateGeneration(req, validation.FlashcardRules)
	if err != nil {
		return nil, err
	}

	raw, err := askModel(ctx, s.llm, flashcardPrompt(count, req.Prompt), flashcardOptions)
	if err != nil {
		return nil, err
	}

	arr, err := extractArray(raw, "Failed to parse flashcards from AI response")
	if err != nil {
		return nil, err
	}

	cards, err := validation.Flashcards(arr)
	if err != nil {
		return nil, recordError(err, "No valid flashcards generated", "")
	}

	logger.Get().Info("Generated flashcards",
		zap.String("deck_id", req.TargetID),
		zap.Int("requested", count),
		zap.Int("returned", len(cards)))
	return cards, nil
}

func (s *GenerationService) GenerateQuiz(ctx context.Context, req domain.GenerationRequest) ([]domain.QuizQuestion, error) {
	count, err := validation.ValidateGeneration(req, validation.QuizRules)
	if err != nil {
		return nil, err
	}

	raw, err := askModel(ctx, s.llm, quizPrompt(count, req.Prompt), quizOptions)
	if err != nil {
		return nil, err
	}

	arr, err := extractArray(raw, "Failed to parse quiz questions from AI response")
	if err != nil {
		return nil, err
	}

	questions, err := validation.QuizQuestions(arr)
	if err != nil {
		return nil, recordError(err, "No valid questions generated", "No valid questions after filtering")
	}

	logger.Get().Info("Generated quiz questions",
		zap.String("quiz_id", req.TargetID),
		zap.Int("requested", count),
		zap.Int("returned", len(questions)))
	return questions, nil
}

// askModel sends a single user turn. Any failure is reported as the
// generic LLM service error.
func askModel(ctx context.Context, llm domain.TextGenerator, prompt string, opts domain.GenerationOptions) (string, error) {
	raw, err := llm.Generate(ctx, []domain.ChatMessage{{Role: domain.RoleUser, Content: prompt}}, opts)
	if err != nil {
		return "", domain.NewLLMServiceError(err)
	}
	return raw, nil
}

func extractArray(raw, parseFailedMsg string) ([]any, error) {
	arr, err := extract.Array(raw)
	if err == nil {
		return arr, nil
	}

	var exErr *extract.Error
	if errors.As(err, &exErr) {
		logger.Get().Warn("Could not extract JSON array from model output",
			zap.String("reason", string(exErr.Reason)),
			zap.String("snippet", exErr.RawSnippet))
		if exErr.Reason == extract.ReasonNoArray {
			return nil, domain.NewExtractionError(msgNoJSONArray, err)
		}
	}
	return nil, domain.NewExtractionError(parseFailedMsg, err)
}

// recordError maps validation failures onto caller messages. An empty
// filteredMsg means filtering cannot happen for this record type.
func recordError(err error, emptyMsg, filteredMsg string) error {
	var recErr *validation.RecordError
	if errors.As(err, &recErr) && recErr.Reason == validation.ReasonAllFiltered && filteredMsg != "" {
		return domain.NewNoValidRecordsError(filteredMsg, err)
	}
	return domain.NewNoValidRecordsError(emptyMsg, err)
}
