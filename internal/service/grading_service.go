package service

import (
	"context"

	"study-buddy/internal/domain"
	"study-buddy/internal/logger"
	"study-buddy/internal/validation"

	"go.uber.org/zap"
)

// GradingService grades a batch of answers with one model call and matches
// the verdicts back to the questions by id.
type GradingService struct {
	llm domain.TextGenerator
}

func NewGradingService(llm domain.TextGenerator) *GradingService {
	return &GradingService{llm: llm}
}

// Grade returns exactly one result per input, in input order. Questions the
// model skipped are marked incorrect with UngradedFeedback.
func (s *GradingService) Grade(ctx context.Context, inputs []domain.GradingInput) ([]domain.GradedResult, error) {
	if err := validation.ValidateGrading(inputs); err != nil {
		return nil, err
	}

	raw, err := askModel(ctx, s.llm, gradingPrompt(inputs), gradingOptions)
	if err != nil {
		return nil, err
	}

	arr, err := extractArray(raw, "Failed to parse grading results from AI response")
	if err != nil {
		return nil, err
	}

	verdicts, err := validation.GradingVerdicts(arr)
	if err != nil {
		return nil, domain.NewInvalidFormatError("Invalid grading results format", err)
	}

	results := Reconcile(inputs, verdicts)
	logger.Get().Info("Graded quiz",
		zap.Int("questions", len(inputs)),
		zap.Int("verdicts", len(verdicts)))
	return results, nil
}

// Reconcile pairs every input with the verdict for its id.
func Reconcile(inputs []domain.GradingInput, verdicts map[string]domain.GradingVerdict) []domain.GradedResult {
	results := make([]domain.GradedResult, len(inputs))
	for i, q := range inputs {
		v, ok := verdicts[q.QuestionID]
		if !ok {
			v = domain.GradingVerdict{IsCorrect: false, Feedback: domain.UngradedFeedback}
		}
		results[i] = domain.GradedResult{
			QuestionID:    q.QuestionID,
			UserAnswer:    q.UserAnswer,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     v.IsCorrect,
			Feedback:      v.Feedback,
		}
	}
	return results
}
