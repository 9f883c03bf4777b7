package validation

import (
	"strings"

	"study-buddy/internal/domain"
)

// GenerationRules holds the per content type messages and count bounds.
// The checks run in a fixed order and callers match on the messages.
type GenerationRules struct {
	TargetRequired string
	CountRequired  string
	CountRange     string
	MinCount       int
	MaxCount       int
}

var FlashcardRules = GenerationRules{
	TargetRequired: "Deck ID is required",
	CountRequired:  "Number of cards is required",
	CountRange:     "Number of cards must be between 5 and 50",
	MinCount:       5,
	MaxCount:       50,
}

var QuizRules = GenerationRules{
	TargetRequired: "Quiz ID is required",
	CountRequired:  "Number of questions is required",
	CountRange:     "Number of questions must be between 5 and 30",
	MinCount:       5,
	MaxCount:       30,
}

const (
	MsgPromptRequired    = "Prompt is required"
	MsgUserRequired      = "User ID is required"
	MsgQuestionsRequired = "Questions are required"
	MsgCourseRequired    = "Course name is required"
	MsgChatRequired      = "Message and chatId required"
)

// ValidateGeneration checks prompt, target, owner and count in that order
// and returns the parsed count.
func ValidateGeneration(req domain.GenerationRequest, rules GenerationRules) (int, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return 0, domain.NewInvalidInputError(MsgPromptRequired)
	}
	if req.TargetID == "" {
		return 0, domain.NewInvalidInputError(rules.TargetRequired)
	}
	if req.OwnerID == "" {
		return 0, domain.NewInvalidInputError(MsgUserRequired)
	}
	if !Truthy(req.Count) {
		return 0, domain.NewInvalidInputError(rules.CountRequired)
	}
	n, ok := ParseCount(req.Count)
	if !ok || n < rules.MinCount || n > rules.MaxCount {
		return 0, domain.NewInvalidInputError(rules.CountRange)
	}
	return n, nil
}

func ValidateGrading(inputs []domain.GradingInput) error {
	if len(inputs) == 0 {
		return domain.NewInvalidInputError(MsgQuestionsRequired)
	}
	return nil
}

func ValidateStudyPlan(req domain.StudyPlanRequest) error {
	if strings.TrimSpace(req.Course) == "" {
		return domain.NewInvalidInputError(MsgCourseRequired)
	}
	return nil
}

func ValidateChat(message, chatID string) error {
	if strings.TrimSpace(message) == "" || chatID == "" {
		return domain.NewInvalidInputError(MsgChatRequired)
	}
	return nil
}

// IDString turns an id field that may arrive as a string or a number into a
// string, treating falsy values as absent.
func IDString(v any) string {
	if !Truthy(v) {
		return ""
	}
	return ToString(v)
}
