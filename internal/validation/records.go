package validation

import (
	"fmt"
	"strconv"
	"strings"

	"study-buddy/internal/domain"
)

type RecordReason string

const (
	ReasonNotAnArray  RecordReason = "not-an-array"
	ReasonEmpty       RecordReason = "empty"
	ReasonAllFiltered RecordReason = "all-filtered"
)

// RecordError explains why a parsed model reply produced no usable records.
type RecordError struct {
	Reason RecordReason
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("validation: %s", e.Reason)
}

func nonEmptyArray(raw any) ([]any, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, &RecordError{Reason: ReasonNotAnArray}
	}
	if len(arr) == 0 {
		return nil, &RecordError{Reason: ReasonEmpty}
	}
	return arr, nil
}

func field(el any, name string) any {
	m, ok := el.(map[string]any)
	if !ok {
		return nil
	}
	return m[name]
}

func trimmed(v any) string {
	return strings.TrimSpace(ToString(v))
}

// Flashcards maps every element to a trimmed front/back pair. Nothing is
// dropped: blank sides survive as empty strings.
func Flashcards(raw any) ([]domain.Flashcard, error) {
	arr, err := nonEmptyArray(raw)
	if err != nil {
		return nil, err
	}
	cards := make([]domain.Flashcard, 0, len(arr))
	for _, el := range arr {
		cards = append(cards, domain.Flashcard{
			Front: trimmed(field(el, "front")),
			Back:  trimmed(field(el, "back")),
		})
	}
	return cards, nil
}

// QuizQuestions drops elements missing a question or a correct_answer and
// trims the survivors.
func QuizQuestions(raw any) ([]domain.QuizQuestion, error) {
	arr, err := nonEmptyArray(raw)
	if err != nil {
		return nil, err
	}
	questions := make([]domain.QuizQuestion, 0, len(arr))
	for _, el := range arr {
		q, a := field(el, "question"), field(el, "correct_answer")
		if !Truthy(q) || !Truthy(a) {
			continue
		}
		questions = append(questions, domain.QuizQuestion{
			Question:      trimmed(q),
			CorrectAnswer: trimmed(a),
		})
	}
	if len(questions) == 0 {
		return nil, &RecordError{Reason: ReasonAllFiltered}
	}
	return questions, nil
}

// GradingVerdicts indexes the model's verdicts by question id. An empty
// array is fine; when an id repeats the first verdict wins.
func GradingVerdicts(raw any) (map[string]domain.GradingVerdict, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, &RecordError{Reason: ReasonNotAnArray}
	}
	verdicts := make(map[string]domain.GradingVerdict, len(arr))
	for _, el := range arr {
		id := field(el, "questionId")
		if id == nil {
			continue
		}
		key := ToString(id)
		if _, seen := verdicts[key]; seen {
			continue
		}
		feedback := domain.UngradedFeedback
		if fb := field(el, "feedback"); fb != nil {
			feedback = ToString(fb)
		}
		verdicts[key] = domain.GradingVerdict{
			IsCorrect: isCorrect(field(el, "isCorrect")),
			Feedback:  feedback,
		}
	}
	return verdicts, nil
}

func isCorrect(v any) bool {
	if s, ok := v.(string); ok {
		return strings.EqualFold(strings.TrimSpace(s), "true")
	}
	return Truthy(v)
}

// StudyPlan coerces a parsed plan object. Header fields the model left out
// are taken from fallback; a plan without a usable schedule is rejected so
// the caller can serve fallback instead.
func StudyPlan(raw map[string]any, fallback domain.StudyPlan) (*domain.StudyPlan, error) {
	days, err := nonEmptyArray(raw["schedule"])
	if err != nil {
		return nil, err
	}

	plan := &domain.StudyPlan{
		Title:         stringOr(raw["title"], fallback.Title),
		Duration:      stringOr(raw["duration"], fallback.Duration),
		DailyHours:    stringOr(raw["dailyHours"], fallback.DailyHours),
		TotalSessions: fallback.TotalSessions,
	}
	if n, ok := wholeNumber(raw["totalSessions"]); ok && n > 0 {
		plan.TotalSessions = n
	}

	for i, el := range days {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		day := domain.StudyPlanDay{
			Day:          i + 1,
			Date:         trimmed(m["date"]),
			Focus:        trimmed(m["focus"]),
			Tasks:        tasks(m["tasks"]),
			TimeEstimate: trimmed(m["timeEstimate"]),
			Motivation:   trimmed(m["motivation"]),
		}
		if n, ok := wholeNumber(m["day"]); ok && n >= 1 {
			day.Day = n
		}
		plan.Schedule = append(plan.Schedule, day)
	}
	if len(plan.Schedule) == 0 {
		return nil, &RecordError{Reason: ReasonAllFiltered}
	}
	return plan, nil
}

func stringOr(v any, def string) string {
	if s := trimmed(v); s != "" {
		return s
	}
	return def
}

func wholeNumber(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		return n, err == nil
	default:
		return 0, false
	}
}

func tasks(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, el := range t {
			if s := trimmed(el); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if s := strings.TrimSpace(t); s != "" {
			return []string{s}
		}
	}
	return []string{}
}
