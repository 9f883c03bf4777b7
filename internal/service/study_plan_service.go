package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"study-buddy/internal/domain"
	"study-buddy/internal/extract"
	"study-buddy/internal/logger"
	"study-buddy/internal/validation"

	"go.uber.org/zap"
)

type PlanSource string

const (
	PlanFromModel    PlanSource = "model"
	PlanFromFallback PlanSource = "fallback"
)

const (
	defaultPlanDays    = 14
	defaultHoursPerDay = "3"
	defaultGoal        = "exam"
	fallbackFocus      = "Study Session"
	fallbackMotivation = "Keep going, you're building momentum!"
)

var fallbackTasks = []string{"Review material", "Practice problems", "Take notes"}

// StudyPlanResult tells the caller whether the plan came from the model.
type StudyPlanResult struct {
	Plan   *domain.StudyPlan
	Source PlanSource
}

type StudyPlanService struct {
	llm domain.TextGenerator
	now func() time.Time
}

func NewStudyPlanService(llm domain.TextGenerator) *StudyPlanService {
	return &StudyPlanService{llm: llm, now: time.Now}
}

// NewStudyPlanRequest applies the defaults for fields the client left out.
// nil means absent; an explicit empty string is kept.
func NewStudyPlanRequest(course, examDate string, hoursPerDay, topics, goal any) domain.StudyPlanRequest {
	req := domain.StudyPlanRequest{
		Course:      course,
		ExamDate:    examDate,
		HoursPerDay: defaultHoursPerDay,
		Goal:        defaultGoal,
	}
	if hoursPerDay != nil {
		req.HoursPerDay = validation.ToString(hoursPerDay)
	}
	if topics != nil {
		req.Topics = validation.ToString(topics)
	}
	if goal != nil {
		req.Goal = validation.ToString(goal)
	}
	return req
}

// Generate never fails once the course is present: when the model errors or
// its reply cannot be used, a deterministic plan of the same length is served.
func (s *StudyPlanService) Generate(ctx context.Context, req domain.StudyPlanRequest) (*StudyPlanResult, error) {
	if err := validation.ValidateStudyPlan(req); err != nil {
		return nil, err
	}

	now := s.now()
	days, hasExamDate := PlanDays(req.ExamDate, now)
	fallback := FallbackPlan(req, days, now)
	log := logger.Get().With(zap.String("course", req.Course), zap.Int("days", days))

	raw, err := s.llm.Generate(ctx, []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: studyPlanSystemInstruction},
		{Role: domain.RoleUser, Content: studyPlanPrompt(req, days, hasExamDate)},
	}, studyPlanOptions)
	if err != nil {
		log.Warn("Study plan model call failed, serving fallback plan", zap.Error(err))
		return &StudyPlanResult{Plan: fallback, Source: PlanFromFallback}, nil
	}

	obj, err := extract.Object(raw)
	if err != nil {
		log.Warn("Study plan reply was not JSON, serving fallback plan", zap.Error(err))
		return &StudyPlanResult{Plan: fallback, Source: PlanFromFallback}, nil
	}

	plan, err := validation.StudyPlan(obj, *fallback)
	if err != nil {
		log.Warn("Study plan reply had no usable schedule, serving fallback plan", zap.Error(err))
		return &StudyPlanResult{Plan: fallback, Source: PlanFromFallback}, nil
	}
	return &StudyPlanResult{Plan: plan, Source: PlanFromModel}, nil
}

var examDateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// PlanDays is max(1, ceil((examDate-now)/24h)), or 14 when there is no
// usable exam date.
func PlanDays(examDate string, now time.Time) (int, bool) {
	examDate = strings.TrimSpace(examDate)
	if examDate == "" {
		return defaultPlanDays, false
	}
	for _, layout := range examDateLayouts {
		t, err := time.Parse(layout, examDate)
		if err != nil {
			continue
		}
		days := int(math.Ceil(t.Sub(now).Hours() / 24))
		if days < 1 {
			days = 1
		}
		return days, true
	}
	logger.Get().Debug("Ignoring unparseable exam date", zap.String("exam_date", examDate))
	return defaultPlanDays, false
}

// FallbackPlan builds a generic plan with one session per day starting today (UTC).
func FallbackPlan(req domain.StudyPlanRequest, days int, now time.Time) *domain.StudyPlan {
	schedule := make([]domain.StudyPlanDay, days)
	for i := range schedule {
		tasks := make([]string, len(fallbackTasks))
		copy(tasks, fallbackTasks)
		schedule[i] = domain.StudyPlanDay{
			Day:          i + 1,
			Date:         now.UTC().Add(time.Duration(i) * 24 * time.Hour).Format("2006-01-02"),
			Focus:        fallbackFocus,
			Tasks:        tasks,
			TimeEstimate: fmt.Sprintf("%s hours", req.HoursPerDay),
			Motivation:   fallbackMotivation,
		}
	}
	return &domain.StudyPlan{
		Title:         fmt.Sprintf("%d-Day Plan: %s", days, req.Course),
		Duration:      fmt.Sprintf("%d days", days),
		DailyHours:    req.HoursPerDay,
		TotalSessions: days,
		Schedule:      schedule,
	}
}
