package domain

// ContentType names what a generation request asks the model for.
type ContentType string

const (
	ContentFlashcards ContentType = "flashcards"
	ContentQuiz       ContentType = "quiz"
	ContentStudyPlan  ContentType = "study-plan"
)

// GenerationRequest is the normalized input of a flashcard or quiz request.
// Count is kept as received (number, numeric string or nil) and parsed later.
type GenerationRequest struct {
	ContentType ContentType
	Prompt      string
	Count       any
	OwnerID     string
	TargetID    string
}

type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

type QuizQuestion struct {
	Question      string `json:"question"`
	CorrectAnswer string `json:"correct_answer"`
}

type GradingInput struct {
	QuestionID    string `json:"questionId"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
}

type GradedResult struct {
	QuestionID    string `json:"questionId"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Feedback      string `json:"feedback"`
}

// UngradedFeedback is used for every question the model did not return a verdict for.
const UngradedFeedback = "Unable to grade this answer."

// GradingVerdict is what the model said about one question.
type GradingVerdict struct {
	IsCorrect bool
	Feedback  string
}

// StudyPlanRequest carries the optional knobs with their defaults already applied.
type StudyPlanRequest struct {
	Course      string
	ExamDate    string
	HoursPerDay string
	Topics      string
	Goal        string
}

type StudyPlan struct {
	Title         string         `json:"title"`
	Duration      string         `json:"duration"`
	DailyHours    string         `json:"dailyHours"`
	TotalSessions int            `json:"totalSessions"`
	Schedule      []StudyPlanDay `json:"schedule"`
}

type StudyPlanDay struct {
	Day          int      `json:"day"`
	Date         string   `json:"date"`
	Focus        string   `json:"focus"`
	Tasks        []string `json:"tasks"`
	TimeEstimate string   `json:"timeEstimate"`
	Motivation   string   `json:"motivation"`
}
