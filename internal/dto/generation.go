package dto

import (
	"study-buddy/internal/domain"
)

// FlashcardRequest asks for a deck of flashcards.
// numCards, deckId and userId may arrive as strings or numbers.
// @Description Request body for flashcard generation
type FlashcardRequest struct {
	Prompt   string `json:"prompt" example:"Photosynthesis basics"`
	NumCards any    `json:"numCards" swaggertype:"integer" example:"10"`
	DeckID   any    `json:"deckId" swaggertype:"string" example:"deck-1"`
	UserID   any    `json:"userId" swaggertype:"string" example:"user-1"`
}

type FlashcardResponse struct {
	Success bool               `json:"success"`
	Cards   []domain.Flashcard `json:"cards"`
	Count   int                `json:"count"`
}

// QuizRequest asks for open-ended quiz questions.
// @Description Request body for quiz generation
type QuizRequest struct {
	Prompt       string `json:"prompt" example:"World War I causes"`
	NumQuestions any    `json:"numQuestions" swaggertype:"integer" example:"5"`
	QuizID       any    `json:"quizId" swaggertype:"string" example:"quiz-1"`
	UserID       any    `json:"userId" swaggertype:"string" example:"user-1"`
}

type QuizResponse struct {
	Success   bool                  `json:"success"`
	Questions []domain.QuizQuestion `json:"questions"`
	Count     int                   `json:"count"`
}

// GradeQuestion is one answered question. questionId may be a number.
type GradeQuestion struct {
	QuestionID    any    `json:"questionId" swaggertype:"string"`
	Question      string `json:"question"`
	CorrectAnswer string `json:"correctAnswer"`
	UserAnswer    string `json:"userAnswer"`
}

// @Description Request body for grading a quiz
type GradeQuizRequest struct {
	Questions []GradeQuestion `json:"questions"`
}

type GradeQuizResponse struct {
	Success bool                  `json:"success"`
	Results []domain.GradedResult `json:"results"`
}

// StudyPlanRequest fields other than course are optional. hoursPerDay may be a number.
// @Description Request body for study plan generation
type StudyPlanRequest struct {
	Course      string `json:"course" example:"Organic Chemistry"`
	ExamDate    string `json:"examDate,omitempty" example:"2026-12-01"`
	HoursPerDay any    `json:"hoursPerDay,omitempty" swaggertype:"string" example:"3"`
	Topics      any    `json:"topics,omitempty" swaggertype:"string"`
	Goal        any    `json:"goal,omitempty" swaggertype:"string" example:"exam"`
}

type StudyPlanResponse struct {
	Plan *domain.StudyPlan `json:"plan"`
}

// @Description Request body for the study buddy chat
type ChatRequest struct {
	Message string `json:"message"`
	ChatID  any    `json:"chatId" swaggertype:"string"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}
