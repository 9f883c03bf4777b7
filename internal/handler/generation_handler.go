package handler

import (
	"context"

	"study-buddy/internal/domain"
	"study-buddy/internal/dto"
	"study-buddy/internal/logger"
	"study-buddy/internal/middleware"
	"study-buddy/internal/service"
	"study-buddy/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PlanSourceHeader tells clients whether a study plan came from the model.
const PlanSourceHeader = "X-Plan-Source"

type ContentGenerator interface {
	GenerateFlashcards(ctx context.Context, req domain.GenerationRequest) ([]domain.Flashcard, error)
	GenerateQuiz(ctx context.Context, req domain.GenerationRequest) ([]domain.QuizQuestion, error)
}

type QuizGrader interface {
	Grade(ctx context.Context, inputs []domain.GradingInput) ([]domain.GradedResult, error)
}

type StudyPlanner interface {
	Generate(ctx context.Context, req domain.StudyPlanRequest) (*service.StudyPlanResult, error)
}

type ChatResponder interface {
	Reply(ctx context.Context, chatID, message string) (string, error)
}

// GenerationHandler serves every endpoint backed by the text model.
type GenerationHandler struct {
	generator ContentGenerator
	grader    QuizGrader
	planner   StudyPlanner
	chat      ChatResponder
}

func NewGenerationHandler(generator ContentGenerator, grader QuizGrader, planner StudyPlanner, chat ChatResponder) *GenerationHandler {
	return &GenerationHandler{generator: generator, grader: grader, planner: planner, chat: chat}
}

// parseBody decodes the JSON body into out. A malformed body leaves out at
// its zero value so the usual "is required" checks report it.
func parseBody(c *fiber.Ctx, out interface{}) bool {
	if err := c.BodyParser(out); err != nil {
		logger.Get().Debug("Could not parse request body", zap.String("path", c.Path()), zap.Error(err))
		return false
	}
	return true
}

// GenerateFlashcards godoc
// @Summary Generate flashcards
// @Description Asks the model for numCards flashcards about prompt
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.FlashcardRequest true "Flashcard request"
// @Success 200 {object} dto.FlashcardResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate/flashcards [post]
func (h *GenerationHandler) GenerateFlashcards(c *fiber.Ctx) error {
	var req dto.FlashcardRequest
	if !parseBody(c, &req) {
		req = dto.FlashcardRequest{}
	}

	cards, err := h.generator.GenerateFlashcards(c.UserContext(), domain.GenerationRequest{
		ContentType: domain.ContentFlashcards,
		Prompt:      req.Prompt,
		Count:       req.NumCards,
		OwnerID:     validation.IDString(req.UserID),
		TargetID:    validation.IDString(req.DeckID),
	})
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.FlashcardResponse{Success: true, Cards: cards, Count: len(cards)})
}

// GenerateQuizzes godoc
// @Summary Generate quiz questions
// @Description Asks the model for numQuestions open-ended questions about prompt
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.QuizRequest true "Quiz request"
// @Success 200 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /generate/quizzes [post]
func (h *GenerationHandler) GenerateQuizzes(c *fiber.Ctx) error {
	var req dto.QuizRequest
	if !parseBody(c, &req) {
		req = dto.QuizRequest{}
	}

	questions, err := h.generator.GenerateQuiz(c.UserContext(), domain.GenerationRequest{
		ContentType: domain.ContentQuiz,
		Prompt:      req.Prompt,
		Count:       req.NumQuestions,
		OwnerID:     validation.IDString(req.UserID),
		TargetID:    validation.IDString(req.QuizID),
	})
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.QuizResponse{Success: true, Questions: questions, Count: len(questions)})
}

// GradeQuiz godoc
// @Summary Grade quiz answers
// @Description Grades every answer with a single model call
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.GradeQuizRequest true "Answers to grade"
// @Success 200 {object} dto.GradeQuizResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /grade/quiz [post]
func (h *GenerationHandler) GradeQuiz(c *fiber.Ctx) error {
	var req dto.GradeQuizRequest
	if !parseBody(c, &req) {
		req = dto.GradeQuizRequest{}
	}

	inputs := make([]domain.GradingInput, len(req.Questions))
	for i, q := range req.Questions {
		inputs[i] = domain.GradingInput{
			QuestionID:    validation.ToString(q.QuestionID),
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
			UserAnswer:    q.UserAnswer,
		}
	}

	results, err := h.grader.Grade(c.UserContext(), inputs)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.GradeQuizResponse{Success: true, Results: results})
}

// CreateStudyPlan godoc
// @Summary Generate a study plan
// @Description Builds a day by day plan up to the exam date. Falls back to a generic plan when the model reply is unusable.
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.StudyPlanRequest true "Study plan request"
// @Success 200 {object} dto.StudyPlanResponse
// @Header 200 {string} X-Plan-Source "model or fallback"
// @Failure 400 {object} dto.ErrorResponse
// @Router /study-plans [post]
func (h *GenerationHandler) CreateStudyPlan(c *fiber.Ctx) error {
	var req dto.StudyPlanRequest
	if !parseBody(c, &req) {
		req = dto.StudyPlanRequest{}
	}

	result, err := h.planner.Generate(c.UserContext(),
		service.NewStudyPlanRequest(req.Course, req.ExamDate, req.HoursPerDay, req.Topics, req.Goal))
	if err != nil {
		return middleware.RespondError(c, err)
	}

	c.Set(PlanSourceHeader, string(result.Source))
	return c.JSON(dto.StudyPlanResponse{Plan: result.Plan})
}

// Chat godoc
// @Summary Chat with the study buddy
// @Description Replies in the context of the stored chat history. Model failures yield an empty reply.
// @Tags generation
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat message"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /ai-chat [post]
func (h *GenerationHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if !parseBody(c, &req) {
		req = dto.ChatRequest{}
	}

	reply, err := h.chat.Reply(c.UserContext(), validation.IDString(req.ChatID), req.Message)
	if err != nil {
		return middleware.RespondError(c, err)
	}

	return c.JSON(dto.ChatResponse{Reply: reply})
}
