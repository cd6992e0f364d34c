package handler

import (
	"strconv"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"
	"github.com/source-hub-org/hirebot-ai-api/internal/dto"
	"github.com/source-hub-org/hirebot-ai-api/internal/logger"
	"github.com/source-hub-org/hirebot-ai-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuestionHandler handles quiz-question HTTP requests
type QuestionHandler struct {
	generationSvc service.GenerationService
	repo          domain.QuestionRepository
}

// NewQuestionHandler creates a new QuestionHandler instance
func NewQuestionHandler(generationSvc service.GenerationService, repo domain.QuestionRepository) *QuestionHandler {
	return &QuestionHandler{
		generationSvc: generationSvc,
		repo:          repo,
	}
}

// GenerateQuestions godoc
// @Summary Generate a batch of quiz questions
// @Description Runs the AI generation pipeline and returns the validated batch
// @Tags questions
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuestionsRequest true "Generation options"
// @Success 200 {object} dto.GenerateQuestionsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /questions/generate [post]
func (h *QuestionHandler) GenerateQuestions(c *fiber.Ctx) error {
	var req dto.GenerateQuestionsRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Request body is not valid JSON")
	}

	result, err := h.generationSvc.GenerateQuestions(c.Context(), req.ToOptions())
	if err != nil {
		// The error middleware maps pipeline errors to statuses.
		return err
	}

	if req.Position != "" {
		if err := h.repo.SaveQuestions(c.Context(), req.Position, result.Questions); err != nil {
			logger.Get().Error("Failed to persist generated questions",
				zap.String("position", req.Position),
				zap.String("request_id", result.RequestID),
				zap.Error(err),
			)
			return err
		}
	}

	return c.JSON(dto.GenerateQuestionsResponse{
		RequestID:    result.RequestID,
		ArtifactPath: result.ArtifactPath,
		Questions:    dto.ToQuestionResponses(result.Questions),
		Warnings:     result.Warnings,
	})
}

// ListQuestions godoc
// @Summary List persisted questions
// @Description Returns recently generated questions for a position
// @Tags questions
// @Accept json
// @Produce json
// @Param position query string true "Position"
// @Param limit query int false "Maximum number of questions"
// @Success 200 {object} dto.ListQuestionsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /questions [get]
func (h *QuestionHandler) ListQuestions(c *fiber.Ctx) error {
	position := c.Query("position")
	if position == "" {
		return domain.NewInvalidInputError("Query parameter 'position' is required")
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return domain.NewInvalidInputError("Query parameter 'limit' must be a positive integer")
		}
		limit = n
	}

	questions, err := h.repo.ListQuestions(c.Context(), position, limit)
	if err != nil {
		return err
	}

	return c.JSON(dto.ListQuestionsResponse{
		Position:  position,
		Questions: dto.ToQuestionResponses(questions),
	})
}

// GetAllPositions godoc
// @Summary List positions
// @Description Returns every position questions have been generated for
// @Tags positions
// @Accept json
// @Produce json
// @Success 200 {object} dto.PositionsResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /positions [get]
func (h *QuestionHandler) GetAllPositions(c *fiber.Ctx) error {
	positions, err := h.repo.GetAllPositions(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.PositionsResponse{Positions: positions})
}
