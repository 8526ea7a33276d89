package handler

import (
	"context"
	"strings"

	"auknowlog/internal/domain"
	"auknowlog/internal/dto"
	"auknowlog/internal/markdown"
	"auknowlog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizGeneratorService produces a deduplicated quiz for a topic.
type QuizGeneratorService interface {
	Generate(ctx context.Context, topic string, targetCount int) (*domain.Quiz, error)
}

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	generator QuizGeneratorService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(generator QuizGeneratorService) *QuizHandler {
	return &QuizHandler{generator: generator}
}

// CreateQuiz handles POST /api/quizzes/create
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	var req dto.QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if strings.TrimSpace(req.Topic) == "" {
		return domain.NewInvalidInputError("topic is required")
	}

	quiz, err := h.generator.Generate(c.Context(), req.Topic, req.TargetCount())
	if err != nil {
		return err
	}
	return c.JSON(service.QuizToResponse(quiz))
}

// CreateDummyQuiz handles POST /api/quizzes/dummy
func (h *QuizHandler) CreateDummyQuiz(c *fiber.Ctx) error {
	var req dto.QuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	quiz := service.DummyQuiz(strings.TrimSpace(req.Topic), req.TargetCount())
	return c.JSON(service.QuizToResponse(quiz))
}

// RenderMarkdown handles POST /api/quizzes/markdown
func (h *QuizHandler) RenderMarkdown(c *fiber.Ctx) error {
	var session dto.QuizSession
	if err := c.BodyParser(&session); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	c.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	return c.SendString(markdown.Render(&session))
}
