package handler

import (
	"context"
	"fmt"
	"strings"

	"auknowlog/internal/domain"
	"auknowlog/internal/dto"
	"auknowlog/internal/markdown"
	"auknowlog/internal/service"

	"github.com/gofiber/fiber/v2"
)

// NotionExporter publishes a markdown document as a Notion page.
type NotionExporter interface {
	CreatePageWithMarkdown(ctx context.Context, title, markdown string) (string, error)
}

// GitExporter commits and pushes a saved document.
type GitExporter interface {
	CommitAndPush(ctx context.Context, path, message string) error
}

// DocumentHandler handles document export HTTP requests
type DocumentHandler struct {
	documents *service.DocumentService
	notion    NotionExporter
	git       GitExporter
}

// NewDocumentHandler creates a new DocumentHandler instance
func NewDocumentHandler(documents *service.DocumentService, notion NotionExporter, git GitExporter) *DocumentHandler {
	return &DocumentHandler{
		documents: documents,
		notion:    notion,
		git:       git,
	}
}

// SaveResponse reports where an exported document ended up.
type SaveResponse struct {
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	PageID  string `json:"pageId,omitempty"`
}

// SaveMarkdown handles POST /api/documents/save-quiz-markdown-raw
func (h *DocumentHandler) SaveMarkdown(c *fiber.Ctx) error {
	session, err := parseSession(c)
	if err != nil {
		return err
	}

	path, err := h.documents.SaveMarkdown(session.QuizTitle, markdown.Render(session))
	if err != nil {
		return domain.NewInternalError("failed to save document", err)
	}
	return c.SendString(fmt.Sprintf("Quiz saved successfully to: %s", path))
}

// SaveToNotion handles POST /api/documents/save-quiz-notion
func (h *DocumentHandler) SaveToNotion(c *fiber.Ctx) error {
	session, err := parseSession(c)
	if err != nil {
		return err
	}

	title := session.QuizTitle
	if strings.TrimSpace(title) == "" {
		title = "퀴즈 결과"
	}
	pageID, err := h.notion.CreatePageWithMarkdown(c.Context(), title, markdown.Render(session))
	if err != nil {
		return domain.NewInternalError("failed to export to notion", err)
	}
	return c.JSON(SaveResponse{Message: "saved", PageID: pageID})
}

// SaveToGit handles POST /api/documents/save-quiz-git
func (h *DocumentHandler) SaveToGit(c *fiber.Ctx) error {
	session, err := parseSession(c)
	if err != nil {
		return err
	}

	path, err := h.documents.SaveMarkdown(session.QuizTitle, markdown.Render(session))
	if err != nil {
		return domain.NewInternalError("failed to save document", err)
	}

	message := fmt.Sprintf("docs: add quiz result %s", session.QuizTitle)
	if err := h.git.CommitAndPush(c.Context(), path, message); err != nil {
		return domain.NewInternalError("failed to push document", err)
	}
	return c.JSON(SaveResponse{Message: "saved", Path: path})
}

func parseSession(c *fiber.Ctx) (*dto.QuizSession, error) {
	var session dto.QuizSession
	if err := c.BodyParser(&session); err != nil {
		return nil, domain.NewInvalidInputError("invalid request body")
	}
	if len(session.Questions) == 0 {
		return nil, domain.NewInvalidInputError("questions are required")
	}
	return &session, nil
}
