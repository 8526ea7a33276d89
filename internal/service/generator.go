package service

import (
	"context"
	"fmt"

	"auknowlog/internal/adapter/gemini"
	"auknowlog/internal/domain"
	"auknowlog/internal/dto"

	"go.uber.org/zap"
)

// QuizGenerator produces deduplicated quizzes by prompting the LLM in a
// top-up loop: when duplicates shrink a batch below the target, it asks
// again for the remainder until the attempt budget runs out.
type QuizGenerator struct {
	llm         domain.LLMClient
	repo        domain.QuestionHistoryRepository
	index       domain.QuestionIndex
	gate        domain.DuplicateChecker
	previews    *PreviewCacheService
	maxAttempts int
	maxPerCall  int
	logger      *zap.Logger
}

// NewQuizGenerator creates a quiz generator.
func NewQuizGenerator(
	llm domain.LLMClient,
	repo domain.QuestionHistoryRepository,
	index domain.QuestionIndex,
	gate domain.DuplicateChecker,
	previews *PreviewCacheService,
	maxAttempts, maxPerCall int,
	logger *zap.Logger,
) *QuizGenerator {
	return &QuizGenerator{
		llm:         llm,
		repo:        repo,
		index:       index,
		gate:        gate,
		previews:    previews,
		maxAttempts: maxAttempts,
		maxPerCall:  maxPerCall,
		logger:      logger,
	}
}

// Generate runs the top-up loop for a topic. The returned quiz holds at
// most targetCount questions; fewer is not an error when the upstream
// or the duplicate gate keeps rejecting candidates.
func (g *QuizGenerator) Generate(ctx context.Context, topic string, targetCount int) (*domain.Quiz, error) {
	var collected []domain.Question
	title := ""
	admitted := false

	for attempt := 1; attempt <= g.maxAttempts && len(collected) < targetCount; attempt++ {
		remaining := targetCount - len(collected)
		requestCount := remaining
		var avoid []string

		if attempt == 1 {
			previews, err := g.previews.RecentPreviews(ctx, topic)
			if err != nil {
				g.logger.Warn("failed to load recent previews", zap.Error(err))
			} else {
				avoid = previews
			}
		} else {
			// Later attempts over-request to compensate for expected
			// duplicates, and drop the avoid list to keep the prompt small.
			requestCount = remaining * 2
			if requestCount > g.maxPerCall {
				requestCount = g.maxPerCall
			}
		}

		quiz, err := g.generateBatch(ctx, topic, requestCount, avoid)
		if err != nil {
			if domain.CodeOf(err) == domain.ErrUpstreamOverloaded && len(collected) == 0 {
				return nil, err
			}
			g.logger.Warn("generation attempt failed",
				zap.Int("attempt", attempt),
				zap.String("topic", topic),
				zap.Error(err),
			)
			continue
		}
		if title == "" && quiz.QuizTitle != "" {
			title = quiz.QuizTitle
		}

		for _, q := range quiz.Questions {
			if len(collected) >= targetCount {
				break
			}
			ok, err := g.admit(ctx, topic, q)
			if err != nil {
				return nil, err
			}
			if ok {
				collected = append(collected, q)
				admitted = true
			}
		}

		g.logger.Info("generation attempt finished",
			zap.Int("attempt", attempt),
			zap.String("topic", topic),
			zap.Int("collected", len(collected)),
			zap.Int("target", targetCount),
		)
	}

	if admitted {
		g.previews.Invalidate(ctx, topic)
	}
	if title == "" {
		title = fmt.Sprintf("%s 퀴즈", topic)
	}
	if len(collected) < targetCount {
		g.logger.Warn("quiz generated under target",
			zap.String("topic", topic),
			zap.Int("collected", len(collected)),
			zap.Int("target", targetCount),
		)
	}
	return &domain.Quiz{QuizTitle: title, Questions: collected}, nil
}

func (g *QuizGenerator) generateBatch(ctx context.Context, topic string, count int, avoid []string) (*domain.Quiz, error) {
	prompt := gemini.BuildQuizPrompt(topic, count, avoid)
	raw, err := g.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return gemini.ParseQuiz(raw, g.logger)
}

// admit runs a candidate through the duplicate gate and persists it.
// The insert is the authoritative tier: losing the unique-constraint
// race to a concurrent writer rejects the candidate silently.
func (g *QuizGenerator) admit(ctx context.Context, topic string, q domain.Question) (bool, error) {
	check, err := g.gate.Check(ctx, q.QuestionText)
	if err != nil {
		return false, err
	}
	if check.Duplicate {
		g.logger.Debug("rejected duplicate question",
			zap.String("question", q.QuestionText),
			zap.Float64("score", check.Score),
			zap.String("reason", check.Reason),
		)
		return false, nil
	}

	record := &domain.StoredQuestion{
		Topic:         topic,
		QuestionText:  q.QuestionText,
		QuestionHash:  domain.QuestionHash(q.QuestionText),
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
	inserted, err := g.repo.Save(ctx, record)
	if err != nil {
		return false, err
	}
	if !inserted {
		return false, nil
	}

	if err := g.index.Index(ctx, record); err != nil {
		g.logger.Warn("failed to index admitted question",
			zap.String("id", record.ID), zap.Error(err))
	}
	return true, nil
}

// DummyQuiz builds a fixed offline quiz for the given topic and count.
// It never touches the LLM, the database, or the index.
func DummyQuiz(topic string, count int) *domain.Quiz {
	title := "더미 퀴즈"
	if topic != "" {
		title = fmt.Sprintf("%s 퀴즈", topic)
	}
	questions := make([]domain.Question, 0, count)
	for i := 1; i <= count; i++ {
		questions = append(questions, domain.Question{
			QuestionText:  fmt.Sprintf("더미 문제 %d: %s에 대한 질문입니다.", i, topic),
			Options:       []string{"선택지 A", "선택지 B", "선택지 C", "선택지 D"},
			CorrectAnswer: "선택지 A",
			Explanation:   "더미 설명입니다.",
		})
	}
	return &domain.Quiz{QuizTitle: title, Questions: questions}
}

// QuizToResponse converts a domain quiz to its API representation.
func QuizToResponse(quiz *domain.Quiz) *dto.QuizResponse {
	questions := make([]dto.QuestionResponse, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, dto.QuestionResponse{
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}
	return &dto.QuizResponse{QuizTitle: quiz.QuizTitle, Questions: questions}
}
