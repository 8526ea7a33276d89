package service

import (
	"context"

	"auknowlog/internal/domain"

	"go.uber.org/zap"
)

const exactMatchReason = "동일 질문 존재"

// DuplicateGate decides whether a candidate question duplicates stored
// history. It combines an exact hash check against the repository with
// a similarity search against the index.
type DuplicateGate struct {
	repo      domain.QuestionHistoryRepository
	index     domain.QuestionIndex
	threshold float64
	logger    *zap.Logger
}

var _ domain.DuplicateChecker = (*DuplicateGate)(nil)

// NewDuplicateGate creates a duplicate gate with the given similarity
// threshold.
func NewDuplicateGate(repo domain.QuestionHistoryRepository, index domain.QuestionIndex, threshold float64, logger *zap.Logger) *DuplicateGate {
	return &DuplicateGate{
		repo:      repo,
		index:     index,
		threshold: threshold,
		logger:    logger,
	}
}

// Check runs the exact-hash tier first and short-circuits on a hit.
// Similarity search failures degrade to a non-duplicate verdict so that
// generation keeps working when the index is down.
func (g *DuplicateGate) Check(ctx context.Context, questionText string) (domain.DuplicateCheck, error) {
	hash := domain.QuestionHash(questionText)
	exists, err := g.repo.ExistsByHash(ctx, hash)
	if err != nil {
		return domain.DuplicateCheck{}, err
	}
	if exists {
		return domain.DuplicateCheck{
			Duplicate: true,
			Score:     1.0,
			Reason:    exactMatchReason,
		}, nil
	}

	similar, err := g.index.FindSimilar(ctx, questionText, g.threshold)
	if err != nil {
		g.logger.Warn("similarity search failed, admitting question",
			zap.Error(err))
		return domain.DuplicateCheck{}, nil
	}
	if len(similar) == 0 {
		return domain.DuplicateCheck{}, nil
	}

	top := similar[0]
	return domain.DuplicateCheck{
		Duplicate: true,
		Score:     top.Score,
		Reason:    "유사 질문 존재",
		Neighbor:  top.Question,
	}, nil
}
