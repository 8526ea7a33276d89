package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"auknowlog/internal/cache"
	"auknowlog/internal/domain"

	"go.uber.org/zap"
)

// PreviewCacheService serves recent question previews for a topic,
// backed by a read-through Redis cache. Cache failures are logged and
// absorbed; the repository is always the source of truth.
type PreviewCacheService struct {
	repo      domain.QuestionHistoryRepository
	cache     domain.Cache
	limit     int
	charLimit int
	ttl       time.Duration
	logger    *zap.Logger
}

// NewPreviewCacheService creates a preview cache over the repository.
func NewPreviewCacheService(repo domain.QuestionHistoryRepository, c domain.Cache, limit, charLimit int, ttl time.Duration, logger *zap.Logger) *PreviewCacheService {
	return &PreviewCacheService{
		repo:      repo,
		cache:     c,
		limit:     limit,
		charLimit: charLimit,
		ttl:       ttl,
		logger:    logger,
	}
}

// RecentPreviews returns truncated previews of the most recently stored
// questions for a topic, newest first.
func (s *PreviewCacheService) RecentPreviews(ctx context.Context, topic string) ([]string, error) {
	key := cache.PreviewsKey(topic)

	if cached, err := s.cache.Get(ctx, key); err == nil {
		var previews []string
		if err := json.Unmarshal([]byte(cached), &previews); err == nil {
			return previews, nil
		}
		s.logger.Warn("corrupt preview cache entry, refetching",
			zap.String("topic", topic))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn("preview cache read failed", zap.Error(err))
	}

	recent, err := s.repo.ListRecentByTopic(ctx, topic, s.limit)
	if err != nil {
		return nil, err
	}
	previews := make([]string, 0, len(recent))
	for _, q := range recent {
		previews = append(previews, q.Preview(s.charLimit))
	}

	if encoded, err := json.Marshal(previews); err == nil {
		if err := s.cache.Set(ctx, key, string(encoded), s.ttl); err != nil {
			s.logger.Warn("preview cache write failed", zap.Error(err))
		}
	}
	return previews, nil
}

// Invalidate drops the cached previews for a topic. Called after new
// questions are admitted so the next generation sees them.
func (s *PreviewCacheService) Invalidate(ctx context.Context, topic string) {
	if err := s.cache.Delete(ctx, cache.PreviewsKey(topic)); err != nil {
		s.logger.Warn("preview cache invalidation failed",
			zap.String("topic", topic), zap.Error(err))
	}
}
