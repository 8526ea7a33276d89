package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"auknowlog/internal/adapter"
	"auknowlog/internal/cache"
	"auknowlog/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPreviewCacheService(t *testing.T) {
	const topic = "golang"
	key := cache.PreviewsKey(topic)
	ttl := 5 * time.Minute

	recent := []*domain.StoredQuestion{
		{QuestionText: "Go의 제네릭 도입 버전은?"},
		{QuestionText: "채널의 제로 값은?"},
	}
	expectedPreviews := []string{"Go의 제네릭 도입 버전은?", "채널의 제로 값은?"}

	t.Run("cache hit skips the repository", func(t *testing.T) {
		repo := new(MockQuestionHistoryRepository)
		client, redisMock := redismock.NewClientMock()
		svc := NewPreviewCacheService(repo, adapter.NewRedisCacheAdapter(client), 30, 50, ttl, zap.NewNop())

		encoded, _ := json.Marshal(expectedPreviews)
		redisMock.ExpectGet(key).SetVal(string(encoded))

		previews, err := svc.RecentPreviews(context.Background(), topic)
		require.NoError(t, err)
		assert.Equal(t, expectedPreviews, previews)
		repo.AssertNotCalled(t, "ListRecentByTopic", mock.Anything, mock.Anything, mock.Anything)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache miss reads through and populates", func(t *testing.T) {
		repo := new(MockQuestionHistoryRepository)
		client, redisMock := redismock.NewClientMock()
		svc := NewPreviewCacheService(repo, adapter.NewRedisCacheAdapter(client), 30, 50, ttl, zap.NewNop())

		repo.On("ListRecentByTopic", mock.Anything, topic, 30).Return(recent, nil)
		encoded, _ := json.Marshal(expectedPreviews)
		redisMock.ExpectGet(key).RedisNil()
		redisMock.ExpectSet(key, string(encoded), ttl).SetVal("OK")

		previews, err := svc.RecentPreviews(context.Background(), topic)
		require.NoError(t, err)
		assert.Equal(t, expectedPreviews, previews)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache failure falls back to the repository", func(t *testing.T) {
		repo := new(MockQuestionHistoryRepository)
		client, redisMock := redismock.NewClientMock()
		svc := NewPreviewCacheService(repo, adapter.NewRedisCacheAdapter(client), 30, 50, ttl, zap.NewNop())

		repo.On("ListRecentByTopic", mock.Anything, topic, 30).Return(recent, nil)
		redisMock.ExpectGet(key).SetErr(errors.New("redis down"))
		encoded, _ := json.Marshal(expectedPreviews)
		redisMock.ExpectSet(key, string(encoded), ttl).SetErr(errors.New("redis down"))

		previews, err := svc.RecentPreviews(context.Background(), topic)
		require.NoError(t, err)
		assert.Equal(t, expectedPreviews, previews)
	})

	t.Run("long questions are truncated in previews", func(t *testing.T) {
		repo := new(MockQuestionHistoryRepository)
		client, redisMock := redismock.NewClientMock()
		svc := NewPreviewCacheService(repo, adapter.NewRedisCacheAdapter(client), 30, 5, ttl, zap.NewNop())

		repo.On("ListRecentByTopic", mock.Anything, topic, 30).
			Return([]*domain.StoredQuestion{{QuestionText: "가나다라마바사아자차"}}, nil)
		redisMock.ExpectGet(key).RedisNil()
		encoded, _ := json.Marshal([]string{"가나다라마..."})
		redisMock.ExpectSet(key, string(encoded), ttl).SetVal("OK")

		previews, err := svc.RecentPreviews(context.Background(), topic)
		require.NoError(t, err)
		assert.Equal(t, []string{"가나다라마..."}, previews)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		repo := new(MockQuestionHistoryRepository)
		client, redisMock := redismock.NewClientMock()
		svc := NewPreviewCacheService(repo, adapter.NewRedisCacheAdapter(client), 30, 50, ttl, zap.NewNop())

		redisMock.ExpectGet(key).RedisNil()
		repo.On("ListRecentByTopic", mock.Anything, topic, 30).
			Return(nil, domain.NewStorageFatalError("db down", nil))

		_, err := svc.RecentPreviews(context.Background(), topic)
		assert.Equal(t, domain.ErrStorageFatal, domain.CodeOf(err))
	})

	t.Run("invalidate deletes the topic key", func(t *testing.T) {
		repo := new(MockQuestionHistoryRepository)
		client, redisMock := redismock.NewClientMock()
		svc := NewPreviewCacheService(repo, adapter.NewRedisCacheAdapter(client), 30, 50, ttl, zap.NewNop())

		redisMock.ExpectDel(key).SetVal(1)
		svc.Invalidate(context.Background(), topic)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}
