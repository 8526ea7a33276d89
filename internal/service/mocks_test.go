package service

import (
	"context"
	"time"

	"auknowlog/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockLLMClient is a mock implementation of domain.LLMClient
type MockLLMClient struct {
	mock.Mock
}

func (m *MockLLMClient) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockQuestionHistoryRepository is a mock implementation of domain.QuestionHistoryRepository
type MockQuestionHistoryRepository struct {
	mock.Mock
}

func (m *MockQuestionHistoryRepository) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	args := m.Called(ctx, hash)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionHistoryRepository) Save(ctx context.Context, q *domain.StoredQuestion) (bool, error) {
	args := m.Called(ctx, q)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionHistoryRepository) CountByTopic(ctx context.Context, topic string) (int64, error) {
	args := m.Called(ctx, topic)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionHistoryRepository) ListByTopic(ctx context.Context, topic string) ([]*domain.StoredQuestion, error) {
	args := m.Called(ctx, topic)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StoredQuestion), args.Error(1)
}

func (m *MockQuestionHistoryRepository) ListRecentByTopic(ctx context.Context, topic string, limit int) ([]*domain.StoredQuestion, error) {
	args := m.Called(ctx, topic, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.StoredQuestion), args.Error(1)
}

func (m *MockQuestionHistoryRepository) DistinctTopics(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockQuestionIndex is a mock implementation of domain.QuestionIndex
type MockQuestionIndex struct {
	mock.Mock
}

func (m *MockQuestionIndex) Index(ctx context.Context, q *domain.StoredQuestion) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuestionIndex) FindSimilar(ctx context.Context, text string, threshold float64) ([]domain.SimilarQuestion, error) {
	args := m.Called(ctx, text, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SimilarQuestion), args.Error(1)
}

// MockDuplicateChecker is a mock implementation of domain.DuplicateChecker
type MockDuplicateChecker struct {
	mock.Mock
}

func (m *MockDuplicateChecker) Check(ctx context.Context, questionText string) (domain.DuplicateCheck, error) {
	args := m.Called(ctx, questionText)
	return args.Get(0).(domain.DuplicateCheck), args.Error(1)
}

// MockCache is a mock implementation of domain.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
