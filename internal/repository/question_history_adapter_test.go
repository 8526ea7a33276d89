package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"auknowlog/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "pgx"), mock
}

func storedQuestion() *domain.StoredQuestion {
	return &domain.StoredQuestion{
		Topic:         "golang",
		QuestionText:  "Go의 제네릭 도입 버전은?",
		QuestionHash:  domain.QuestionHash("Go의 제네릭 도입 버전은?"),
		Options:       []string{"1.16", "1.17", "1.18", "1.19"},
		CorrectAnswer: "1.18",
		Explanation:   "Go 1.18에서 도입되었다.",
	}
}

func TestExistsByHash(t *testing.T) {
	t.Run("returns true when a row matches", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewQuestionHistoryAdapter(db)

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("somehash").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := adapter.ExistsByHash(context.Background(), "somehash")
		require.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wraps query failures as storage errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewQuestionHistoryAdapter(db)

		mock.ExpectQuery("SELECT EXISTS").
			WillReturnError(errors.New("connection reset"))

		_, err := adapter.ExistsByHash(context.Background(), "somehash")
		assert.Equal(t, domain.ErrStorageFatal, domain.CodeOf(err))
	})
}

func TestSave(t *testing.T) {
	t.Run("inserts and assigns id and timestamp", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewQuestionHistoryAdapter(db)
		q := storedQuestion()

		mock.ExpectExec("INSERT INTO question_history").
			WillReturnResult(sqlmock.NewResult(0, 1))

		inserted, err := adapter.Save(context.Background(), q)
		require.NoError(t, err)
		assert.True(t, inserted)
		assert.Len(t, q.ID, 26)
		assert.False(t, q.CreatedAt.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation is a silent rejection", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewQuestionHistoryAdapter(db)

		mock.ExpectExec("INSERT INTO question_history").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "question_history_question_hash_key"})

		inserted, err := adapter.Save(context.Background(), storedQuestion())
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	t.Run("other insert failures are storage errors", func(t *testing.T) {
		db, mock := newMockDB(t)
		adapter := NewQuestionHistoryAdapter(db)

		mock.ExpectExec("INSERT INTO question_history").
			WillReturnError(&pgconn.PgError{Code: "53300"})

		inserted, err := adapter.Save(context.Background(), storedQuestion())
		assert.False(t, inserted)
		assert.Equal(t, domain.ErrStorageFatal, domain.CodeOf(err))
	})
}

func TestCountByTopic(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuestionHistoryAdapter(db)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("golang").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := adapter.CountByTopic(context.Background(), "golang")
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestListRecentByTopic(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuestionHistoryAdapter(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "topic", "question_text", "question_hash",
		"options_json", "correct_answer", "explanation", "created_at",
	}).
		AddRow("01ARZ3NDEKTSV4RRFFQ69G5FAV", "golang", "질문 하나", "hash1",
			`["a","b","c","d"]`, "a", "", now).
		AddRow("01ARZ3NDEKTSV4RRFFQ69G5FAW", "golang", "질문 둘", "hash2",
			`["a","b","c","d"]`, "b", "설명", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM question_history WHERE topic").
		WithArgs("golang", 30).
		WillReturnRows(rows)

	result, err := adapter.ListRecentByTopic(context.Background(), "golang", 30)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "질문 하나", result[0].QuestionText)
	assert.Equal(t, []string{"a", "b", "c", "d"}, result[0].Options)
	assert.Equal(t, "설명", result[1].Explanation)
}

func TestDistinctTopics(t *testing.T) {
	db, mock := newMockDB(t)
	adapter := NewQuestionHistoryAdapter(db)

	mock.ExpectQuery("SELECT DISTINCT topic").
		WillReturnRows(sqlmock.NewRows([]string{"topic"}).AddRow("golang").AddRow("network"))

	topics, err := adapter.DistinctTopics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"golang", "network"}, topics)
}
