package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"auknowlog/internal/domain"
	"auknowlog/internal/repository/models"
	"auknowlog/internal/util"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

const pgUniqueViolation = "23505"

// QuestionHistoryAdapter implements domain.QuestionHistoryRepository
// on PostgreSQL via sqlx.
type QuestionHistoryAdapter struct {
	db *sqlx.DB
}

var _ domain.QuestionHistoryRepository = (*QuestionHistoryAdapter)(nil)

// NewQuestionHistoryAdapter creates a new QuestionHistoryAdapter.
func NewQuestionHistoryAdapter(db *sqlx.DB) *QuestionHistoryAdapter {
	return &QuestionHistoryAdapter{db: db}
}

// ExistsByHash reports whether a question with the given hash has
// already been stored.
func (a *QuestionHistoryAdapter) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS (SELECT 1 FROM question_history WHERE question_hash = $1)"
	if err := a.db.GetContext(ctx, &exists, query, hash); err != nil {
		return false, domain.NewStorageFatalError("failed to check question hash", err)
	}
	return exists, nil
}

// Save inserts a question record, assigning an ID and timestamp when
// missing. A hash collision with an existing row returns (false, nil)
// rather than an error; losing that race is an expected outcome.
func (a *QuestionHistoryAdapter) Save(ctx context.Context, q *domain.StoredQuestion) (bool, error) {
	if q.ID == "" {
		q.ID = util.NewULID()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	row, err := models.FromDomain(q)
	if err != nil {
		return false, domain.NewStorageFatalError("failed to encode question row", err)
	}

	query := `INSERT INTO question_history
		(id, topic, question_text, question_hash, options_json, correct_answer, explanation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = a.db.ExecContext(ctx, query,
		row.ID, row.Topic, row.QuestionText, row.QuestionHash,
		row.OptionsJSON, row.CorrectAnswer, row.Explanation, row.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return false, nil
		}
		return false, domain.NewStorageFatalError("failed to save question", err)
	}
	return true, nil
}

// CountByTopic returns the number of stored questions for a topic.
func (a *QuestionHistoryAdapter) CountByTopic(ctx context.Context, topic string) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM question_history WHERE topic = $1"
	if err := a.db.GetContext(ctx, &count, query, topic); err != nil {
		return 0, domain.NewStorageFatalError("failed to count questions", err)
	}
	return count, nil
}

// ListByTopic returns all stored questions for a topic, oldest first.
func (a *QuestionHistoryAdapter) ListByTopic(ctx context.Context, topic string) ([]*domain.StoredQuestion, error) {
	var rows []models.QuestionHistory
	query := `SELECT id, topic, question_text, question_hash, options_json, correct_answer, explanation, created_at
		FROM question_history WHERE topic = $1 ORDER BY created_at ASC`
	if err := a.db.SelectContext(ctx, &rows, query, topic); err != nil {
		return nil, domain.NewStorageFatalError("failed to list questions", err)
	}
	return toDomainList(rows)
}

// ListRecentByTopic returns up to limit questions for a topic, newest
// first.
func (a *QuestionHistoryAdapter) ListRecentByTopic(ctx context.Context, topic string, limit int) ([]*domain.StoredQuestion, error) {
	var rows []models.QuestionHistory
	query := `SELECT id, topic, question_text, question_hash, options_json, correct_answer, explanation, created_at
		FROM question_history WHERE topic = $1 ORDER BY created_at DESC LIMIT $2`
	if err := a.db.SelectContext(ctx, &rows, query, topic, limit); err != nil {
		return nil, domain.NewStorageFatalError("failed to list recent questions", err)
	}
	return toDomainList(rows)
}

// DistinctTopics returns every topic that has at least one stored
// question.
func (a *QuestionHistoryAdapter) DistinctTopics(ctx context.Context) ([]string, error) {
	var topics []string
	query := "SELECT DISTINCT topic FROM question_history ORDER BY topic"
	if err := a.db.SelectContext(ctx, &topics, query); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.NewStorageFatalError("failed to list topics", err)
	}
	return topics, nil
}

func toDomainList(rows []models.QuestionHistory) ([]*domain.StoredQuestion, error) {
	result := make([]*domain.StoredQuestion, 0, len(rows))
	for i := range rows {
		q, err := rows[i].ToDomain()
		if err != nil {
			return nil, domain.NewStorageFatalError("failed to decode question row", err)
		}
		result = append(result, q)
	}
	return result, nil
}
