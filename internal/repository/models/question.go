package models

import (
	"encoding/json"
	"time"

	"auknowlog/internal/domain"
)

// QuestionHistory is the database row for a stored question. Options
// are kept as a JSON array in a single column.
type QuestionHistory struct {
	ID            string    `db:"id"`
	Topic         string    `db:"topic"`
	QuestionText  string    `db:"question_text"`
	QuestionHash  string    `db:"question_hash"`
	OptionsJSON   string    `db:"options_json"`
	CorrectAnswer string    `db:"correct_answer"`
	Explanation   string    `db:"explanation"`
	CreatedAt     time.Time `db:"created_at"`
}

// ToDomain converts the row to a domain record.
func (m *QuestionHistory) ToDomain() (*domain.StoredQuestion, error) {
	var options []string
	if m.OptionsJSON != "" {
		if err := json.Unmarshal([]byte(m.OptionsJSON), &options); err != nil {
			return nil, err
		}
	}
	return &domain.StoredQuestion{
		ID:            m.ID,
		Topic:         m.Topic,
		QuestionText:  m.QuestionText,
		QuestionHash:  m.QuestionHash,
		Options:       options,
		CorrectAnswer: m.CorrectAnswer,
		Explanation:   m.Explanation,
		CreatedAt:     m.CreatedAt,
	}, nil
}

// FromDomain converts a domain record to a database row.
func FromDomain(q *domain.StoredQuestion) (*QuestionHistory, error) {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return nil, err
	}
	return &QuestionHistory{
		ID:            q.ID,
		Topic:         q.Topic,
		QuestionText:  q.QuestionText,
		QuestionHash:  q.QuestionHash,
		OptionsJSON:   string(optionsJSON),
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		CreatedAt:     q.CreatedAt,
	}, nil
}
