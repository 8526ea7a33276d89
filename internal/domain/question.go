package domain

import (
	"strings"
	"time"
)

// OptionCount is the fixed number of options every question must carry.
const OptionCount = 4

// Question is a single multiple-choice question as produced by the model.
type Question struct {
	QuestionText  string
	Options       []string
	CorrectAnswer string
	Explanation   string
}

// Validate checks the structural invariants of a generated question.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.QuestionText) == "" {
		return NewInvalidInputError("question text is required")
	}
	if len(q.Options) != OptionCount {
		return NewInvalidInputError("question must have exactly 4 options")
	}
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			return nil
		}
	}
	return NewInvalidInputError("correct answer must be one of the options")
}

// Quiz is an ordered set of questions under a single title.
type Quiz struct {
	QuizTitle string
	Questions []Question
}

// StoredQuestion is a question admitted to durable storage.
// Options are kept structured here; adapters serialize them as needed.
type StoredQuestion struct {
	ID            string
	Topic         string
	QuestionText  string
	QuestionHash  string
	Options       []string
	CorrectAnswer string
	Explanation   string
	CreatedAt     time.Time
}

// Preview returns the first charLimit runes of the question text,
// ellipsis-suffixed when truncated. Used to build prompt avoid-lists
// without spending tokens on full question bodies.
func (s *StoredQuestion) Preview(charLimit int) string {
	runes := []rune(s.QuestionText)
	if len(runes) <= charLimit {
		return s.QuestionText
	}
	return string(runes[:charLimit]) + "..."
}

// SimilarQuestion is a similarity-index hit with its normalized score.
type SimilarQuestion struct {
	Question *StoredQuestion
	Score    float64
}

// DuplicateCheck is the decision of the duplicate gate for one candidate.
type DuplicateCheck struct {
	Duplicate bool
	Score     float64
	Reason    string
	Neighbor  *StoredQuestion
}
