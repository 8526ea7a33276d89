package domain

import "context"

// LLMClient issues a single chat-completion request and returns the raw
// first-candidate text. Implementations own authentication, retry and
// model-version fallback.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// QuestionHistoryRepository is the durable exact-hash store over admitted
// questions. Save must be atomic under concurrent writers sharing a hash:
// exactly one insert succeeds, the rest observe inserted=false.
type QuestionHistoryRepository interface {
	// ExistsByHash reports whether a question with the given normalized
	// hash has already been admitted.
	ExistsByHash(ctx context.Context, hash string) (bool, error)

	// Save persists the record. It returns (false, nil) when the hash is
	// already present (a unique-constraint hit is recovered, not an error).
	Save(ctx context.Context, question *StoredQuestion) (bool, error)

	// CountByTopic returns the number of stored questions for a topic.
	CountByTopic(ctx context.Context, topic string) (int64, error)

	// ListByTopic returns all stored questions for a topic, oldest first.
	ListByTopic(ctx context.Context, topic string) ([]*StoredQuestion, error)

	// ListRecentByTopic returns up to limit stored questions for a topic,
	// newest first.
	ListRecentByTopic(ctx context.Context, topic string, limit int) ([]*StoredQuestion, error)

	// DistinctTopics returns every topic that has at least one stored question.
	DistinctTopics(ctx context.Context) ([]string, error)
}

// QuestionIndex is the lexical similarity index over question text.
// Indexing is best-effort: callers log failures and move on.
type QuestionIndex interface {
	// Index stores the question for later similarity lookups.
	Index(ctx context.Context, question *StoredQuestion) error

	// FindSimilar returns stored questions whose normalized match score
	// against text is at least threshold, best first.
	FindSimilar(ctx context.Context, text string, threshold float64) ([]SimilarQuestion, error)
}

// DuplicateChecker decides whether a candidate question text duplicates
// an already-admitted one.
type DuplicateChecker interface {
	Check(ctx context.Context, text string) (DuplicateCheck, error)
}
