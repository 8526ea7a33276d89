package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"auknowlog/internal/domain"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const searchSize = 5

// QuestionIndexAdapter implements domain.QuestionIndex on Elasticsearch.
// Question text is analyzed with a Korean analyzer so that similarity
// search works on morphemes rather than raw whitespace tokens.
type QuestionIndexAdapter struct {
	client   *elasticsearch.Client
	index    string
	analyzer string
	logger   *zap.Logger
}

var _ domain.QuestionIndex = (*QuestionIndexAdapter)(nil)

// NewQuestionIndexAdapter creates an index adapter bound to the given
// index name and analyzer.
func NewQuestionIndexAdapter(client *elasticsearch.Client, index, analyzer string, logger *zap.Logger) *QuestionIndexAdapter {
	return &QuestionIndexAdapter{
		client:   client,
		index:    index,
		analyzer: analyzer,
		logger:   logger,
	}
}

type questionDocument struct {
	Topic         string    `json:"topic"`
	QuestionText  string    `json:"questionText"`
	QuestionHash  string    `json:"questionHash"`
	Options       []string  `json:"options"`
	CorrectAnswer string    `json:"correctAnswer"`
	Explanation   string    `json:"explanation,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// EnsureIndex creates the questions index with its mapping if it does
// not exist yet. Existing indices are left untouched.
func (a *QuestionIndexAdapter) EnsureIndex(ctx context.Context) error {
	exists := esapi.IndicesExistsRequest{Index: []string{a.index}}
	res, err := exists.Do(ctx, a.client)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	mapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"topic":         map[string]any{"type": "keyword"},
				"questionText":  map[string]any{"type": "text", "analyzer": a.analyzer},
				"questionHash":  map[string]any{"type": "keyword"},
				"options":       map[string]any{"type": "text", "analyzer": a.analyzer},
				"correctAnswer": map[string]any{"type": "text"},
				"explanation":   map[string]any{"type": "text", "analyzer": a.analyzer},
				"createdAt":     map[string]any{"type": "date"},
			},
		},
	}
	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to encode index mapping: %w", err)
	}

	create := esapi.IndicesCreateRequest{
		Index: a.index,
		Body:  bytes.NewReader(body),
	}
	createRes, err := create.Do(ctx, a.client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer createRes.Body.Close()
	if createRes.IsError() {
		return fmt.Errorf("index creation failed: %s", createRes.String())
	}
	a.logger.Info("created search index", zap.String("index", a.index))
	return nil
}

// Index stores a question document, keyed by the record ID so that
// reindexing is idempotent.
func (a *QuestionIndexAdapter) Index(ctx context.Context, q *domain.StoredQuestion) error {
	doc := questionDocument{
		Topic:         q.Topic,
		QuestionText:  q.QuestionText,
		QuestionHash:  q.QuestionHash,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		CreatedAt:     q.CreatedAt,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode question document: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      a.index,
		DocumentID: q.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, a.client)
	if err != nil {
		return fmt.Errorf("failed to index question: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("indexing failed: %s", res.String())
	}
	return nil
}

type searchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string           `json:"_id"`
			Score  float64          `json:"_score"`
			Source questionDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// FindSimilar returns indexed questions whose normalized similarity to
// the given text reaches threshold, best match first.
func (a *QuestionIndexAdapter) FindSimilar(ctx context.Context, text string, threshold float64) ([]domain.SimilarQuestion, error) {
	query := map[string]any{
		"size": searchSize,
		"query": map[string]any{
			"match": map[string]any{
				"questionText": text,
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search query: %w", err)
	}

	res, err := a.client.Search(
		a.client.Search.WithContext(ctx),
		a.client.Search.WithIndex(a.index),
		a.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return nil, fmt.Errorf("search failed: status=%s body=%s", res.Status(), strings.TrimSpace(string(snippet)))
	}

	var decoded searchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	var similar []domain.SimilarQuestion
	for _, hit := range decoded.Hits.Hits {
		score := normalizeScore(hit.Score)
		if score < threshold {
			continue
		}
		src := hit.Source
		similar = append(similar, domain.SimilarQuestion{
			Question: &domain.StoredQuestion{
				ID:            hit.ID,
				Topic:         src.Topic,
				QuestionText:  src.QuestionText,
				QuestionHash:  src.QuestionHash,
				Options:       src.Options,
				CorrectAnswer: src.CorrectAnswer,
				Explanation:   src.Explanation,
				CreatedAt:     src.CreatedAt,
			},
			Score: score,
		})
	}
	return similar, nil
}

// normalizeScore maps an unbounded relevance score into (0, 1) with a
// logistic curve centered at 5. The mapping is monotonic, so ordering
// of hits is preserved.
func normalizeScore(score float64) float64 {
	return 1.0 / (1.0 + math.Exp(-score+5))
}
