package gemini

import (
	"encoding/json"
	"strings"

	"auknowlog/internal/domain"

	"go.uber.org/zap"
)

// rawQuiz mirrors the JSON object the model is prompted to return.
type rawQuiz struct {
	QuizTitle *string       `json:"quizTitle"`
	Questions []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// ExtractJSONObject locates the quiz JSON object inside raw model
// output. Models frequently wrap JSON in markdown fences or surround it
// with prose, so the text is scanned for the first balanced top-level
// object rather than decoded wholesale.
func ExtractJSONObject(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", domain.NewMalformedOutputError("no JSON object in model output", nil)
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", domain.NewMalformedOutputError("unbalanced JSON object in model output", nil)
}

// ParseQuiz extracts and validates a quiz from raw model output.
// Questions that fail validation are dropped individually; the quiz as
// a whole is rejected only when the structure itself is unusable.
func ParseQuiz(raw string, logger *zap.Logger) (*domain.Quiz, error) {
	jsonText, err := ExtractJSONObject(raw)
	if err != nil {
		return nil, err
	}

	var parsed rawQuiz
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, domain.NewMalformedOutputError("failed to decode quiz JSON", err)
	}
	if parsed.QuizTitle == nil {
		return nil, domain.NewMalformedOutputError("quiz JSON missing quizTitle", nil)
	}
	if parsed.Questions == nil {
		return nil, domain.NewMalformedOutputError("quiz JSON missing questions", nil)
	}

	quiz := &domain.Quiz{QuizTitle: *parsed.QuizTitle}
	for _, rq := range parsed.Questions {
		q := domain.Question{
			QuestionText:  rq.QuestionText,
			Options:       rq.Options,
			CorrectAnswer: rq.CorrectAnswer,
			Explanation:   rq.Explanation,
		}
		if err := q.Validate(); err != nil {
			logger.Warn("dropping invalid generated question",
				zap.String("question", q.QuestionText),
				zap.Error(err),
			)
			continue
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz, nil
}
