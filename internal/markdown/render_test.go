package markdown

import (
	"strings"
	"testing"

	"auknowlog/internal/dto"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func sampleSession() *dto.QuizSession {
	return &dto.QuizSession{
		QuizTitle: "Go 퀴즈",
		Questions: []dto.SessionQuestion{
			{
				QuestionText:       "Go의 제네릭 도입 버전은?",
				Options:            []string{"1.16", "1.17", "1.18", "1.19"},
				CorrectAnswer:      "1.18",
				Explanation:        "Go 1.18에서 도입되었다.",
				UserSelectedAnswer: ptr("1.18"),
				IsCorrect:          ptr(true),
			},
			{
				QuestionText:       "채널의 제로 값은?",
				Options:            []string{"빈 채널", "nil", "닫힌 채널", "버퍼 채널"},
				CorrectAnswer:      "nil",
				UserSelectedAnswer: ptr("빈 채널"),
				IsCorrect:          ptr(false),
			},
			{
				QuestionText:  "goroutine 시작 키워드는?",
				Options:       []string{"go", "run", "spawn", "async"},
				CorrectAnswer: "go",
			},
		},
	}
}

func TestRender(t *testing.T) {
	t.Run("renders title and question headers", func(t *testing.T) {
		out := Render(sampleSession())
		assert.True(t, strings.HasPrefix(out, "# Go 퀴즈\n\n"))
		assert.Contains(t, out, "## Q1. Go의 제네릭 도입 버전은?")
		assert.Contains(t, out, "## Q2. 채널의 제로 값은?")
		assert.Contains(t, out, "## Q3. goroutine 시작 키워드는?")
	})

	t.Run("renders options with letter labels", func(t *testing.T) {
		out := Render(sampleSession())
		assert.Contains(t, out, "- A. 1.16\n- B. 1.17\n- C. 1.18\n- D. 1.19")
	})

	t.Run("renders status lines per answer state", func(t *testing.T) {
		out := Render(sampleSession())
		assert.Contains(t, out, "✅ 내 답: 1.18")
		assert.Contains(t, out, "❌ 내 답: 빈 채널  |  정답: nil")
		assert.Contains(t, out, "❗ 미응답  |  정답: go")
	})

	t.Run("counts stats when absent, including unanswered", func(t *testing.T) {
		out := Render(sampleSession())
		assert.Contains(t, out, "총 3문항 · 정답 1 · 오답 1 · 미응답 1")
	})

	t.Run("uses submitted stats verbatim without unanswered suffix", func(t *testing.T) {
		session := sampleSession()
		session.Stats = &dto.SessionStats{Total: 3, Correct: 2, Wrong: 1}
		out := Render(session)
		assert.Contains(t, out, "총 3문항 · 정답 2 · 오답 1\n")
		assert.NotContains(t, out, "· 미응답")
	})

	t.Run("renders explanation only when present", func(t *testing.T) {
		out := Render(sampleSession())
		assert.Contains(t, out, "설명: Go 1.18에서 도입되었다.")
		assert.Equal(t, 1, strings.Count(out, "설명:"))
	})

	t.Run("falls back to default title", func(t *testing.T) {
		session := sampleSession()
		session.QuizTitle = "  "
		out := Render(session)
		assert.True(t, strings.HasPrefix(out, "# 퀴즈 결과\n"))
	})

	t.Run("resolves answer from selected index", func(t *testing.T) {
		session := sampleSession()
		session.Questions[1].UserSelectedAnswer = nil
		session.Questions[1].UserSelectedIndex = ptr(0)
		out := Render(session)
		assert.Contains(t, out, "❌ 내 답: 빈 채널  |  정답: nil")
	})

	t.Run("derives correctness from the answer when isCorrect is absent", func(t *testing.T) {
		session := &dto.QuizSession{
			QuizTitle: "파생 퀴즈",
			Questions: []dto.SessionQuestion{
				{
					QuestionText:       "정답을 고르면?",
					Options:            []string{"a", "b", "c", "d"},
					CorrectAnswer:      "a",
					UserSelectedIndex:  ptr(0),
					UserSelectedAnswer: ptr("a "),
				},
			},
		}
		out := Render(session)
		assert.Contains(t, out, "총 1문항 · 정답 1 · 오답 0")
		assert.Contains(t, out, "✅ 내 답: a ")
		assert.NotContains(t, out, "미응답")
	})

	t.Run("derived wrong answer renders as wrong", func(t *testing.T) {
		session := &dto.QuizSession{
			Questions: []dto.SessionQuestion{
				{
					QuestionText:       "정답을 고르면?",
					Options:            []string{"a", "b", "c", "d"},
					CorrectAnswer:      "a",
					UserSelectedAnswer: ptr("b"),
				},
			},
		}
		out := Render(session)
		assert.Contains(t, out, "총 1문항 · 정답 0 · 오답 1")
		assert.Contains(t, out, "❌ 내 답: b  |  정답: a")
	})

	t.Run("index-only answer is not unanswered", func(t *testing.T) {
		session := &dto.QuizSession{
			Questions: []dto.SessionQuestion{
				{
					QuestionText:      "정답을 고르면?",
					Options:           []string{"a", "b", "c", "d"},
					CorrectAnswer:     "a",
					UserSelectedIndex: ptr(0),
				},
			},
		}
		out := Render(session)
		assert.Contains(t, out, "✅ 내 답: a")
		assert.NotContains(t, out, "미응답")
	})

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, Render(sampleSession()), Render(sampleSession()))
	})
}
