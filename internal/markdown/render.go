package markdown

import (
	"fmt"
	"strings"

	"auknowlog/internal/dto"
)

const defaultTitle = "퀴즈 결과"

// Render produces the markdown document for a finished quiz session.
// The output depends only on the session contents; identical sessions
// always render to identical documents.
func Render(session *dto.QuizSession) string {
	var b strings.Builder

	title := session.QuizTitle
	if strings.TrimSpace(title) == "" {
		title = defaultTitle
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	stats := resolveStats(session)
	fmt.Fprintf(&b, "총 %d문항 · 정답 %d · 오답 %d", stats.Total, stats.Correct, stats.Wrong)
	if unanswered := stats.Total - stats.Correct - stats.Wrong; session.Stats == nil && unanswered > 0 {
		fmt.Fprintf(&b, " · 미응답 %d", unanswered)
	}
	b.WriteString("\n\n")

	for i, q := range session.Questions {
		fmt.Fprintf(&b, "## Q%d. %s\n\n", i+1, q.QuestionText)
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "- %c. %s\n", 'A'+j, opt)
		}
		b.WriteString("\n")

		answered, correct := verdict(q)
		switch {
		case answered && correct:
			fmt.Fprintf(&b, "✅ 내 답: %s\n", answerOf(q))
		case answered:
			fmt.Fprintf(&b, "❌ 내 답: %s  |  정답: %s\n", answerOf(q), q.CorrectAnswer)
		default:
			fmt.Fprintf(&b, "❗ 미응답  |  정답: %s\n", q.CorrectAnswer)
		}

		if strings.TrimSpace(q.Explanation) != "" {
			fmt.Fprintf(&b, "\n설명: %s\n", q.Explanation)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// resolveStats uses the submitted aggregate when present, and counts
// from the per-question results otherwise.
func resolveStats(session *dto.QuizSession) dto.SessionStats {
	if session.Stats != nil {
		return *session.Stats
	}
	stats := dto.SessionStats{Total: len(session.Questions)}
	for _, q := range session.Questions {
		answered, correct := verdict(q)
		if !answered {
			continue
		}
		if correct {
			stats.Correct++
		} else {
			stats.Wrong++
		}
	}
	return stats
}

// verdict resolves whether a question was answered and answered
// correctly. An explicit isCorrect wins; otherwise the user's answer is
// compared against the correct one (trimmed), and only a question with
// neither a selected index nor a selected answer counts as unanswered.
func verdict(q dto.SessionQuestion) (answered, correct bool) {
	if q.IsCorrect != nil {
		return true, *q.IsCorrect
	}
	if q.UserSelectedIndex == nil && q.UserSelectedAnswer == nil {
		return false, false
	}
	return true, strings.TrimSpace(answerOf(q)) == strings.TrimSpace(q.CorrectAnswer)
}

// answerOf resolves the user's answer text, preferring the explicit
// answer over the selected index.
func answerOf(q dto.SessionQuestion) string {
	if q.UserSelectedAnswer != nil {
		return *q.UserSelectedAnswer
	}
	if q.UserSelectedIndex != nil && *q.UserSelectedIndex >= 0 && *q.UserSelectedIndex < len(q.Options) {
		return q.Options[*q.UserSelectedIndex]
	}
	return ""
}
