package gemini

import (
	"fmt"
	"strings"
)

// BuildQuizPrompt assembles the generation prompt for a topic. The
// avoid list carries previews of recently stored questions; when it is
// empty the duplication section is omitted entirely.
func BuildQuizPrompt(topic string, count int, avoid []string) string {
	var b strings.Builder

	b.WriteString("You are a JSON API. Respond with ONLY a valid JSON object, no other text.\n\n")
	fmt.Fprintf(&b, "Create a multiple-choice quiz about \"%s\" with exactly %d questions.\n\n", topic, count)
	b.WriteString("Each question must have exactly 4 options and exactly one correct answer.\n")
	b.WriteString("The correctAnswer value must match one of the options verbatim.\n")
	b.WriteString("Write the questions, options, and explanations in Korean.\n\n")

	if len(avoid) > 0 {
		b.WriteString("Do NOT create questions similar to any of the following existing questions:\n")
		for _, preview := range avoid {
			fmt.Fprintf(&b, "- %s\n", preview)
		}
		b.WriteString("\n")
	}

	b.WriteString("Respond with this exact JSON structure:\n")
	b.WriteString(`{
  "quizTitle": "...",
  "questions": [
    {
      "questionText": "...",
      "options": ["...", "...", "...", "..."],
      "correctAnswer": "...",
      "explanation": "..."
    }
  ]
}`)

	return b.String()
}
