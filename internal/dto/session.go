package dto

// SessionStats are pre-computed aggregate counts for a finished session.
type SessionStats struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

// SessionQuestion is a quiz question extended with the user's answer.
type SessionQuestion struct {
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectAnswer      string   `json:"correctAnswer"`
	Explanation        string   `json:"explanation,omitempty"`
	UserSelectedIndex  *int     `json:"userSelectedIndex,omitempty"`
	UserSelectedAnswer *string  `json:"userSelectedAnswer,omitempty"`
	IsCorrect          *bool    `json:"isCorrect,omitempty"`
}

// QuizSession is a completed quiz with user answers, submitted for
// markdown rendering or export. It is never persisted.
type QuizSession struct {
	QuizTitle string            `json:"quizTitle"`
	Questions []SessionQuestion `json:"questions"`
	Stats     *SessionStats     `json:"stats,omitempty"`
}
