package dto

// QuizRequest is the request body for quiz creation endpoints.
type QuizRequest struct {
	Topic             string `json:"topic"`
	NumberOfQuestions *int   `json:"numberOfQuestions,omitempty"`
}

const (
	DefaultQuestionCount = 10
	MinQuestionCount     = 1
	MaxQuestionCount     = 20
)

// TargetCount resolves the requested question count, applying the default
// and clamping to the allowed range.
func (r *QuizRequest) TargetCount() int {
	count := DefaultQuestionCount
	if r.NumberOfQuestions != nil {
		count = *r.NumberOfQuestions
	}
	if count < MinQuestionCount {
		count = MinQuestionCount
	}
	if count > MaxQuestionCount {
		count = MaxQuestionCount
	}
	return count
}

// QuestionResponse is a single question in the API response.
type QuestionResponse struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// QuizResponse is a generated quiz in the API response.
type QuizResponse struct {
	QuizTitle string             `json:"quizTitle"`
	Questions []QuestionResponse `json:"questions"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
