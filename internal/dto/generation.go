package dto

import "github.com/source-hub-org/hirebot-ai-api/internal/domain"

// GenerateQuestionsRequest is the request body for triggering generation
// @Description Request body for generating a batch of quiz questions
type GenerateQuestionsRequest struct {
	Topic               string  `json:"topic,omitempty"`
	Language            string  `json:"language,omitempty"`
	Position            string  `json:"position,omitempty"`
	DifficultyText      string  `json:"difficulty_text,omitempty"`
	PositionInstruction string  `json:"position_instruction,omitempty"`
	Temperature         float64 `json:"temperature,omitempty"`
	MaxOutputTokens     int     `json:"max_output_tokens,omitempty"`
	Model               string  `json:"model,omitempty"`
}

// ToOptions maps the request body onto pipeline options.
func (r *GenerateQuestionsRequest) ToOptions() domain.GenerationOptions {
	return domain.GenerationOptions{
		Topic:               r.Topic,
		Language:            r.Language,
		Position:            r.Position,
		DifficultyText:      r.DifficultyText,
		PositionInstruction: r.PositionInstruction,
		Temperature:         r.Temperature,
		MaxOutputTokens:     r.MaxOutputTokens,
		Model:               r.Model,
	}
}

// QuestionResponse represents one validated question in the API response
type QuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Category      string   `json:"category"`
}

// GenerateQuestionsResponse is the success payload of the generate endpoint
type GenerateQuestionsResponse struct {
	RequestID    string             `json:"request_id"`
	ArtifactPath string             `json:"artifact_path"`
	Questions    []QuestionResponse `json:"questions"`
	Warnings     []string           `json:"warnings,omitempty"`
}

// ListQuestionsResponse is the payload of the list endpoint
type ListQuestionsResponse struct {
	Position  string             `json:"position"`
	Questions []QuestionResponse `json:"questions"`
}

// PositionsResponse lists the positions questions exist for
type PositionsResponse struct {
	Positions []string `json:"positions"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToQuestionResponses maps domain questions onto the API shape.
func ToQuestionResponses(questions []domain.QuizQuestion) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionResponse{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Difficulty:    q.Difficulty,
			Category:      q.Category,
		})
	}
	return out
}
