package domain

import "strings"

// Difficulty levels a generated question may carry. Input is matched
// case-insensitively and normalized to these lowercase values.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// OptionCount is the number of answer options every question must have.
const OptionCount = 4

// QuizQuestion is the unit of validated generation output. Instances are
// created only by the validator; once persisted they are never mutated.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
	Category      string   `json:"category"`
}

// IsValidDifficulty reports whether s case-insensitively matches one of the
// known difficulty levels.
func IsValidDifficulty(s string) bool {
	switch strings.ToLower(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}
