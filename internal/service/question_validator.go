package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"

	"go.uber.org/zap"
)

// FieldWarning records one lenient-mode repair: which field of which batch
// index was substituted, and why.
type FieldWarning struct {
	Index   int    `json:"index"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w FieldWarning) String() string {
	return fmt.Sprintf("question[%d].%s: %s", w.Index, w.Field, w.Message)
}

// QuestionValidator checks extracted question objects against the required
// schema. Lenient mode repairs fixable violations and never fails on them,
// trading silent substitution for availability; strict mode aborts the whole
// batch on the first violation. Inputs are never mutated: each element is
// transformed into a new QuizQuestion.
type QuestionValidator struct {
	logger *zap.Logger
}

// NewQuestionValidator creates a QuestionValidator.
func NewQuestionValidator(logger *zap.Logger) *QuestionValidator {
	return &QuestionValidator{logger: logger}
}

// ValidateBatch validates every element of items in order. The returned
// warnings list the lenient-mode repairs that were applied.
func (v *QuestionValidator) ValidateBatch(items []interface{}, strictMode bool) ([]domain.QuizQuestion, []FieldWarning, error) {
	questions := make([]domain.QuizQuestion, 0, len(items))
	var warnings []FieldWarning

	for i, item := range items {
		q, w, err := v.validateOne(i, item, strictMode)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
		questions = append(questions, *q)
	}

	for _, w := range warnings {
		v.logger.Warn("Repaired generated question field",
			zap.Int("index", w.Index),
			zap.String("field", w.Field),
			zap.String("message", w.Message),
		)
	}
	return questions, warnings, nil
}

func (v *QuestionValidator) validateOne(index int, item interface{}, strictMode bool) (*domain.QuizQuestion, []FieldWarning, error) {
	var warnings []FieldWarning
	warn := func(field, message string) {
		warnings = append(warnings, FieldWarning{Index: index, Field: field, Message: message})
	}

	obj, ok := item.(map[string]interface{})
	if !ok {
		// A non-object element has no question text; fatal in either mode.
		return nil, nil, domain.NewSchemaValidationError(index, "question", fmt.Sprintf("element is %T, not a question object", item))
	}

	// question: no repair possible, fatal in either mode.
	question, _ := obj["question"].(string)
	if strings.TrimSpace(question) == "" {
		return nil, nil, domain.NewSchemaValidationError(index, "question", "required non-empty string is missing")
	}

	options, err := v.validateOptions(index, obj["options"], strictMode, warn)
	if err != nil {
		return nil, nil, err
	}

	correctAnswer, err := v.validateCorrectAnswer(index, obj, strictMode, warn)
	if err != nil {
		return nil, nil, err
	}

	explanation, _ := obj["explanation"].(string)
	if strings.TrimSpace(explanation) == "" {
		if strictMode {
			return nil, nil, domain.NewSchemaValidationError(index, "explanation", "required non-empty string is missing")
		}
		explanation = fmt.Sprintf("The correct answer is option %d.", correctAnswer+1)
		warn("explanation", "missing explanation synthesized")
	}

	difficulty, _ := obj["difficulty"].(string)
	if domain.IsValidDifficulty(difficulty) {
		difficulty = strings.ToLower(difficulty)
	} else {
		if strictMode {
			return nil, nil, domain.NewSchemaValidationError(index, "difficulty", fmt.Sprintf("%q is not one of easy, medium, hard", difficulty))
		}
		warn("difficulty", fmt.Sprintf("%q replaced with %q", difficulty, domain.DifficultyMedium))
		difficulty = domain.DifficultyMedium
	}

	category, _ := obj["category"].(string)
	if strings.TrimSpace(category) == "" {
		if strictMode {
			return nil, nil, domain.NewSchemaValidationError(index, "category", "required non-empty string is missing")
		}
		category = "General"
		warn("category", `missing category defaulted to "General"`)
	}

	return &domain.QuizQuestion{
		Question:      question,
		Options:       options,
		CorrectAnswer: correctAnswer,
		Explanation:   explanation,
		Difficulty:    difficulty,
		Category:      category,
	}, warnings, nil
}

func (v *QuestionValidator) validateOptions(index int, raw interface{}, strictMode bool, warn func(field, message string)) ([]string, error) {
	arr, ok := raw.([]interface{})
	if !ok {
		if strictMode {
			return nil, domain.NewSchemaValidationError(index, "options", fmt.Sprintf("required array is missing (got %T)", raw))
		}
		warn("options", "missing options array replaced with placeholders")
		arr = nil
	}

	options := make([]string, 0, domain.OptionCount)
	for _, o := range arr {
		s, ok := o.(string)
		if !ok {
			if strictMode {
				return nil, domain.NewSchemaValidationError(index, "options", fmt.Sprintf("option is %T, not a string", o))
			}
			s = fmt.Sprintf("%v", o)
			warn("options", "non-string option stringified")
		}
		options = append(options, s)
	}

	if len(options) == domain.OptionCount {
		return options, nil
	}
	if strictMode {
		return nil, domain.NewSchemaValidationError(index, "options", fmt.Sprintf("expected exactly %d options, got %d", domain.OptionCount, len(options)))
	}
	if len(options) > domain.OptionCount {
		warn("options", fmt.Sprintf("%d options truncated to %d", len(options), domain.OptionCount))
		return options[:domain.OptionCount], nil
	}
	warn("options", fmt.Sprintf("%d options padded to %d with placeholders", len(options), domain.OptionCount))
	for len(options) < domain.OptionCount {
		options = append(options, fmt.Sprintf("Option %d (placeholder)", len(options)+1))
	}
	return options, nil
}

func (v *QuestionValidator) validateCorrectAnswer(index int, obj map[string]interface{}, strictMode bool, warn func(field, message string)) (int, error) {
	raw, present := obj["correctAnswer"]

	if n, ok := raw.(float64); ok && n == float64(int(n)) && inAnswerRange(int(n)) {
		return int(n), nil
	}

	if strictMode {
		return 0, domain.NewSchemaValidationError(index, "correctAnswer", fmt.Sprintf("expected integer in [0,%d], got %v", domain.OptionCount-1, raw))
	}

	// Lenient repairs: coerce an in-range numeric string, otherwise fall
	// back to the first option.
	if s, ok := raw.(string); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && inAnswerRange(n) {
			warn("correctAnswer", fmt.Sprintf("numeric string %q coerced to %d", s, n))
			return n, nil
		}
	}

	if present {
		warn("correctAnswer", fmt.Sprintf("unusable value %v defaulted to 0", raw))
	} else {
		warn("correctAnswer", "missing value defaulted to 0")
	}
	return 0, nil
}

func inAnswerRange(n int) bool {
	return n >= 0 && n < domain.OptionCount
}
