package service

import (
	"strings"
	"testing"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"

	"github.com/stretchr/testify/assert"
)

func testFormat() *domain.QuestionFormat {
	return &domain.QuestionFormat{
		Schema:  []byte(`{"type":"array"}`),
		Example: []byte(`{"question":"What is Go?"}`),
	}
}

func TestPromptBuilder_SubstitutesAllPlaceholders(t *testing.T) {
	b := NewPromptBuilder("")
	prompt := b.Build(testFormat(), []string{"Q1?", "Q2?"}, domain.GenerationOptions{
		Topic:    "goroutines",
		Language: "Go",
		Position: "backend engineer",
	})

	assert.Contains(t, prompt, "goroutines")
	assert.Contains(t, prompt, "using the Go programming language")
	assert.Contains(t, prompt, "appropriate for a backend engineer position")
	assert.Contains(t, prompt, `{"type":"array"}`)
	assert.Contains(t, prompt, `{"question":"What is Go?"}`)
	assert.Contains(t, prompt, "- Q1?\n- Q2?")
	assert.NotContains(t, prompt, "{topic}")
	assert.NotContains(t, prompt, "{existingQuestions}")
}

func TestPromptBuilder_MissingTopicFallsBack(t *testing.T) {
	b := NewPromptBuilder("")
	prompt := b.Build(testFormat(), nil, domain.GenerationOptions{})
	assert.Contains(t, prompt, "various software development topics")
}

func TestPromptBuilder_MissingLanguageAndPositionRenderEmpty(t *testing.T) {
	b := NewPromptBuilder("about {topic}{language}.\n{positionInstruction}")
	prompt := b.Build(testFormat(), nil, domain.GenerationOptions{Topic: "SQL"})
	assert.Equal(t, "about SQL.\n", prompt)
}

func TestPromptBuilder_ExplicitPositionInstructionWins(t *testing.T) {
	b := NewPromptBuilder("{positionInstruction}")
	prompt := b.Build(testFormat(), nil, domain.GenerationOptions{
		Position:            "backend",
		PositionInstruction: "Target senior staff candidates.",
	})
	assert.Equal(t, "Target senior staff candidates.", prompt)
}

func TestPromptBuilder_ExistingQuestionsBulletList(t *testing.T) {
	b := NewPromptBuilder("{existingQuestions}")

	prompt := b.Build(testFormat(), []string{"What is a mutex?", "", "  What is a channel?  "}, domain.GenerationOptions{})
	assert.Equal(t, "- What is a mutex?\n- What is a channel?", prompt)
}

func TestPromptBuilder_EmptyContextRendersEmptyList(t *testing.T) {
	b := NewPromptBuilder("")
	prompt := b.Build(testFormat(), nil, domain.GenerationOptions{Topic: "testing"})
	// The prompt renders with an empty dedup list rather than failing.
	assert.NotContains(t, prompt, "{existingQuestions}")
	assert.False(t, strings.Contains(prompt, "- "), "no bullet entries expected, got: %s", prompt)
}

func TestPromptBuilder_DefaultDifficultyText(t *testing.T) {
	b := NewPromptBuilder("{difficultyText}")

	assert.Equal(t, defaultDifficultyText, b.Build(testFormat(), nil, domain.GenerationOptions{}))
	assert.Equal(t, "Only hard questions.", b.Build(testFormat(), nil, domain.GenerationOptions{DifficultyText: "Only hard questions."}))
}

func TestPromptBuilder_TemplateOverride(t *testing.T) {
	b := NewPromptBuilder("TOPIC={topic}")
	assert.Equal(t, "TOPIC=concurrency", b.Build(testFormat(), nil, domain.GenerationOptions{Topic: "concurrency"}))
}

func TestPromptBuilder_NilFormat(t *testing.T) {
	b := NewPromptBuilder("{schema}|{example}")
	assert.Equal(t, "|", b.Build(nil, nil, domain.GenerationOptions{}))
}
