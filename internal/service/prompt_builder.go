package service

import (
	"fmt"
	"strings"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"
)

// defaultTopicFallback is rendered when no topic is supplied, so the prompt
// never contains an empty "about" clause.
const defaultTopicFallback = "various software development topics"

// defaultDifficultyText is rendered when the caller gives no difficulty
// instruction of its own.
const defaultDifficultyText = "The questions should span easy, medium and hard difficulty levels."

// defaultPromptTemplate is the built-in template. An externally supplied
// override (see NewPromptBuilder) replaces it wholesale; both use the same
// named placeholders.
const defaultPromptTemplate = `You are an expert technical interviewer creating multiple-choice quiz questions.

Generate a batch of quiz questions about {topic}{language}.
{positionInstruction}
{difficultyText}

Every question object MUST conform to this JSON schema:
{schema}

Example of one valid question object:
{example}

Do NOT generate questions that duplicate or closely paraphrase any of the following existing questions:
{existingQuestions}

Respond with ONLY a single JSON array of question objects. No prose, no markdown fences.`

// PromptBuilder renders the generation prompt from the question format, the
// dedup context and the per-request options. It is a pure string transform
// and has no error conditions.
type PromptBuilder struct {
	template string
}

// NewPromptBuilder creates a PromptBuilder. An empty template selects the
// built-in default.
func NewPromptBuilder(template string) *PromptBuilder {
	if strings.TrimSpace(template) == "" {
		template = defaultPromptTemplate
	}
	return &PromptBuilder{template: template}
}

// Build substitutes the named placeholders into the template.
func (b *PromptBuilder) Build(format *domain.QuestionFormat, existingQuestions []string, opts domain.GenerationOptions) string {
	topic := opts.Topic
	if topic == "" {
		topic = defaultTopicFallback
	}

	language := ""
	if opts.Language != "" {
		language = fmt.Sprintf(" using the %s programming language", opts.Language)
	}

	positionInstruction := opts.PositionInstruction
	if positionInstruction == "" && opts.Position != "" {
		positionInstruction = fmt.Sprintf("The questions should be appropriate for a %s position.", opts.Position)
	}

	difficultyText := opts.DifficultyText
	if difficultyText == "" {
		difficultyText = defaultDifficultyText
	}

	schema := ""
	example := ""
	if format != nil {
		schema = string(format.Schema)
		example = string(format.Example)
	}

	replacer := strings.NewReplacer(
		"{topic}", topic,
		"{language}", language,
		"{difficultyText}", difficultyText,
		"{positionInstruction}", positionInstruction,
		"{schema}", schema,
		"{existingQuestions}", renderExistingQuestions(existingQuestions),
		"{example}", example,
	)
	return replacer.Replace(b.template)
}

// renderExistingQuestions renders the dedup context as a bullet list, one
// question per line.
func renderExistingQuestions(questions []string) string {
	if len(questions) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		sb.WriteString("- ")
		sb.WriteString(q)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
