package domain

import (
	"context"
	"encoding/json"
	"time"
)

// QuestionFormat describes the shape the AI is asked to produce. Both fields
// are arbitrary documents echoed into the prompt; they are never validated.
type QuestionFormat struct {
	Schema  json.RawMessage `json:"schema"`
	Example json.RawMessage `json:"example"`
}

// GenerationOptions are the per-request knobs of the pipeline. All fields are
// optional; absent values fall back to client or template defaults.
type GenerationOptions struct {
	Topic               string  `json:"topic,omitempty"`
	Language            string  `json:"language,omitempty"`
	Position            string  `json:"position,omitempty"`
	DifficultyText      string  `json:"difficultyText,omitempty"`
	PositionInstruction string  `json:"positionInstruction,omitempty"`
	Temperature         float64 `json:"temperature,omitempty"`
	MaxOutputTokens     int     `json:"maxOutputTokens,omitempty"`
	Model               string  `json:"model,omitempty"`
}

// GenerationMetadata correlates one pipeline run across audit log entries.
// It is created per request and never mutated.
type GenerationMetadata struct {
	Timestamp time.Time         `json:"timestamp"`
	RequestID string            `json:"requestId"`
	Options   GenerationOptions `json:"options"`
}

// GenerationResult is what the orchestrator returns on success.
type GenerationResult struct {
	ArtifactPath string         `json:"artifactPath"`
	Questions    []QuizQuestion `json:"questions"`
	RequestID    string         `json:"requestId"`
	Warnings     []string       `json:"warnings,omitempty"`
}

// GenerationParams are passed to the GenerationClient per call. Retries live
// entirely inside the client; the pipeline never re-issues a failed call.
type GenerationParams struct {
	Temperature     float64
	MaxOutputTokens int
	Model           string
	MaxRetries      int
	RetryDelay      time.Duration
}

// GenerationClient is the external generative AI service. It accepts a prompt
// and returns free text, or fails after exhausting its own retry policy.
type GenerationClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// FormatSource loads the target question schema/example, fresh per invocation.
type FormatSource interface {
	Load(ctx context.Context) (*QuestionFormat, error)
}

// ExistingQuestionsSource loads the known question texts used as dedup
// context in the prompt. An absent backing source yields an empty slice,
// not an error.
type ExistingQuestionsSource interface {
	Load(ctx context.Context, topic string) ([]string, error)
}

// ArtifactStore persists a validated batch and returns the artifact path.
type ArtifactStore interface {
	SaveBatch(ctx context.Context, questions []QuizQuestion) (string, error)
}

// AuditLog records the conversation with the generation service for
// debugging. Implementations must swallow their own write failures: a logging
// outage never blocks question generation.
type AuditLog interface {
	LogPrompt(requestID string, prompt string)
	LogResponse(requestID string, response string)
	LogError(requestID string, stage string, err error)
	LogConversation(meta GenerationMetadata, prompt, response, errMsg string)
}

// QuestionRepository is the persistence collaborator. Identity (database key)
// is assigned here, after the pipeline is done with the batch.
type QuestionRepository interface {
	SaveQuestions(ctx context.Context, position string, questions []QuizQuestion) error
	GetQuestionTextsByPosition(ctx context.Context, position string) ([]string, error)
	ListQuestions(ctx context.Context, position string, limit int) ([]QuizQuestion, error)
	GetAllPositions(ctx context.Context) ([]string, error)
}

// Cache defines cache operations needed by services
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
