package quizgen

import (
	"context"
	"fmt"
	"time"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LangchainGenerator implements domain.GenerationClient over a langchaingo
// model. Retries are owned here, not by the pipeline: a fixed number of
// attempts with a fixed delay, after which the last error is returned.
type LangchainGenerator struct {
	llm    llms.Model
	logger *zap.Logger
}

// NewLangchainGenerator creates a LangchainGenerator.
func NewLangchainGenerator(llm llms.Model, logger *zap.Logger) (*LangchainGenerator, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm model cannot be nil")
	}
	return &LangchainGenerator{llm: llm, logger: logger}, nil
}

// Generate implements domain.GenerationClient.
func (g *LangchainGenerator) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	var opts []llms.CallOption
	if params.Temperature > 0 {
		opts = append(opts, llms.WithTemperature(params.Temperature))
	}
	if params.MaxOutputTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(params.MaxOutputTokens))
	}
	if params.Model != "" {
		opts = append(opts, llms.WithModel(params.Model))
	}

	attempts := params.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		response, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, opts...)
		if err == nil {
			return response, nil
		}
		lastErr = err
		g.logger.Warn("Generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(params.RetryDelay):
		}
	}
	return "", fmt.Errorf("generation failed after %d attempts: %w", attempts, lastErr)
}

var _ domain.GenerationClient = (*LangchainGenerator)(nil)
