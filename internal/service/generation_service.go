package service

import (
	"context"
	"time"

	"github.com/source-hub-org/hirebot-ai-api/internal/config"
	"github.com/source-hub-org/hirebot-ai-api/internal/domain"
	"github.com/source-hub-org/hirebot-ai-api/internal/util"

	"go.uber.org/zap"
)

// GenerationService runs the question-generation pipeline end to end:
// load format and dedup context, build the prompt, call the generation
// client, extract and validate the response, persist the artifact.
type GenerationService interface {
	GenerateQuestions(ctx context.Context, opts domain.GenerationOptions) (*domain.GenerationResult, error)
}

type generationService struct {
	formatSource  domain.FormatSource
	contextSource domain.ExistingQuestionsSource
	promptBuilder *PromptBuilder
	client        domain.GenerationClient
	extractor     *ContentExtractor
	validator     *QuestionValidator
	store         domain.ArtifactStore
	auditLog      domain.AuditLog
	llmCfg        config.LLMConfig
	strictMode    bool
	logger        *zap.Logger
}

// NewGenerationService creates the pipeline orchestrator. All collaborators
// and directories are explicit construction-time configuration.
func NewGenerationService(
	formatSource domain.FormatSource,
	contextSource domain.ExistingQuestionsSource,
	promptBuilder *PromptBuilder,
	client domain.GenerationClient,
	extractor *ContentExtractor,
	validator *QuestionValidator,
	store domain.ArtifactStore,
	auditLog domain.AuditLog,
	llmCfg config.LLMConfig,
	strictMode bool,
	logger *zap.Logger,
) GenerationService {
	return &generationService{
		formatSource:  formatSource,
		contextSource: contextSource,
		promptBuilder: promptBuilder,
		client:        client,
		extractor:     extractor,
		validator:     validator,
		store:         store,
		auditLog:      auditLog,
		llmCfg:        llmCfg,
		strictMode:    strictMode,
		logger:        logger,
	}
}

// GenerateQuestions implements GenerationService. The pipeline applies no
// retries and no timeouts of its own: retries live inside the generation
// client, timeouts are the client's and the caller's concern.
func (s *generationService) GenerateQuestions(ctx context.Context, opts domain.GenerationOptions) (*domain.GenerationResult, error) {
	requestID := util.NewULID()
	meta := domain.GenerationMetadata{
		Timestamp: time.Now().UTC(),
		RequestID: requestID,
		Options:   opts,
	}
	s.logger.Info("Starting question generation",
		zap.String("request_id", requestID),
		zap.String("topic", opts.Topic),
		zap.String("position", opts.Position),
		zap.Bool("strict_mode", s.strictMode),
	)

	format, err := s.formatSource.Load(ctx)
	if err != nil {
		s.auditLog.LogError(requestID, "format_load", err)
		return nil, err
	}

	existing, err := s.contextSource.Load(ctx, opts.Topic)
	if err != nil {
		s.auditLog.LogError(requestID, "context_load", err)
		return nil, err
	}

	prompt := s.promptBuilder.Build(format, existing, opts)
	s.auditLog.LogPrompt(requestID, prompt)

	raw, err := s.client.Generate(ctx, prompt, s.paramsFor(opts))
	if err != nil {
		wrapped := domain.NewGenerationServiceError(err)
		s.auditLog.LogError(requestID, "generation", wrapped)
		s.auditLog.LogConversation(meta, prompt, "", wrapped.Error())
		return nil, wrapped
	}
	s.auditLog.LogResponse(requestID, raw)

	items, err := s.extractor.Extract(raw, s.strictMode)
	if err != nil {
		s.auditLog.LogError(requestID, "extraction", err)
		s.auditLog.LogConversation(meta, prompt, raw, err.Error())
		return nil, err
	}

	questions, warnings, err := s.validator.ValidateBatch(items, s.strictMode)
	if err != nil {
		s.auditLog.LogError(requestID, "validation", err)
		s.auditLog.LogConversation(meta, prompt, raw, err.Error())
		return nil, err
	}

	artifactPath, err := s.store.SaveBatch(ctx, questions)
	if err != nil {
		s.auditLog.LogError(requestID, "persistence", err)
		s.auditLog.LogConversation(meta, prompt, raw, err.Error())
		return nil, err
	}

	s.auditLog.LogConversation(meta, prompt, raw, "")
	s.logger.Info("Question generation succeeded",
		zap.String("request_id", requestID),
		zap.Int("num_questions", len(questions)),
		zap.Int("num_warnings", len(warnings)),
		zap.String("artifact_path", artifactPath),
	)

	result := &domain.GenerationResult{
		ArtifactPath: artifactPath,
		Questions:    questions,
		RequestID:    requestID,
	}
	for _, w := range warnings {
		result.Warnings = append(result.Warnings, w.String())
	}
	return result, nil
}

// paramsFor merges per-request options over the configured client defaults.
func (s *generationService) paramsFor(opts domain.GenerationOptions) domain.GenerationParams {
	params := domain.GenerationParams{
		Temperature:     s.llmCfg.Temperature,
		MaxOutputTokens: s.llmCfg.MaxOutputTokens,
		Model:           s.llmCfg.Model,
		MaxRetries:      s.llmCfg.MaxRetries,
		RetryDelay:      s.llmCfg.RetryDelay,
	}
	if opts.Temperature > 0 {
		params.Temperature = opts.Temperature
	}
	if opts.MaxOutputTokens > 0 {
		params.MaxOutputTokens = opts.MaxOutputTokens
	}
	if opts.Model != "" {
		params.Model = opts.Model
	}
	return params
}
