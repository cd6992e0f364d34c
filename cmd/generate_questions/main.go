package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/source-hub-org/hirebot-ai-api/internal/adapter"
	"github.com/source-hub-org/hirebot-ai-api/internal/adapter/artifact"
	"github.com/source-hub-org/hirebot-ai-api/internal/adapter/auditlog"
	"github.com/source-hub-org/hirebot-ai-api/internal/adapter/quizgen"
	"github.com/source-hub-org/hirebot-ai-api/internal/adapter/source"
	"github.com/source-hub-org/hirebot-ai-api/internal/cache"
	"github.com/source-hub-org/hirebot-ai-api/internal/config"
	"github.com/source-hub-org/hirebot-ai-api/internal/database"
	"github.com/source-hub-org/hirebot-ai-api/internal/domain"
	"github.com/source-hub-org/hirebot-ai-api/internal/logger"
	"github.com/source-hub-org/hirebot-ai-api/internal/repository"
	"github.com/source-hub-org/hirebot-ai-api/internal/service"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

func newLLM(cfg config.LLMConfig) (llms.Model, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires llm.api_key")
		}
		return openai.New(openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model))
	case "ollama":
		httpClient := &http.Client{Timeout: 120 * time.Second}
		return ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// Logger is not initialized yet, so use fmt for this critical error
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	appLogger.Info("Batch question generation starting up...")

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()
	repo := repository.NewQuestionDatabaseAdapter(db)

	var cacheAdapter domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis client", zap.Error(err))
		}
		cacheAdapter = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Redis cache initialized successfully")
	} else {
		appLogger.Warn("Redis cache is not configured. Running without cache.")
	}

	llm, err := newLLM(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}
	genClient, err := quizgen.NewLangchainGenerator(llm, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create generation client", zap.Error(err))
	}

	template := ""
	if cfg.Generation.TemplatePath != "" {
		data, err := os.ReadFile(cfg.Generation.TemplatePath)
		if err != nil {
			appLogger.Fatal("Failed to read prompt template override", zap.Error(err))
		}
		template = string(data)
	}

	// Batch runs dedup against everything already persisted for the position,
	// plus the static file context when present.
	contextSource := source.NewMultiQuestionsSource(
		source.NewFileExistingQuestionsSource(cfg.Generation.ExistingQuestionsPath),
		source.NewRepositoryQuestionsSource(repo, cacheAdapter, cfg.Batch.ContextCacheTTL, appLogger),
	)

	generationSvc := service.NewGenerationService(
		source.NewFileFormatSource(cfg.Generation.FormatPath),
		contextSource,
		service.NewPromptBuilder(template),
		genClient,
		service.NewContentExtractor(appLogger),
		service.NewQuestionValidator(appLogger),
		artifact.NewFileArtifactStore(cfg.Generation.OutputDir),
		auditlog.NewFileAuditLog(cfg.Generation.AuditDir, appLogger),
		cfg.LLM,
		cfg.Generation.StrictMode,
		appLogger,
	)

	batchSvc := service.NewBatchService(generationSvc, repo, cacheAdapter, cfg, appLogger)

	if err := batchSvc.GenerateAndSaveAll(context.Background()); err != nil {
		appLogger.Fatal("Batch generation failed", zap.Error(err))
	}
	appLogger.Info("Batch question generation finished")
}
