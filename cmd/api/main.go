package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
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
	"github.com/source-hub-org/hirebot-ai-api/internal/handler"
	"github.com/source-hub-org/hirebot-ai-api/internal/logger"
	"github.com/source-hub-org/hirebot-ai-api/internal/middleware"
	"github.com/source-hub-org/hirebot-ai-api/internal/repository"
	"github.com/source-hub-org/hirebot-ai-api/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

// newLLM constructs the langchaingo backend selected by configuration.
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
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()
	repo := repository.NewQuestionDatabaseAdapter(db)

	// Redis cache is optional; the API degrades to DB-only reads without it.
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

	// Generation pipeline
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

	// Dedup context = file context plus already-persisted question texts.
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

	authSvc, err := service.NewAuthService(cfg.Auth.JWTSecret)
	if err != nil {
		appLogger.Fatal("Failed to create auth service", zap.Error(err))
	}

	questionHandler := handler.NewQuestionHandler(generationSvc, repo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(requestLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	api.Get("/questions", questionHandler.ListQuestions)
	api.Get("/positions", questionHandler.GetAllPositions)
	api.Post("/questions/generate", middleware.Protected(authSvc), questionHandler.GenerateQuestions)

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		appLogger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLogger.Error("Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	appLogger.Info("Starting server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		appLogger.Fatal("Server stopped unexpectedly", zap.Error(err))
	}
}
