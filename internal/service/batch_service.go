package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/source-hub-org/hirebot-ai-api/internal/cache"
	"github.com/source-hub-org/hirebot-ai-api/internal/config"
	"github.com/source-hub-org/hirebot-ai-api/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BatchService runs the generation pipeline for every configured position and
// persists the validated batches. Pipeline invocations are independent, so
// positions are processed with bounded concurrency.
type BatchService interface {
	GenerateAndSaveAll(ctx context.Context) error
}

type batchService struct {
	generationSvc GenerationService
	repo          domain.QuestionRepository
	cacheAdapter  domain.Cache
	cfg           *config.Config
	logger        *zap.Logger
}

// NewBatchService creates a new instance of batchService. cacheAdapter may be
// nil to run without cache invalidation.
func NewBatchService(
	generationSvc GenerationService,
	repo domain.QuestionRepository,
	cacheAdapter domain.Cache,
	cfg *config.Config,
	logger *zap.Logger,
) BatchService {
	return &batchService{
		generationSvc: generationSvc,
		repo:          repo,
		cacheAdapter:  cacheAdapter,
		cfg:           cfg,
		logger:        logger,
	}
}

// GenerateAndSaveAll implements BatchService. Per-position failures are
// logged and skipped; the run fails only when every position failed.
func (s *batchService) GenerateAndSaveAll(ctx context.Context) error {
	positions := s.cfg.Batch.Positions
	if len(positions) == 0 {
		var err error
		positions, err = s.repo.GetAllPositions(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch positions: %w", err)
		}
	}
	if len(positions) == 0 {
		s.logger.Info("No positions configured or persisted. Batch process finishing early.")
		return nil
	}

	concurrency := s.cfg.Batch.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	var failures atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, position := range positions {
		g.Go(func() error {
			if err := s.generateForPosition(gctx, position); err != nil {
				failures.Add(1)
				s.logger.Error("Batch generation failed for position",
					zap.String("position", position),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	// Goroutines never return errors; Wait only joins them.
	_ = g.Wait()

	if int(failures.Load()) == len(positions) {
		return fmt.Errorf("batch generation failed for all %d positions", len(positions))
	}
	s.logger.Info("Batch generation finished",
		zap.Int("positions", len(positions)),
		zap.Int32("failures", failures.Load()),
	)
	return nil
}

func (s *batchService) generateForPosition(ctx context.Context, position string) error {
	s.logger.Info("Processing position", zap.String("position", position))

	result, err := s.generationSvc.GenerateQuestions(ctx, domain.GenerationOptions{
		Topic:    position,
		Position: position,
	})
	if err != nil {
		return err
	}

	if err := s.repo.SaveQuestions(ctx, position, result.Questions); err != nil {
		return err
	}

	// The dedup context for this position and the cached positions list are
	// now stale.
	if s.cacheAdapter != nil {
		for _, key := range []string{cache.QuestionTextsKey(position), cache.PositionsKey()} {
			if err := s.cacheAdapter.Delete(ctx, key); err != nil {
				s.logger.Warn("Failed to invalidate cache entry",
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}
	}

	s.logger.Info("Persisted generated questions",
		zap.String("position", position),
		zap.Int("count", len(result.Questions)),
		zap.String("artifact_path", result.ArtifactPath),
	)
	return nil
}
