package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/source-hub-org/hirebot-ai-api/internal/cache"
	"github.com/source-hub-org/hirebot-ai-api/internal/domain"

	"go.uber.org/zap"
)

// RepositoryQuestionsSource loads the dedup context from the question
// repository, with an optional cache in front. Cache failures degrade to
// repository reads; repository failures are fatal.
type RepositoryQuestionsSource struct {
	repo   domain.QuestionRepository
	cache  domain.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewRepositoryQuestionsSource creates a RepositoryQuestionsSource. cache may
// be nil to run without caching.
func NewRepositoryQuestionsSource(repo domain.QuestionRepository, cacheAdapter domain.Cache, ttl time.Duration, logger *zap.Logger) *RepositoryQuestionsSource {
	return &RepositoryQuestionsSource{repo: repo, cache: cacheAdapter, ttl: ttl, logger: logger}
}

// Load implements domain.ExistingQuestionsSource. The position the batch runs
// for is passed through the topic parameter.
func (s *RepositoryQuestionsSource) Load(ctx context.Context, position string) ([]string, error) {
	key := cache.QuestionTextsKey(position)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			var texts []string
			if err := json.Unmarshal([]byte(cached), &texts); err == nil {
				return texts, nil
			}
			s.logger.Warn("Discarding undecodable cached dedup context", zap.String("key", key))
		} else if err != domain.ErrCacheMiss {
			s.logger.Warn("Cache read failed, falling back to repository", zap.String("key", key), zap.Error(err))
		}
	}

	texts, err := s.repo.GetQuestionTextsByPosition(ctx, position)
	if err != nil {
		return nil, domain.NewContextLoadError("question repository", err)
	}

	if s.cache != nil && len(texts) > 0 {
		if data, err := json.Marshal(texts); err == nil {
			if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
				s.logger.Warn("Failed to cache dedup context", zap.String("key", key), zap.Error(err))
			}
		}
	}
	return texts, nil
}

var _ domain.ExistingQuestionsSource = (*RepositoryQuestionsSource)(nil)
