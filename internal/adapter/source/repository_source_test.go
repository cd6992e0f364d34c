package source

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/source-hub-org/hirebot-ai-api/internal/cache"
	"github.com/source-hub-org/hirebot-ai-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRepository struct {
	texts []string
	err   error
	calls int
}

func (r *stubRepository) SaveQuestions(ctx context.Context, position string, questions []domain.QuizQuestion) error {
	return nil
}

func (r *stubRepository) GetQuestionTextsByPosition(ctx context.Context, position string) ([]string, error) {
	r.calls++
	return r.texts, r.err
}

func (r *stubRepository) ListQuestions(ctx context.Context, position string, limit int) ([]domain.QuizQuestion, error) {
	return nil, nil
}

func (r *stubRepository) GetAllPositions(ctx context.Context) ([]string, error) {
	return nil, nil
}

type stubCache struct {
	entries map[string]string
	getErr  error
	setErr  error
	sets    map[string]string
}

func newStubCache() *stubCache {
	return &stubCache{entries: map[string]string{}, sets: map[string]string{}}
}

func (c *stubCache) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	v, ok := c.entries[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (c *stubCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.sets[key] = value
	return nil
}

func (c *stubCache) Delete(ctx context.Context, key string) error { return nil }
func (c *stubCache) Ping(ctx context.Context) error               { return nil }

func TestRepositorySource_CacheHitSkipsRepository(t *testing.T) {
	repo := &stubRepository{texts: []string{"from repo"}}
	cacheAdapter := newStubCache()
	cacheAdapter.entries[cache.QuestionTextsKey("backend")] = `["from cache"]`

	src := NewRepositoryQuestionsSource(repo, cacheAdapter, time.Minute, zap.NewNop())
	texts, err := src.Load(context.Background(), "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"from cache"}, texts)
	assert.Zero(t, repo.calls)
}

func TestRepositorySource_CacheMissPopulatesCache(t *testing.T) {
	repo := &stubRepository{texts: []string{"Q1?", "Q2?"}}
	cacheAdapter := newStubCache()

	src := NewRepositoryQuestionsSource(repo, cacheAdapter, time.Minute, zap.NewNop())
	texts, err := src.Load(context.Background(), "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?", "Q2?"}, texts)
	assert.Equal(t, 1, repo.calls)
	assert.JSONEq(t, `["Q1?","Q2?"]`, cacheAdapter.sets[cache.QuestionTextsKey("backend")])
}

func TestRepositorySource_EmptyResultNotCached(t *testing.T) {
	repo := &stubRepository{}
	cacheAdapter := newStubCache()

	src := NewRepositoryQuestionsSource(repo, cacheAdapter, time.Minute, zap.NewNop())
	texts, err := src.Load(context.Background(), "backend")
	require.NoError(t, err)
	assert.Empty(t, texts)
	assert.Empty(t, cacheAdapter.sets)
}

func TestRepositorySource_CorruptCacheEntryFallsBack(t *testing.T) {
	repo := &stubRepository{texts: []string{"Q1?"}}
	cacheAdapter := newStubCache()
	cacheAdapter.entries[cache.QuestionTextsKey("backend")] = "{not json"

	src := NewRepositoryQuestionsSource(repo, cacheAdapter, time.Minute, zap.NewNop())
	texts, err := src.Load(context.Background(), "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?"}, texts)
	assert.Equal(t, 1, repo.calls)
}

func TestRepositorySource_CacheOutageFallsBack(t *testing.T) {
	repo := &stubRepository{texts: []string{"Q1?"}}
	cacheAdapter := newStubCache()
	cacheAdapter.getErr = fmt.Errorf("redis down")

	src := NewRepositoryQuestionsSource(repo, cacheAdapter, time.Minute, zap.NewNop())
	texts, err := src.Load(context.Background(), "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?"}, texts)
}

func TestRepositorySource_NilCache(t *testing.T) {
	repo := &stubRepository{texts: []string{"Q1?"}}

	src := NewRepositoryQuestionsSource(repo, nil, time.Minute, zap.NewNop())
	texts, err := src.Load(context.Background(), "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?"}, texts)
}

func TestRepositorySource_RepositoryFailureFatal(t *testing.T) {
	repo := &stubRepository{err: fmt.Errorf("ORA-12541")}

	src := NewRepositoryQuestionsSource(repo, nil, time.Minute, zap.NewNop())
	_, err := src.Load(context.Background(), "backend")
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.ErrContextLoad, domainErr.Code)
}

type listSource struct {
	texts []string
	err   error
}

func (s *listSource) Load(ctx context.Context, topic string) ([]string, error) {
	return s.texts, s.err
}

func TestMultiSource_MergesAndDeduplicates(t *testing.T) {
	src := NewMultiQuestionsSource(
		&listSource{texts: []string{"Q1?", "Q2?"}},
		&listSource{texts: []string{"Q2?", "Q3?"}},
	)
	texts, err := src.Load(context.Background(), "backend")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1?", "Q2?", "Q3?"}, texts)
}

func TestMultiSource_AnyFailureFatal(t *testing.T) {
	src := NewMultiQuestionsSource(
		&listSource{texts: []string{"Q1?"}},
		&listSource{err: fmt.Errorf("source down")},
	)
	_, err := src.Load(context.Background(), "backend")
	require.Error(t, err)
}
