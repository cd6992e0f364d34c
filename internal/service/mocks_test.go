package service

import (
	"context"
	"sync"
	"time"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"
)

// --- Manual Mocks ---

type MockFormatSource struct {
	LoadFunc func(ctx context.Context) (*domain.QuestionFormat, error)
}

func (m *MockFormatSource) Load(ctx context.Context) (*domain.QuestionFormat, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx)
	}
	return &domain.QuestionFormat{
		Schema:  []byte(`{"type":"array"}`),
		Example: []byte(`{"question":"example"}`),
	}, nil
}

type MockContextSource struct {
	LoadFunc func(ctx context.Context, topic string) ([]string, error)
}

func (m *MockContextSource) Load(ctx context.Context, topic string) ([]string, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, topic)
	}
	return nil, nil
}

type MockGenerationClient struct {
	GenerateFunc func(ctx context.Context, prompt string, params domain.GenerationParams) (string, error)
	LastPrompt   string
	LastParams   domain.GenerationParams
}

func (m *MockGenerationClient) Generate(ctx context.Context, prompt string, params domain.GenerationParams) (string, error) {
	m.LastPrompt = prompt
	m.LastParams = params
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, params)
	}
	panic("MockGenerationClient.GenerateFunc not implemented")
}

type MockArtifactStore struct {
	SaveBatchFunc func(ctx context.Context, questions []domain.QuizQuestion) (string, error)
	Saved         []domain.QuizQuestion
}

func (m *MockArtifactStore) SaveBatch(ctx context.Context, questions []domain.QuizQuestion) (string, error) {
	m.Saved = questions
	if m.SaveBatchFunc != nil {
		return m.SaveBatchFunc(ctx, questions)
	}
	return "generated/1700000000000.json", nil
}

// RecordingAuditLog captures every audit entry for assertions.
type RecordingAuditLog struct {
	mu            sync.Mutex
	Prompts       []string
	Responses     []string
	Errors        []string
	Conversations []string
}

func (l *RecordingAuditLog) LogPrompt(requestID string, prompt string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Prompts = append(l.Prompts, prompt)
}

func (l *RecordingAuditLog) LogResponse(requestID string, response string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Responses = append(l.Responses, response)
}

func (l *RecordingAuditLog) LogError(requestID string, stage string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, stage+": "+err.Error())
}

func (l *RecordingAuditLog) LogConversation(meta domain.GenerationMetadata, prompt, response, errMsg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Conversations = append(l.Conversations, errMsg)
}

type MockQuestionRepository struct {
	SaveQuestionsFunc              func(ctx context.Context, position string, questions []domain.QuizQuestion) error
	GetQuestionTextsByPositionFunc func(ctx context.Context, position string) ([]string, error)
	ListQuestionsFunc              func(ctx context.Context, position string, limit int) ([]domain.QuizQuestion, error)
	GetAllPositionsFunc            func(ctx context.Context) ([]string, error)

	mu            sync.Mutex
	SavedByOrder  []string
	SavedQuestion map[string][]domain.QuizQuestion
}

func (m *MockQuestionRepository) SaveQuestions(ctx context.Context, position string, questions []domain.QuizQuestion) error {
	m.mu.Lock()
	if m.SavedQuestion == nil {
		m.SavedQuestion = make(map[string][]domain.QuizQuestion)
	}
	m.SavedByOrder = append(m.SavedByOrder, position)
	m.SavedQuestion[position] = questions
	m.mu.Unlock()
	if m.SaveQuestionsFunc != nil {
		return m.SaveQuestionsFunc(ctx, position, questions)
	}
	return nil
}

func (m *MockQuestionRepository) GetQuestionTextsByPosition(ctx context.Context, position string) ([]string, error) {
	if m.GetQuestionTextsByPositionFunc != nil {
		return m.GetQuestionTextsByPositionFunc(ctx, position)
	}
	return nil, nil
}

func (m *MockQuestionRepository) ListQuestions(ctx context.Context, position string, limit int) ([]domain.QuizQuestion, error) {
	if m.ListQuestionsFunc != nil {
		return m.ListQuestionsFunc(ctx, position, limit)
	}
	return nil, nil
}

func (m *MockQuestionRepository) GetAllPositions(ctx context.Context) ([]string, error) {
	if m.GetAllPositionsFunc != nil {
		return m.GetAllPositionsFunc(ctx)
	}
	return nil, nil
}

type MockCache struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value string, expiration time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error

	mu      sync.Mutex
	Deleted []string
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", domain.ErrCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, key)
	m.mu.Unlock()
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return nil
}

func (m *MockCache) Ping(ctx context.Context) error { return nil }

type MockGenerationService struct {
	GenerateQuestionsFunc func(ctx context.Context, opts domain.GenerationOptions) (*domain.GenerationResult, error)
}

func (m *MockGenerationService) GenerateQuestions(ctx context.Context, opts domain.GenerationOptions) (*domain.GenerationResult, error) {
	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, opts)
	}
	panic("MockGenerationService.GenerateQuestionsFunc not implemented")
}
