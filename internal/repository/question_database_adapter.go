package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/source-hub-org/hirebot-ai-api/internal/domain"
	"github.com/source-hub-org/hirebot-ai-api/internal/repository/models"
	"github.com/source-hub-org/hirebot-ai-api/internal/util"

	"github.com/jmoiron/sqlx"
)

// QuestionDatabaseAdapter implements domain.QuestionRepository using sqlx.DB
type QuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuestionDatabaseAdapter creates a new instance of QuestionDatabaseAdapter
func NewQuestionDatabaseAdapter(db *sqlx.DB) domain.QuestionRepository {
	return &QuestionDatabaseAdapter{db: db}
}

// SaveQuestions implements domain.QuestionRepository. Database identity (a
// ULID key) is assigned here; the pipeline's QuizQuestion values have none.
func (a *QuestionDatabaseAdapter) SaveQuestions(ctx context.Context, position string, questions []domain.QuizQuestion) error {
	if len(questions) == 0 {
		return nil
	}

	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewPersistenceError("Failed to begin transaction for question batch", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO generated_questions
		(id, position, question, options, correct_answer, explanation, difficulty, category, created_at, updated_at)
		VALUES (:1, :2, :3, :4, :5, :6, :7, :8, :9, :10)`

	now := time.Now()
	for _, q := range questions {
		optionsValue, err := models.StringSlice(q.Options).Value()
		if err != nil {
			return domain.NewPersistenceError("Failed to encode question options", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			util.NewULID(),
			position,
			q.Question,
			optionsValue,
			q.CorrectAnswer,
			q.Explanation,
			q.Difficulty,
			q.Category,
			now,
			now,
		); err != nil {
			return domain.NewPersistenceError(fmt.Sprintf("Failed to insert generated question %q", q.Question), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewPersistenceError("Failed to commit question batch", err)
	}
	return nil
}

// GetQuestionTextsByPosition implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetQuestionTextsByPosition(ctx context.Context, position string) ([]string, error) {
	query := `SELECT question "question"
	FROM generated_questions
	WHERE position = :1
	AND deleted_at IS NULL
	ORDER BY created_at`

	var texts []string
	if err := a.db.SelectContext(ctx, &texts, query, position); err != nil {
		return nil, fmt.Errorf("failed to get question texts for position %s: %w", position, err)
	}
	return texts, nil
}

// ListQuestions implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) ListQuestions(ctx context.Context, position string, limit int) ([]domain.QuizQuestion, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT
		id "id",
		position "position",
		question "question",
		options "options",
		correct_answer "correct_answer",
		explanation "explanation",
		difficulty "difficulty",
		category "category",
		created_at "created_at",
		updated_at "updated_at",
		deleted_at "deleted_at"
	FROM generated_questions
	WHERE position = :1
	AND deleted_at IS NULL
	ORDER BY created_at DESC
	FETCH FIRST :2 ROWS ONLY`

	var rows []models.GeneratedQuestion
	if err := a.db.SelectContext(ctx, &rows, query, position, limit); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list questions for position %s: %w", position, err)
	}

	questions := make([]domain.QuizQuestion, 0, len(rows))
	for _, row := range rows {
		questions = append(questions, toDomainQuestion(&row))
	}
	return questions, nil
}

// GetAllPositions implements domain.QuestionRepository
func (a *QuestionDatabaseAdapter) GetAllPositions(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT position "position"
	FROM generated_questions
	WHERE deleted_at IS NULL
	ORDER BY position`

	var positions []string
	if err := a.db.SelectContext(ctx, &positions, query); err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	return positions, nil
}

func toDomainQuestion(m *models.GeneratedQuestion) domain.QuizQuestion {
	return domain.QuizQuestion{
		Question:      m.Question,
		Options:       m.Options,
		CorrectAnswer: m.CorrectAnswer,
		Explanation:   m.Explanation,
		Difficulty:    m.Difficulty,
		Category:      m.Category,
	}
}
