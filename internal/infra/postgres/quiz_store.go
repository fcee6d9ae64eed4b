package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"live-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// QuizStore loads quiz JSONB documents from Postgres and serves the
// catalog operations (list, delete) the client layer consumes.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var (
		raw       []byte
		createdAt time.Time
	)
	err := s.pool.QueryRow(ctx, `SELECT data, created_at FROM quizzes WHERE id=$1`, quizID).Scan(&raw, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	quiz.ID = quizID
	quiz.CreatedAt = createdAt
	return quiz, nil
}

func (s *QuizStore) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title, description, created_at FROM quizzes ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var summaries []domain.QuizSummary
	for rows.Next() {
		var summary domain.QuizSummary
		if err := rows.Scan(&summary.ID, &summary.Title, &summary.Description, &summary.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return summaries, nil
}

func (s *QuizStore) DeleteQuiz(ctx context.Context, quizID string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM quizzes WHERE id=$1`, quizID)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}
