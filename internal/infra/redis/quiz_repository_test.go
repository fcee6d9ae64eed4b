package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/memory"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute)

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if len(quiz.Questions) != 1 || len(quiz.Questions[0].Answers) != 2 {
		t.Fatalf("quiz not fully cached: %+v", quiz)
	}

	// Second call should hit the cached document, loader not incremented.
	quiz, err = repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("cached get: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	// Validation needs full answer sets, so correctness must survive the cache.
	answer, ok := quiz.Questions[0].AnswerByID("a2")
	if !ok || !answer.Correct {
		t.Fatalf("cached quiz lost answer data: %+v", quiz.Questions[0])
	}
}

func TestQuizRepositoryDeleteInvalidates(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{
		QuizLoader: memory.NewStaticQuizLoader(map[string]domain.Quiz{
			"quiz-1": sampleQuiz(),
		}),
	}
	repo := NewQuizRepository(client, loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if !mr.Exists("quiz:quiz-1:doc") {
		t.Fatalf("expected cached document key")
	}

	if err := repo.DeleteQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("delete quiz: %v", err)
	}
	if mr.Exists("quiz:quiz-1:doc") {
		t.Fatalf("expected cache key invalidated")
	}
	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

type countingLoader struct {
	memory.QuizLoader
	calls int
}

func (l *countingLoader) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.LoadQuiz(ctx, quizID)
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Sample",
		Questions: []domain.Question{
			{
				ID:     "q1",
				Number: 1,
				Text:   "What is 2 + 2?",
				Answers: []domain.Answer{
					{ID: "a1", Text: "3", Correct: false},
					{ID: "a2", Text: "4", Correct: true},
				},
			},
		},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}
