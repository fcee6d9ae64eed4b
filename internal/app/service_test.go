package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
	"live-quiz-service/internal/infra/memory"
)

func newTestService(opts ...app.RegistryOption) *app.SessionService {
	store := memory.NewSessionStore()
	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Sample",
			Questions: []domain.Question{
				{
					ID:     "q1",
					Number: 1,
					Text:   "First",
					Answers: []domain.Answer{
						{ID: "a1", Text: "Right", Correct: true},
						{ID: "a2", Text: "Wrong", Correct: false},
					},
				},
				{
					ID:     "q2",
					Number: 2,
					Text:   "Second",
					Answers: []domain.Answer{
						{ID: "a1", Text: "Right", Correct: true},
						{ID: "a2", Text: "Wrong", Correct: false},
					},
				},
			},
		},
	}), 5*time.Minute)
	registry := app.NewRegistry(store, opts...)
	return app.NewSessionService(registry, quizRepo)
}

func TestHostedQuizFullFlow(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	code, err := service.CreateSession(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	p1, err := service.Join(ctx, code, "P1", false)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if p1.ID != 1 {
		t.Fatalf("expected first participant id 1, got %d", p1.ID)
	}

	if err := service.Start(ctx, code); err != nil {
		t.Fatalf("start: %v", err)
	}
	status, err := service.Status(ctx, code)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.State != domain.StateActive || status.CurrentQuestion != 0 {
		t.Fatalf("unexpected status after start: %+v", status)
	}

	correct, err := service.SubmitAnswer(ctx, code, p1.ID, "q1", "a1")
	if err != nil || !correct {
		t.Fatalf("expected accepted correct answer, got correct=%v err=%v", correct, err)
	}

	result, err := service.Advance(ctx, code, 0)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if result.Ended || result.Index != 1 {
		t.Fatalf("unexpected advance result: %+v", result)
	}

	correct, err = service.SubmitAnswer(ctx, code, p1.ID, "q2", "a2")
	if err != nil || correct {
		t.Fatalf("expected accepted wrong answer, got correct=%v err=%v", correct, err)
	}

	result, err = service.Advance(ctx, code, 1)
	if err != nil {
		t.Fatalf("terminal advance: %v", err)
	}
	if !result.Ended {
		t.Fatalf("expected quiz to end: %+v", result)
	}
	status, _ = service.Status(ctx, code)
	if status.State != domain.StateResults {
		t.Fatalf("expected results, got %s", status.State)
	}

	entries, err := service.Leaderboard(ctx, code)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %+v", entries)
	}
	if entries[0].ParticipantID != p1.ID || entries[0].Correct != 1 || entries[0].Answered != 2 {
		t.Fatalf("unexpected leaderboard entry: %+v", entries[0])
	}
}

func TestCreateSessionUnknownQuiz(t *testing.T) {
	service := newTestService()
	if _, err := service.CreateSession(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestOperationsOnUnknownCode(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	if _, err := service.Status(ctx, "NOPE99"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("status: expected ErrSessionNotFound, got %v", err)
	}
	if err := service.Start(ctx, "NOPE99"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("start: expected ErrSessionNotFound, got %v", err)
	}
	if _, err := service.SubmitAnswer(ctx, "NOPE99", 1, "q1", "a1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("submit: expected ErrSessionNotFound, got %v", err)
	}
}

func TestResponsesTracksCurrentQuestion(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	code, err := service.CreateSession(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	p1, _ := service.Join(ctx, code, "P1", false)
	p2, _ := service.Join(ctx, code, "P2", false)
	if err := service.Start(ctx, code); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := service.SubmitAnswer(ctx, code, p1.ID, "q1", "a1"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	view, err := service.Responses(ctx, code)
	if err != nil {
		t.Fatalf("responses: %v", err)
	}
	if view.QuestionID != "q1" || len(view.Responses) != 1 {
		t.Fatalf("unexpected responses view: %+v", view)
	}
	if _, ok := view.Responses[p2.ID]; ok {
		t.Fatalf("p2 has not answered yet: %+v", view.Responses)
	}

	if _, err := service.Advance(ctx, code, 0); err != nil {
		t.Fatalf("advance: %v", err)
	}
	view, _ = service.Responses(ctx, code)
	if view.QuestionID != "q2" || len(view.Responses) != 0 {
		t.Fatalf("responses should follow the cursor: %+v", view)
	}
}

func TestRestartThenSecondRun(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	code, err := service.CreateSession(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	p1, _ := service.Join(ctx, code, "P1", false)
	if err := service.Start(ctx, code); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := service.SubmitAnswer(ctx, code, p1.ID, "q1", "a1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := service.End(ctx, code); err != nil {
		t.Fatalf("end: %v", err)
	}

	if err := service.Restart(ctx, code); err != nil {
		t.Fatalf("restart: %v", err)
	}
	status, _ := service.Status(ctx, code)
	if status.State != domain.StateWaiting || status.CurrentQuestion != -1 {
		t.Fatalf("unexpected status after restart: %+v", status)
	}

	if err := service.Start(ctx, code); err != nil {
		t.Fatalf("second start: %v", err)
	}
	if _, err := service.SubmitAnswer(ctx, code, p1.ID, "q1", "a2"); err != nil {
		t.Fatalf("submit on second run: %v", err)
	}
}

func TestCloseSessionFreesCode(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	code, err := service.CreateSession(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := service.CloseSession(ctx, code); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := service.Status(ctx, code); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestQuizBySessionCode(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	code, err := service.CreateSession(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	quiz, err := service.QuizBySessionCode(ctx, code)
	if err != nil {
		t.Fatalf("quiz by code: %v", err)
	}
	if quiz.ID != "quiz-1" {
		t.Fatalf("unexpected quiz %q", quiz.ID)
	}
}
