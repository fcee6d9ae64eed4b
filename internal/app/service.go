package app

import (
	"context"

	"live-quiz-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store) and covers
// the catalog operations the client layer consumes.
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
	ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
	DeleteQuiz(ctx context.Context, quizID string) error
}

// SessionService is the use-case facade the transport layer calls. It
// composes the session registry with the quiz repository; all per-session
// state changes go through the session's own lock.
type SessionService struct {
	registry *Registry
	quizzes  QuizRepository
}

func NewSessionService(registry *Registry, quizzes QuizRepository) *SessionService {
	return &SessionService{registry: registry, quizzes: quizzes}
}

// CreateSession resolves the quiz and mints a new waiting session for it,
// returning the join code.
func (s *SessionService) CreateSession(ctx context.Context, quizID string) (string, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return "", err
	}
	session, err := s.registry.Create(quiz)
	if err != nil {
		return "", err
	}
	return session.Code(), nil
}

// Join adds a participant to the session identified by code.
func (s *SessionService) Join(ctx context.Context, code, name string, isHost bool) (domain.Participant, error) {
	session, err := s.registry.Get(code)
	if err != nil {
		return domain.Participant{}, err
	}
	return session.Join(name, isHost)
}

// Status returns the session snapshot polling clients consume.
func (s *SessionService) Status(ctx context.Context, code string) (domain.SessionSnapshot, error) {
	session, err := s.registry.Get(code)
	if err != nil {
		return domain.SessionSnapshot{}, err
	}
	return session.Snapshot(), nil
}

// Start begins the quiz (waiting → active, question 0).
func (s *SessionService) Start(ctx context.Context, code string) error {
	session, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	return session.Start()
}

// Advance moves the host's cursor forward. fromIndex guards against
// duplicate clicks; see Session.Advance.
func (s *SessionService) Advance(ctx context.Context, code string, fromIndex int) (AdvanceResult, error) {
	session, err := s.registry.Get(code)
	if err != nil {
		return AdvanceResult{}, err
	}
	return session.Advance(fromIndex)
}

// End forces the session to results. Idempotent.
func (s *SessionService) End(ctx context.Context, code string) error {
	session, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	return session.End()
}

// Restart rewinds the session to waiting, keeping the roster.
func (s *SessionService) Restart(ctx context.Context, code string) error {
	session, err := s.registry.Get(code)
	if err != nil {
		return err
	}
	return session.Restart()
}

// CloseSession tears the session down entirely; the code becomes free.
func (s *SessionService) CloseSession(ctx context.Context, code string) error {
	if _, err := s.registry.Get(code); err != nil {
		return err
	}
	s.registry.Remove(code)
	return nil
}

// SubmitAnswer records one answer and reports its correctness so the
// caller can give feedback without a second round trip.
func (s *SessionService) SubmitAnswer(ctx context.Context, code string, participantID int, questionID, answerID string) (bool, error) {
	session, err := s.registry.Get(code)
	if err != nil {
		return false, err
	}
	return session.Submit(participantID, questionID, answerID)
}

// ResponsesView is the host progress display: who has answered the
// current question.
type ResponsesView struct {
	CurrentQuestion int                         `json:"currentQuestion"`
	QuestionID      string                      `json:"questionId,omitempty"`
	Responses       map[int]domain.AnswerRecord `json:"responses"`
	Participants    []domain.Participant        `json:"participants"`
}

// Responses reports submissions for the session's current question.
func (s *SessionService) Responses(ctx context.Context, code string) (ResponsesView, error) {
	session, err := s.registry.Get(code)
	if err != nil {
		return ResponsesView{}, err
	}
	snapshot := session.Snapshot()
	view := ResponsesView{
		CurrentQuestion: snapshot.CurrentQuestion,
		Responses:       map[int]domain.AnswerRecord{},
		Participants:    snapshot.Participants,
	}
	if snapshot.CurrentQuestion >= 0 && snapshot.CurrentQuestion < len(session.Quiz().Questions) {
		view.QuestionID = session.Quiz().Questions[snapshot.CurrentQuestion].ID
		view.Responses = session.ResponsesFor(view.QuestionID)
	}
	return view, nil
}

// Leaderboard recomputes the ranking from the session's ledger.
func (s *SessionService) Leaderboard(ctx context.Context, code string) ([]domain.LeaderboardEntry, error) {
	session, err := s.registry.Get(code)
	if err != nil {
		return nil, err
	}
	return session.Leaderboard(), nil
}

// QuizByID exposes the quiz catalog lookup.
func (s *SessionService) QuizByID(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.quizzes.GetQuiz(ctx, quizID)
}

// QuizBySessionCode resolves a quiz through the live session it runs in.
func (s *SessionService) QuizBySessionCode(ctx context.Context, code string) (domain.Quiz, error) {
	session, err := s.registry.Get(code)
	if err != nil {
		return domain.Quiz{}, err
	}
	return session.Quiz(), nil
}

// ListQuizzes exposes the quiz catalog listing.
func (s *SessionService) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	return s.quizzes.ListQuizzes(ctx)
}

// DeleteQuiz removes a quiz from the catalog. Live sessions keep their
// in-memory copy; the quiz stays immutable for their lifetime.
func (s *SessionService) DeleteQuiz(ctx context.Context, quizID string) error {
	return s.quizzes.DeleteQuiz(ctx, quizID)
}
