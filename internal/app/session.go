package app

import (
	"sync"
	"time"

	"live-quiz-service/internal/domain"
)

// defaultHostName is used when a session must synthesize its host entry.
const defaultHostName = "Host"

// ledgerKey identifies one accepted submission within a session.
type ledgerKey struct {
	participantID int
	questionID    string
}

// Session is one live run of a quiz under a unique code. It composes the
// roster, the question cursor, and the answer ledger behind a single lock:
// every mutator runs exclusively, every read sees a consistent snapshot.
type Session struct {
	code      string
	quiz      domain.Quiz
	createdAt time.Time
	now       func() time.Time

	allowLateJoin bool
	hostName      string

	mu           sync.RWMutex
	state        domain.SessionState
	index        int // -1 until started
	participants []domain.Participant
	nextID       int
	ledger       map[ledgerKey]domain.AnswerRecord
	lastActivity time.Time
}

// SessionOption tweaks session policy at construction time.
type SessionOption func(*Session)

// WithClock makes timestamps deterministic in tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithLateJoin controls whether participants may join after the session
// has left the waiting phase. Enabled by default; late joiners simply
// have no prior answers.
func WithLateJoin(allowed bool) SessionOption {
	return func(s *Session) { s.allowLateJoin = allowed }
}

// WithHostName sets the display name of the synthesized host entry.
func WithHostName(name string) SessionOption {
	return func(s *Session) {
		if name != "" {
			s.hostName = name
		}
	}
}

// NewSession constructs a session in the waiting state with an empty
// roster and ledger. The quiz is treated as immutable from here on.
func NewSession(code string, quiz domain.Quiz, opts ...SessionOption) *Session {
	s := &Session{
		code:          code,
		quiz:          quiz,
		now:           time.Now,
		allowLateJoin: true,
		hostName:      defaultHostName,
		state:         domain.StateWaiting,
		index:         -1,
		nextID:        1,
		ledger:        make(map[ledgerKey]domain.AnswerRecord),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.createdAt = s.now()
	s.lastActivity = s.createdAt
	return s
}

// Code returns the session's join code.
func (s *Session) Code() string { return s.code }

// Quiz returns the quiz this session runs.
func (s *Session) Quiz() domain.Quiz { return s.quiz }

// Join adds a participant to the roster and returns it. Participant ids
// are monotonic from 1 in join order. A second claim on the host slot
// fails with ErrHostTaken; joining a started session fails with
// ErrJoinClosed when late join is disabled.
func (s *Session) Join(name string, isHost bool) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.allowLateJoin && s.state != domain.StateWaiting {
		return domain.Participant{}, domain.ErrJoinClosed
	}
	if isHost && s.hostLocked() != nil {
		return domain.Participant{}, domain.ErrHostTaken
	}
	return s.joinLocked(name, isHost), nil
}

func (s *Session) joinLocked(name string, isHost bool) domain.Participant {
	p := domain.Participant{
		ID:       s.nextID,
		Name:     name,
		IsHost:   isHost,
		JoinedAt: s.now(),
	}
	s.nextID++
	s.participants = append(s.participants, p)
	s.touchLocked()
	return p
}

func (s *Session) hostLocked() *domain.Participant {
	for i := range s.participants {
		if s.participants[i].IsHost {
			return &s.participants[i]
		}
	}
	return nil
}

// Participants returns the roster in insertion order.
func (s *Session) Participants() []domain.Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Participant, len(s.participants))
	copy(out, s.participants)
	return out
}

// ParticipantCount counts roster members, optionally without the host.
func (s *Session) ParticipantCount(excludingHost bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := len(s.participants)
	if excludingHost {
		for _, p := range s.participants {
			if p.IsHost {
				count--
			}
		}
	}
	return count
}

// Start moves the session from waiting to active at question 0 and
// synthesizes the host roster entry if no participant claimed it yet.
// The synthesized host gets id 0 so it never consumes an id from the
// join sequence.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateWaiting {
		return domain.ErrInvalidState
	}
	if s.hostLocked() == nil {
		s.participants = append(s.participants, domain.Participant{
			ID:       0,
			Name:     s.hostName,
			IsHost:   true,
			JoinedAt: s.now(),
		})
	}
	s.state = domain.StateActive
	s.index = 0
	s.touchLocked()
	return nil
}

// AdvanceResult reports what a host advance command did.
type AdvanceResult struct {
	// Advanced is false when the call was recognized as a duplicate of
	// an advance that already happened.
	Advanced bool
	// Ended is true once the session has transitioned to results.
	Ended bool
	// Index is the current question index after the call.
	Index int
}

// Advance moves the cursor to the next question. fromIndex is the index
// the caller believes is current: when it no longer matches, another
// advance already won the race (a host double-click) and the call no-ops
// successfully instead of skipping a question. Advancing past the last
// question transitions the session to results, reported via Ended.
func (s *Session) Advance(fromIndex int) (AdvanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateResults {
		// The terminal advance leaves the cursor on the last question, so
		// a duplicate of it still carries a matching index.
		if fromIndex == s.index {
			return AdvanceResult{Ended: true, Index: s.index}, nil
		}
		return AdvanceResult{}, domain.ErrInvalidState
	}
	if s.state != domain.StateActive {
		return AdvanceResult{}, domain.ErrInvalidState
	}
	if fromIndex != s.index {
		return AdvanceResult{Index: s.index}, nil
	}

	s.touchLocked()
	if s.index+1 >= len(s.quiz.Questions) {
		s.state = domain.StateResults
		return AdvanceResult{Advanced: true, Ended: true, Index: s.index}, nil
	}
	s.index++
	return AdvanceResult{Advanced: true, Index: s.index}, nil
}

// End forces the session into results. Calling End on a session already
// showing results is a no-op success.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateResults {
		s.state = domain.StateResults
	}
	s.touchLocked()
	return nil
}

// Restart rewinds the session to waiting so the same quiz can run again
// under the same code: cursor back to -1, ledger cleared, roster kept.
func (s *Session) Restart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = domain.StateWaiting
	s.index = -1
	s.ledger = make(map[ledgerKey]domain.AnswerRecord)
	s.touchLocked()
	return nil
}

// Submit records an answer for the currently active question and returns
// whether the chosen answer is correct. Validation order: participant
// known, session active, question current, answer belongs to question,
// not answered before. First write wins; retries see ErrAlreadyAnswered
// and the original record stands.
func (s *Session) Submit(participantID int, questionID, answerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.participantExistsLocked(participantID) {
		return false, domain.ErrUnknownParticipant
	}
	if s.state != domain.StateActive {
		return false, domain.ErrSessionNotActive
	}
	current := s.quiz.Questions[s.index]
	if questionID != current.ID {
		return false, domain.ErrStaleQuestion
	}
	answer, ok := current.AnswerByID(answerID)
	if !ok {
		return false, domain.ErrInvalidAnswer
	}
	key := ledgerKey{participantID: participantID, questionID: questionID}
	if _, exists := s.ledger[key]; exists {
		return false, domain.ErrAlreadyAnswered
	}

	s.ledger[key] = domain.AnswerRecord{
		ParticipantID: participantID,
		QuestionID:    questionID,
		AnswerID:      answerID,
		SubmittedAt:   s.now(),
	}
	s.touchLocked()
	return answer.Correct, nil
}

func (s *Session) participantExistsLocked(id int) bool {
	for _, p := range s.participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

// ResponsesFor returns the accepted records for one question, keyed by
// participant id.
func (s *Session) ResponsesFor(questionID string) map[int]domain.AnswerRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int]domain.AnswerRecord)
	for key, record := range s.ledger {
		if key.questionID == questionID {
			out[key.participantID] = record
		}
	}
	return out
}

// Snapshot returns a consistent copy of the whole session for the status
// endpoint. Cheap by design: polling clients call this every interval.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	participants := make([]domain.Participant, len(s.participants))
	copy(participants, s.participants)

	count := len(s.participants)
	for _, p := range s.participants {
		if p.IsHost {
			count--
		}
	}

	responses := make(map[string]map[int]domain.AnswerRecord)
	for key, record := range s.ledger {
		perQuestion, ok := responses[key.questionID]
		if !ok {
			perQuestion = make(map[int]domain.AnswerRecord)
			responses[key.questionID] = perQuestion
		}
		perQuestion[key.participantID] = record
	}

	return domain.SessionSnapshot{
		Code:             s.code,
		QuizID:           s.quiz.ID,
		State:            s.state,
		CurrentQuestion:  s.index,
		TotalQuestions:   len(s.quiz.Questions),
		Participants:     participants,
		ParticipantCount: count,
		Responses:        responses,
		CreatedAt:        s.createdAt,
	}
}

// Leaderboard ranks the session's participants from its ledger.
func (s *Session) Leaderboard() []domain.LeaderboardEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]domain.AnswerRecord, 0, len(s.ledger))
	for _, record := range s.ledger {
		records = append(records, record)
	}
	return rankParticipants(s.quiz, s.participants, records)
}

// IdleSince reports the last mutating activity, used by the registry sweep.
func (s *Session) IdleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActivity
}

func (s *Session) touchLocked() {
	s.lastActivity = s.now()
}
