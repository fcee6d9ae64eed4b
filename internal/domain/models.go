package domain

import "time"

// SessionState is a session's lifecycle phase.
type SessionState string

const (
	StateWaiting SessionState = "waiting"
	StateActive  SessionState = "active"
	StateResults SessionState = "results"
)

// Answer is one selectable option of a question. Exactly one answer per
// question carries Correct=true.
type Answer struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
	Correct  bool   `json:"correct"`
}

// Question models an MCQ question with exactly one correct answer.
type Question struct {
	ID      string   `json:"id"`
	Number  int      `json:"number"` // 1-based display order
	Text    string   `json:"text"`
	Answers []Answer `json:"answers"`
}

// Quiz is an immutable, ordered collection of questions. Sessions hold a
// reference to it and never mutate it.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
	Questions   []Question `json:"questions"`
}

// QuizSummary is the catalog listing view of a quiz.
type QuizSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Participant is a member of one session's roster. IDs are unique within
// the session only, allocated from 1 in join order; a host entry
// synthesized at session start uses id 0.
type Participant struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	IsHost   bool      `json:"isHost"`
	JoinedAt time.Time `json:"joinedAt"`
}

// AnswerRecord is one accepted submission. At most one record exists per
// (participant, question); a second submission is rejected, never merged.
type AnswerRecord struct {
	ParticipantID int       `json:"participantId"`
	QuestionID    string    `json:"questionId"`
	AnswerID      string    `json:"answerId"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// SessionSnapshot is a consistent read of one session, shaped for the
// polling status endpoint.
type SessionSnapshot struct {
	Code             string                          `json:"code"`
	QuizID           string                          `json:"quizId"`
	State            SessionState                    `json:"status"`
	CurrentQuestion  int                             `json:"currentQuestion"` // -1 before start
	TotalQuestions   int                             `json:"totalQuestions"`
	Participants     []Participant                   `json:"participants"`
	ParticipantCount int                             `json:"participantCount"` // excludes the host
	Responses        map[string]map[int]AnswerRecord `json:"responses"`        // question id -> participant id -> record
	CreatedAt        time.Time                       `json:"createdAt"`
}

// LeaderboardEntry is the derived ranking view for one participant.
type LeaderboardEntry struct {
	ParticipantID int    `json:"participantId"`
	Name          string `json:"name"`
	Correct       int    `json:"correct"`
	Answered      int    `json:"answered"`
}

// QuestionByID returns the question with the given id, if present.
func (q Quiz) QuestionByID(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// AnswerByID returns the answer with the given id, if present.
func (q Question) AnswerByID(id string) (Answer, bool) {
	for _, answer := range q.Answers {
		if answer.ID == id {
			return answer, true
		}
	}
	return Answer{}, false
}
