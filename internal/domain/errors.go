package domain

import "errors"

var (
	// ErrSessionNotFound is returned for an unknown session code.
	ErrSessionNotFound = errors.New("session not found")
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidState is returned when an operation is not legal in the
	// session's current lifecycle state.
	ErrInvalidState = errors.New("operation not valid in current session state")
	// ErrUnknownParticipant is returned when a submitter has not joined.
	ErrUnknownParticipant = errors.New("participant not found in session")
	// ErrSessionNotActive rejects submissions outside the active phase.
	ErrSessionNotActive = errors.New("session is not active")
	// ErrStaleQuestion rejects submissions for a question the host has
	// already advanced past (or not yet reached).
	ErrStaleQuestion = errors.New("submission does not target the current question")
	// ErrInvalidAnswer is returned when the answer id does not belong to
	// the targeted question.
	ErrInvalidAnswer = errors.New("answer does not belong to question")
	// ErrAlreadyAnswered enforces first-write-wins per (participant, question).
	ErrAlreadyAnswered = errors.New("participant already answered this question")
	// ErrHostTaken is returned when a second participant claims the host slot.
	ErrHostTaken = errors.New("session already has a host")
	// ErrJoinClosed is returned when late joining is disabled and the
	// session has left the waiting phase.
	ErrJoinClosed = errors.New("session is no longer accepting participants")
	// ErrCodeSpaceExhausted signals that code generation kept colliding.
	// Internal: retried before being escalated, never shown per attempt.
	ErrCodeSpaceExhausted = errors.New("could not mint a unique session code")
)
