package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

// Handler exposes the session and quiz-catalog contract as JSON over
// HTTP. State distribution is pull-based: clients poll the status and
// responses endpoints on their own interval.
type Handler struct {
	service *app.SessionService
}

func NewHandler(service *app.SessionService) *Handler {
	return &Handler{service: service}
}

// Register wires all routes onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/sessions", h.createSession)
	mux.HandleFunc("GET /api/sessions/{code}", h.status)
	mux.HandleFunc("DELETE /api/sessions/{code}", h.closeSession)
	mux.HandleFunc("POST /api/sessions/{code}/join", h.join)
	mux.HandleFunc("POST /api/sessions/{code}/start", h.start)
	mux.HandleFunc("POST /api/sessions/{code}/advance", h.advance)
	mux.HandleFunc("POST /api/sessions/{code}/end", h.end)
	mux.HandleFunc("POST /api/sessions/{code}/restart", h.restart)
	mux.HandleFunc("POST /api/sessions/{code}/answers", h.submitAnswer)
	mux.HandleFunc("GET /api/sessions/{code}/responses", h.responses)
	mux.HandleFunc("GET /api/sessions/{code}/leaderboard", h.leaderboard)
	mux.HandleFunc("GET /api/quizzes", h.listQuizzes)
	mux.HandleFunc("GET /api/quizzes/{id}", h.quizByID)
	mux.HandleFunc("DELETE /api/quizzes/{id}", h.deleteQuiz)
	mux.HandleFunc("GET /api/quizzes/by-code/{code}", h.quizByCode)
}

type createSessionRequest struct {
	QuizID string `json:"quizId"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if !decode(w, r, &req) {
		return
	}
	code, err := h.service.CreateSession(r.Context(), req.QuizID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "code": code})
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Status(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CloseSession(r.Context(), r.PathValue("code")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type joinRequest struct {
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

func (h *Handler) join(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if !decode(w, r, &req) {
		return
	}
	participant, err := h.service.Join(r.Context(), r.PathValue("code"), req.Name, req.IsHost)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"participantId": participant.ID,
		"isHost":        participant.IsHost,
	})
}

func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Start(r.Context(), r.PathValue("code")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type advanceRequest struct {
	CurrentQuestion int `json:"currentQuestion"`
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if !decode(w, r, &req) {
		return
	}
	result, err := h.service.Advance(r.Context(), r.PathValue("code"), req.CurrentQuestion)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"ended":           result.Ended,
		"currentQuestion": result.Index,
	})
}

func (h *Handler) end(w http.ResponseWriter, r *http.Request) {
	if err := h.service.End(r.Context(), r.PathValue("code")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) restart(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Restart(r.Context(), r.PathValue("code")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type submitRequest struct {
	ParticipantID int    `json:"participantId"`
	QuestionID    string `json:"questionId"`
	AnswerID      string `json:"answerId"`
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decode(w, r, &req) {
		return
	}
	correct, err := h.service.SubmitAnswer(r.Context(), r.PathValue("code"), req.ParticipantID, req.QuestionID, req.AnswerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "correct": correct})
}

func (h *Handler) responses(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Responses(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Leaderboard(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

func (h *Handler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListQuizzes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quizzes": summaries})
}

func (h *Handler) quizByID(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.QuizByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *Handler) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteQuiz(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) quizByCode(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.service.QuizBySessionCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "reason": "bad_request"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}

// writeError maps domain failures to a stable reason code the UI can
// branch on, plus an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	reason, status := "internal_error", http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrQuizNotFound):
		reason, status = "not_found", http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidState):
		reason, status = "invalid_state", http.StatusConflict
	case errors.Is(err, domain.ErrUnknownParticipant):
		reason, status = "unknown_participant", http.StatusNotFound
	case errors.Is(err, domain.ErrSessionNotActive):
		reason, status = "session_not_active", http.StatusConflict
	case errors.Is(err, domain.ErrStaleQuestion):
		reason, status = "stale_question", http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAnswer):
		reason, status = "invalid_answer", http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrAlreadyAnswered):
		reason, status = "already_answered", http.StatusConflict
	case errors.Is(err, domain.ErrHostTaken):
		reason, status = "host_taken", http.StatusConflict
	case errors.Is(err, domain.ErrJoinClosed):
		reason, status = "join_closed", http.StatusForbidden
	default:
		log.Printf("internal error: %v", err)
	}
	writeJSON(w, status, map[string]any{"success": false, "reason": reason})
}
