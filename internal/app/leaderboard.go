package app

import (
	"sort"
	"time"

	"live-quiz-service/internal/domain"
)

// rankParticipants derives the leaderboard from an answer ledger. It is a
// pure function of its inputs and is recomputed on every request.
//
// Order: correct answers descending; ties broken by the earlier last
// correct-answer timestamp (faster finishers rank higher), then by fewer
// answered, then by participant id. The final id tiebreak makes the order
// a deterministic total order even for participants with equal names.
func rankParticipants(quiz domain.Quiz, participants []domain.Participant, records []domain.AnswerRecord) []domain.LeaderboardEntry {
	type tally struct {
		correct     int
		answered    int
		lastCorrect time.Time
	}
	tallies := make(map[int]*tally, len(participants))
	entries := make([]domain.LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		if p.IsHost {
			continue
		}
		tallies[p.ID] = &tally{}
		entries = append(entries, domain.LeaderboardEntry{
			ParticipantID: p.ID,
			Name:          p.Name,
		})
	}

	for _, record := range records {
		t, ok := tallies[record.ParticipantID]
		if !ok {
			continue
		}
		t.answered++
		if isCorrect(quiz, record) {
			t.correct++
			if record.SubmittedAt.After(t.lastCorrect) {
				t.lastCorrect = record.SubmittedAt
			}
		}
	}

	for i := range entries {
		t := tallies[entries[i].ParticipantID]
		entries[i].Correct = t.correct
		entries[i].Answered = t.answered
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Correct != b.Correct {
			return a.Correct > b.Correct
		}
		ta, tb := tallies[a.ParticipantID].lastCorrect, tallies[b.ParticipantID].lastCorrect
		if !ta.Equal(tb) {
			return ta.Before(tb)
		}
		if a.Answered != b.Answered {
			return a.Answered < b.Answered
		}
		return a.ParticipantID < b.ParticipantID
	})
	return entries
}

func isCorrect(quiz domain.Quiz, record domain.AnswerRecord) bool {
	question, ok := quiz.QuestionByID(record.QuestionID)
	if !ok {
		return false
	}
	answer, ok := question.AnswerByID(record.AnswerID)
	return ok && answer.Correct
}
