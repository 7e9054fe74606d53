package interview

import (
	"time"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/google/uuid"
)

// Snapshot is the serialized form of a session, written to the session store
// on every transition and rehydrated on load. A snapshot can represent a
// paused session; the evaluating guard is deliberately not captured — an
// in-flight scoring call does not survive a reload, and the question is
// simply re-answerable after rehydration.
type Snapshot struct {
	CandidateID   uuid.UUID `json:"candidate_id"`
	CandidateName string    `json:"candidate_name"`

	State     State            `json:"state"`
	Questions []model.Question `json:"questions"`
	Answers   []model.Answer   `json:"answers"`
	Current   int              `json:"current_question_index"`

	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	TimeRemaining     int       `json:"time_remaining"`
	QuestionStartedAt time.Time `json:"question_started_at"`

	PausedAt            *time.Time `json:"paused_at,omitempty"`
	PausedQuestionID    string     `json:"paused_question_id,omitempty"`
	PausedTimeRemaining *int       `json:"paused_time_remaining,omitempty"`

	Transcript []model.ChatMessage `json:"transcript"`
}

// Snapshot captures the session state for persistence.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		CandidateID:       s.candidateID,
		CandidateName:     s.candidateName,
		State:             s.state,
		Questions:         append([]model.Question(nil), s.questions...),
		Answers:           append([]model.Answer(nil), s.answers...),
		Current:           s.current,
		StartTime:         s.startTime,
		EndTime:           s.endTime,
		TimeRemaining:     s.timeRemaining,
		QuestionStartedAt: s.questionStartedAt,
		PausedAt:          s.pausedAt,
		PausedQuestionID:  s.pausedQuestionID,
		Transcript:        append([]model.ChatMessage(nil), s.transcript...),
	}
	if s.pausedTimeRemaining != nil {
		v := *s.pausedTimeRemaining
		snap.PausedTimeRemaining = &v
	}
	return snap
}

// FromSnapshot rebuilds a session from its persisted form. Callers must
// follow up with ResyncTimer (for active sessions) rather than trusting the
// stored time_remaining, which is stale by however long the snapshot sat in
// storage.
func FromSnapshot(snap Snapshot) *Session {
	s := &Session{
		candidateID:       snap.CandidateID,
		candidateName:     snap.CandidateName,
		state:             snap.State,
		questions:         snap.Questions,
		answers:           snap.Answers,
		current:           snap.Current,
		startTime:         snap.StartTime,
		endTime:           snap.EndTime,
		timeRemaining:     snap.TimeRemaining,
		questionStartedAt: snap.QuestionStartedAt,
		pausedAt:          snap.PausedAt,
		pausedQuestionID:  snap.PausedQuestionID,
		transcript:        snap.Transcript,
		clock:             time.Now,
	}
	if snap.PausedTimeRemaining != nil {
		v := *snap.PausedTimeRemaining
		s.pausedTimeRemaining = &v
	}
	return s
}
