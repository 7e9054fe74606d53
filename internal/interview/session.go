package interview

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/google/uuid"
)

// State enumerates the session lifecycle. Paused is reachable only from
// Active and always returns to Active, or to Ended via explicit termination.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateActive     State = "ACTIVE"
	StatePaused     State = "PAUSED"
	StateEnded      State = "ENDED"
)

// Canned feedback for zero-score submissions. The text distinguishes a
// countdown expiry from a voluntary blank submit; both score zero.
const (
	FeedbackTimeout = "Time's up! No answer provided within the time limit. Score: 0/100"
	FeedbackEmpty   = "No answer provided. Score: 0/100"
)

// NoAnswerText is stored as the answer body when the candidate submitted
// nothing, so transcripts render something readable.
const NoAnswerText = "[No answer provided]"

var (
	ErrNoQuestions     = errors.New("interview requires a non-empty question set")
	ErrBadQuestionSet  = fmt.Errorf("interview requires exactly %d questions", model.QuestionsPerInterview)
	ErrNotActive       = errors.New("interview session is not active")
	ErrNotPaused       = errors.New("interview session is not paused")
	ErrAlreadyStarted  = errors.New("interview session already started")
	ErrEvaluating      = errors.New("an answer is already being evaluated")
	ErrNoQuestionLeft  = errors.New("no current question")
	ErrSessionNotFound = errors.New("no interview session for candidate")
)

// Session is the interview state machine for one candidate. Every public
// transition takes the session lock, so each multi-step mutation (append
// answer, advance index, reset countdown) is observed atomically.
//
// The session is headless: it touches no clock source other than the
// injected one, no storage, and no network. Persistence and the oracle are
// driven by the caller around the transition boundaries.
type Session struct {
	mu sync.Mutex

	candidateID   uuid.UUID
	candidateName string

	state     State
	questions []model.Question
	answers   []model.Answer
	current   int

	startTime time.Time
	endTime   *time.Time

	// timeRemaining is the live countdown for the current question. Never
	// negative; frozen while paused.
	timeRemaining int
	// questionStartedAt anchors wall-clock resync for the current question.
	questionStartedAt time.Time

	pausedAt            *time.Time
	pausedQuestionID    string
	pausedTimeRemaining *int

	// evaluating guards against re-entrant submission: it is set from the
	// moment a submit begins until the answer has been appended, and while
	// held it suppresses TimeExpire and visibility-driven pause.
	evaluating bool
	// expiryRaised ensures the countdown raises expiry at most once per
	// question even across tick/resync races.
	expiryRaised bool

	transcript []model.ChatMessage

	clock func() time.Time
}

// SubmitOutcome describes a submission accepted by BeginSubmit. The caller
// scores it (oracle or the zero-score fast path) and reports back via
// CompleteSubmit or AbortSubmit.
type SubmitOutcome struct {
	Question  model.Question
	Text      string
	TimeSpent int
	// Empty is true for blank/whitespace submissions; Timeout further marks
	// that the countdown had already reached zero.
	Empty   bool
	Timeout bool
}

// Progress reports what CompleteSubmit did.
type Progress struct {
	Answer model.Answer
	// NextQuestion is set when the session advanced; nil when all questions
	// are answered and the caller must finalize the session.
	NextQuestion *model.Question
	Completed    bool
}

// New creates a not-started session for a candidate.
func New(candidateID uuid.UUID, candidateName string) *Session {
	return &Session{
		candidateID:   candidateID,
		candidateName: candidateName,
		state:         StateNotStarted,
		clock:         time.Now,
	}
}

// Start begins the interview with the generated question sequence. The set
// must contain exactly the fixed number of questions; anything else is
// rejected and the session stays not-started.
func (s *Session) Start(questions []model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateNotStarted {
		return ErrAlreadyStarted
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}
	if len(questions) != model.QuestionsPerInterview {
		return ErrBadQuestionSet
	}

	now := s.clock()
	s.state = StateActive
	s.questions = questions
	s.answers = nil
	s.current = 0
	s.startTime = now
	s.endTime = nil
	s.timeRemaining = questions[0].TimeLimit
	s.questionStartedAt = now
	s.clearPauseMarkersLocked()
	s.evaluating = false
	s.expiryRaised = false
	s.transcript = nil

	s.appendAILocked("", fmt.Sprintf(
		"Hello %s! Welcome to your technical interview. We'll be asking you %d questions covering different aspects of full-stack development. Let's begin!",
		s.candidateName, model.QuestionsPerInterview))
	s.appendAILocked(questions[0].ID, questionPrompt(0, questions[0]))

	return nil
}

// Pause freezes the session: the current countdown value and wall-clock
// instant are recorded so Resume can restore them exactly. A no-op unless
// active, and suppressed while an evaluation is in flight so an oracle call
// is never truncated mid-question.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive || s.evaluating {
		return false
	}

	now := s.clock()
	frozen := s.timeRemaining
	s.pausedAt = &now
	s.pausedTimeRemaining = &frozen
	if s.current < len(s.questions) {
		s.pausedQuestionID = s.questions[s.current].ID
	}
	s.state = StatePaused
	return true
}

// Resume restores the frozen countdown and clears the pause markers. The
// question-start anchor is back-dated so that a wall-clock resync continues
// from the frozen value instead of granting the full limit again.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return false
	}

	if s.pausedTimeRemaining != nil {
		s.timeRemaining = *s.pausedTimeRemaining
	}
	s.clearPauseMarkersLocked()
	s.questionStartedAt = s.clock()
	if s.current < len(s.questions) {
		elapsed := s.questions[s.current].TimeLimit - s.timeRemaining
		s.questionStartedAt = s.questionStartedAt.Add(-time.Duration(elapsed) * time.Second)
	}
	s.state = StateActive
	return true
}

// ResyncTimer recomputes the countdown from wall clock:
// max(0, timeLimit - elapsed since the current question started). Correctness
// is wall-clock based rather than tick-count based, so a suspended ticker
// (hidden tab, server restart) cannot stretch the question's real duration.
func (s *Session) ResyncTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive || s.current >= len(s.questions) {
		return
	}

	elapsed := int(s.clock().Sub(s.questionStartedAt) / time.Second)
	remaining := s.questions[s.current].TimeLimit - elapsed
	if remaining < 0 {
		remaining = 0
	}
	s.timeRemaining = remaining
}

// Tick advances the countdown by one second, floored at zero. It reports the
// remaining time and whether expiry fired on this tick. Expiry is raised at
// most once per question and never while an evaluation is in flight.
func (s *Session) Tick() (remaining int, expired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive || s.evaluating {
		return s.timeRemaining, false
	}

	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	if s.timeRemaining == 0 && !s.expiryRaised {
		s.expiryRaised = true
		return 0, true
	}
	return s.timeRemaining, false
}

// Expired reports whether the current question's countdown has hit zero and
// expiry has not yet been raised. Used after a rehydrate+resync, where no
// tick will fire.
func (s *Session) Expired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive || s.evaluating || s.expiryRaised {
		return false
	}
	if s.timeRemaining != 0 {
		return false
	}
	s.expiryRaised = true
	return true
}

// BeginSubmit accepts a submission for the current question and raises the
// evaluating guard. Exactly one of CompleteSubmit or AbortSubmit must follow.
func (s *Session) BeginSubmit(text string) (SubmitOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return SubmitOutcome{}, ErrNotActive
	}
	if s.evaluating {
		return SubmitOutcome{}, ErrEvaluating
	}
	if s.current >= len(s.questions) {
		return SubmitOutcome{}, ErrNoQuestionLeft
	}

	q := s.questions[s.current]
	outcome := SubmitOutcome{
		Question:  q,
		Text:      text,
		TimeSpent: q.TimeLimit - s.timeRemaining,
		Empty:     strings.TrimSpace(text) == "",
		Timeout:   s.timeRemaining == 0,
	}

	s.evaluating = true
	s.timeRemaining = 0
	return outcome, nil
}

// CompleteSubmit appends the scored answer, clears the evaluating guard, and
// either advances to the next question (resetting the countdown to its time
// limit) or reports completion. The whole step is one atomic transition.
func (s *Session) CompleteSubmit(outcome SubmitOutcome, score int, feedback string) Progress {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	text := outcome.Text
	if outcome.Empty {
		text = NoAnswerText
	}

	answer := model.Answer{
		QuestionID:  outcome.Question.ID,
		Text:        text,
		Score:       clampScore(score),
		Feedback:    feedback,
		TimeSpent:   outcome.TimeSpent,
		SubmittedAt: now,
	}
	s.answers = append(s.answers, answer)

	s.appendUserLocked(outcome.Question.ID, outcome.Text)
	s.appendAILocked(outcome.Question.ID,
		fmt.Sprintf("Score: %d/100 - %s", answer.Score, answer.Feedback))

	s.evaluating = false

	if s.current < len(s.questions)-1 {
		s.current++
		next := s.questions[s.current]
		s.timeRemaining = next.TimeLimit
		s.questionStartedAt = now
		s.expiryRaised = false
		s.appendAILocked(next.ID, questionPrompt(s.current, next))
		return Progress{Answer: answer, NextQuestion: &next}
	}

	return Progress{Answer: answer, Completed: true}
}

// AbortSubmit clears the evaluating guard after a failed scoring call and
// restarts the current question's countdown so the candidate can retry.
func (s *Session) AbortSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.evaluating {
		return
	}
	s.evaluating = false
	if s.state == StateActive && s.current < len(s.questions) {
		s.timeRemaining = s.questions[s.current].TimeLimit
		s.questionStartedAt = s.clock()
		s.expiryRaised = false
	}
}

// Finalize ends the session after the overall score has been settled and
// clears the session-local working state. The candidate store is the durable
// record from here on; the closing message reaches the client through the
// completed event, not the transcript.
func (s *Session) Finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	s.endTime = &now
	s.state = StateEnded
	s.timeRemaining = 0
	s.evaluating = false
	s.questions = nil
	s.transcript = nil
	s.clearPauseMarkersLocked()
}

// ─── Read accessors ─────────────────────────────────────────────────

func (s *Session) CandidateID() uuid.UUID { return s.candidateID }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) TimeRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeRemaining
}

func (s *Session) Evaluating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluating
}

// CurrentQuestion returns the active question, or false when none exists.
func (s *Session) CurrentQuestion() (model.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEnded || s.current >= len(s.questions) {
		return model.Question{}, false
	}
	return s.questions[s.current], true
}

// Answers returns a copy of the recorded answers in question order.
func (s *Session) Answers() []model.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Answer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Transcript returns a copy of the chat transcript in insertion order.
func (s *Session) Transcript() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// ─── Internal helpers (callers hold s.mu) ───────────────────────────

func (s *Session) clearPauseMarkersLocked() {
	s.pausedAt = nil
	s.pausedQuestionID = ""
	s.pausedTimeRemaining = nil
}

func (s *Session) appendAILocked(questionID, content string) {
	s.transcript = append(s.transcript, model.ChatMessage{
		ID:         uuid.New().String(),
		Type:       model.ChatMessageAI,
		Content:    content,
		QuestionID: questionID,
		Timestamp:  s.clock(),
	})
}

func (s *Session) appendUserLocked(questionID, content string) {
	s.transcript = append(s.transcript, model.ChatMessage{
		ID:         uuid.New().String(),
		Type:       model.ChatMessageUser,
		Content:    content,
		QuestionID: questionID,
		Timestamp:  s.clock(),
	})
}

func questionPrompt(index int, q model.Question) string {
	return fmt.Sprintf("Question %d/%d\n\nCategory: %s\nDifficulty: %s\nTime Limit: %d seconds\n\n%s",
		index+1, model.QuestionsPerInterview, q.Category,
		strings.ToUpper(string(q.Difficulty)), q.TimeLimit, q.Text)
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
