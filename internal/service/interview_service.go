package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/crisphq/crisp-backend/internal/config"
	"github.com/crisphq/crisp-backend/internal/interview"
	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/crisphq/crisp-backend/internal/oracle"
	"github.com/crisphq/crisp-backend/internal/repository"
	"github.com/crisphq/crisp-backend/internal/websocket"
	"github.com/crisphq/crisp-backend/internal/worker"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrInterviewCompleted rejects operations on an already-finished interview.
var ErrInterviewCompleted = errors.New("interview already completed")

const tickInterval = time.Second

// InterviewState is the full session view returned to the candidate client.
// It carries everything needed to rebuild the interview screen after a
// reload: state, current question, live countdown, answers, and transcript.
type InterviewState struct {
	State           interview.State     `json:"state"`
	QuestionIndex   int                 `json:"question_index"`
	TotalQuestions  int                 `json:"total_questions"`
	CurrentQuestion *model.Question     `json:"current_question,omitempty"`
	TimeRemaining   int                 `json:"time_remaining"`
	Evaluating      bool                `json:"evaluating"`
	Answers         []model.Answer      `json:"answers"`
	Transcript      []model.ChatMessage `json:"transcript"`
}

// SubmitResult reports the outcome of one answer submission.
type SubmitResult struct {
	Answer       model.Answer    `json:"answer"`
	NextQuestion *model.Question `json:"next_question,omitempty"`
	Completed    bool            `json:"completed"`
	FinalScore   int             `json:"final_score,omitempty"`
	Summary      string          `json:"summary,omitempty"`
}

// liveSession pairs an in-memory session with its countdown driver.
type liveSession struct {
	session *interview.Session
	ticker  *interview.Ticker
}

// InterviewService orchestrates interview sessions: question generation,
// the per-candidate countdown, answer scoring, pause/resume, persistence,
// and completion. One live session per candidate, rehydrated from the
// session store on demand.
type InterviewService struct {
	candidateRepo *repository.CandidateRepository
	oracle        oracle.Oracle
	store         interview.SessionStore
	rdb           *redis.Client
	log           zerolog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*liveSession
}

// NewInterviewService creates a new InterviewService.
func NewInterviewService(
	candidateRepo *repository.CandidateRepository,
	o oracle.Oracle,
	store interview.SessionStore,
	rdb *redis.Client,
	log zerolog.Logger,
) *InterviewService {
	return &InterviewService{
		candidateRepo: candidateRepo,
		oracle:        o,
		store:         store,
		rdb:           rdb,
		log:           log.With().Str("service", "interview").Logger(),
		sessions:      make(map[uuid.UUID]*liveSession),
	}
}

// Start generates the question sequence and begins the interview. Question
// generation has no fallback bank, so an oracle failure blocks the start and
// the candidate stays pending.
func (s *InterviewService) Start(ctx context.Context, candidateID uuid.UUID) (*InterviewState, error) {
	candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate.Status == model.CandidateStatusCompleted {
		return nil, ErrInterviewCompleted
	}

	live, err := s.lookup(ctx, candidateID)
	if err != nil && !errors.Is(err, interview.ErrSessionNotFound) {
		return nil, err
	}
	if live != nil && live.session.State() != interview.StateNotStarted {
		return nil, interview.ErrAlreadyStarted
	}

	questions, err := s.oracle.GenerateQuestions(ctx, candidate.Name, candidate.ResumeText)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	sess := interview.New(candidateID, candidate.Name)
	if err := sess.Start(questions); err != nil {
		return nil, err
	}

	if err := s.candidateRepo.MarkStarted(ctx, candidateID); err != nil {
		return nil, fmt.Errorf("mark candidate started: %w", err)
	}

	live = &liveSession{session: sess, ticker: interview.NewTicker()}
	s.mu.Lock()
	s.sessions[candidateID] = live
	s.mu.Unlock()

	s.persist(ctx, sess)
	s.startTicker(candidateID, live)

	if q, ok := sess.CurrentQuestion(); ok {
		s.publish(candidateID, websocket.QuestionEvent{
			Event:    websocket.EventQuestion,
			Index:    0,
			Total:    model.QuestionsPerInterview,
			Question: q,
		})
	}

	s.log.Info().Str("candidate_id", candidateID.String()).Msg("Interview started")
	return s.stateView(live.session), nil
}

// State returns the current session view, rehydrating from the store when
// the session is not in memory. The countdown is resynced from wall clock
// first; a countdown that expired while nobody was ticking is settled as a
// timeout submission before the view is built.
func (s *InterviewService) State(ctx context.Context, candidateID uuid.UUID) (*InterviewState, error) {
	live, err := s.lookup(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	live.session.ResyncTimer()
	if live.session.Expired() {
		s.settleExpiry(ctx, candidateID, live)
	}

	return s.stateView(live.session), nil
}

// Pause freezes the interview. A no-op while an evaluation is in flight or
// when the session is not active.
func (s *InterviewService) Pause(ctx context.Context, candidateID uuid.UUID) (*InterviewState, error) {
	live, err := s.lookup(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	if live.session.Pause() {
		live.ticker.Stop()
		s.persist(ctx, live.session)
		s.publish(candidateID, websocket.StateEvent{Event: websocket.EventState, State: string(interview.StatePaused)})
		s.log.Debug().Str("candidate_id", candidateID.String()).Msg("Interview paused")
	}
	return s.stateView(live.session), nil
}

// Resume unfreezes a paused interview, restoring the frozen countdown.
func (s *InterviewService) Resume(ctx context.Context, candidateID uuid.UUID) (*InterviewState, error) {
	live, err := s.lookup(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	if live.session.Resume() {
		s.persist(ctx, live.session)
		s.startTicker(candidateID, live)
		s.publish(candidateID, websocket.StateEvent{Event: websocket.EventState, State: string(interview.StateActive)})
		s.log.Debug().Str("candidate_id", candidateID.String()).Msg("Interview resumed")
	}
	return s.stateView(live.session), nil
}

// SetVisibility maps the client tab's visibility to pause/resume. When the
// tab comes back without a pause having landed (lost request, crashed tab),
// the countdown is resynced from wall clock instead of trusting the stale
// value, and an already-expired question is settled as a timeout.
func (s *InterviewService) SetVisibility(ctx context.Context, candidateID uuid.UUID, hidden bool) (*InterviewState, error) {
	if hidden {
		return s.Pause(ctx, candidateID)
	}

	live, err := s.lookup(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if live.session.State() == interview.StatePaused {
		return s.Resume(ctx, candidateID)
	}

	live.session.ResyncTimer()
	if live.session.Expired() {
		s.settleExpiry(ctx, candidateID, live)
	}
	return s.stateView(live.session), nil
}

// Submit scores the candidate's answer for the current question and advances
// the interview. Blank submissions take the zero-score fast path without an
// oracle call; anything else is scored by the oracle, degrading to a neutral
// evaluation when the reply is unparseable. A transport failure aborts the
// submission and restarts the question's countdown.
func (s *InterviewService) Submit(ctx context.Context, candidateID uuid.UUID, text string) (*SubmitResult, error) {
	live, err := s.lookup(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, candidateID, live, text)
}

func (s *InterviewService) submit(ctx context.Context, candidateID uuid.UUID, live *liveSession, text string) (*SubmitResult, error) {
	sess := live.session

	outcome, err := sess.BeginSubmit(text)
	if err != nil {
		return nil, err
	}

	var score int
	var feedback string
	switch {
	case outcome.Empty && outcome.Timeout:
		score, feedback = 0, interview.FeedbackTimeout
	case outcome.Empty:
		score, feedback = 0, interview.FeedbackEmpty
	default:
		eval, err := s.oracle.EvaluateAnswer(ctx, outcome.Question, outcome.Text)
		if err != nil {
			sess.AbortSubmit()
			s.persist(ctx, sess)
			return nil, fmt.Errorf("evaluate answer: %w", err)
		}
		score, feedback = eval.Score, eval.Feedback
	}

	progress := sess.CompleteSubmit(outcome, score, feedback)
	s.persist(ctx, sess)
	s.enqueueAnswer(ctx, candidateID, progress.Answer)

	s.publish(candidateID, websocket.FeedbackEvent{
		Event:      websocket.EventFeedback,
		QuestionID: progress.Answer.QuestionID,
		Score:      progress.Answer.Score,
		Feedback:   progress.Answer.Feedback,
	})

	result := &SubmitResult{Answer: progress.Answer, NextQuestion: progress.NextQuestion}

	if progress.NextQuestion != nil {
		s.publish(candidateID, websocket.QuestionEvent{
			Event:    websocket.EventQuestion,
			Index:    len(sess.Answers()),
			Total:    model.QuestionsPerInterview,
			Question: *progress.NextQuestion,
		})
		return result, nil
	}

	finalScore, summary := s.finishInterview(ctx, candidateID, sess)
	result.Completed = true
	result.FinalScore = finalScore
	result.Summary = summary
	return result, nil
}

// finishInterview settles the overall verdict once all questions are
// answered. The per-answer average is the primary score; the oracle summary
// only wins when it claims a higher one. An oracle failure degrades to the
// average with a canned summary, never an error back to the candidate.
func (s *InterviewService) finishInterview(ctx context.Context, candidateID uuid.UUID, sess *interview.Session) (int, string) {
	answers := sess.Answers()

	var verdict *oracle.Summary
	if len(answers) > 0 {
		candidate, err := s.candidateRepo.GetByID(ctx, candidateID)
		if err != nil {
			s.log.Error().Err(err).Str("candidate_id", candidateID.String()).Msg("Candidate lookup failed during completion")
			candidate = &model.Candidate{ID: candidateID}
		}

		if v, err := s.oracle.GenerateSummary(ctx, *candidate, answers); err != nil {
			s.log.Warn().Err(err).Str("candidate_id", candidateID.String()).Msg("Summary generation failed, using average")
		} else {
			verdict = &v
		}
	}

	finalScore, finalSummary := oracle.FinalVerdict(answers, verdict)

	sess.Finalize()

	s.mu.Lock()
	if live, ok := s.sessions[candidateID]; ok {
		live.ticker.Stop()
	}
	s.mu.Unlock()

	s.persist(ctx, sess)
	s.enqueueCompletion(ctx, candidateID, finalScore, finalSummary)

	s.publish(candidateID, websocket.CompletedEvent{
		Event:   websocket.EventCompleted,
		Score:   finalScore,
		Summary: finalSummary,
		Message: fmt.Sprintf("Interview completed! Your final score is %d/100. Thank you for participating!", finalScore),
	})

	s.log.Info().
		Str("candidate_id", candidateID.String()).
		Int("final_score", finalScore).
		Msg("Interview completed")
	return finalScore, finalSummary
}

// Shutdown stops every live countdown and persists the sessions.
func (s *InterviewService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, live := range s.sessions {
		live.ticker.Stop()
		if err := s.store.Save(ctx, live.session.Snapshot()); err != nil {
			s.log.Error().Err(err).Str("candidate_id", id.String()).Msg("Session save on shutdown failed")
		}
	}
}

// ─── Internals ──────────────────────────────────────────────────────

// lookup returns the live session for a candidate, rehydrating it from the
// session store when it is not in memory (restart, another replica tick).
func (s *InterviewService) lookup(ctx context.Context, candidateID uuid.UUID) (*liveSession, error) {
	s.mu.Lock()
	if live, ok := s.sessions[candidateID]; ok {
		s.mu.Unlock()
		return live, nil
	}
	s.mu.Unlock()

	snap, err := s.store.Load(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	sess := interview.FromSnapshot(*snap)
	sess.ResyncTimer()

	live := &liveSession{session: sess, ticker: interview.NewTicker()}

	s.mu.Lock()
	if existing, ok := s.sessions[candidateID]; ok {
		// Lost the race to another rehydrate.
		s.mu.Unlock()
		return existing, nil
	}
	s.sessions[candidateID] = live
	s.mu.Unlock()

	if sess.State() == interview.StateActive {
		s.startTicker(candidateID, live)
	}

	s.log.Debug().Str("candidate_id", candidateID.String()).Msg("Session rehydrated")
	return live, nil
}

// startTicker drives the per-second countdown. Idempotent.
func (s *InterviewService) startTicker(candidateID uuid.UUID, live *liveSession) {
	live.ticker.Start(tickInterval, func() {
		remaining, expired := live.session.Tick()
		s.publish(candidateID, websocket.TickEvent{Event: websocket.EventTick, TimeRemaining: remaining})
		if expired {
			s.settleExpiry(context.Background(), candidateID, live)
		}
	})
}

// settleExpiry auto-submits a blank answer when the countdown ran out. The
// session marks it as a timeout, so the zero-score path with the timeout
// feedback line applies and no oracle call is made.
func (s *InterviewService) settleExpiry(ctx context.Context, candidateID uuid.UUID, live *liveSession) {
	if _, err := s.submit(ctx, candidateID, live, ""); err != nil {
		if !errors.Is(err, interview.ErrEvaluating) && !errors.Is(err, interview.ErrNotActive) {
			s.log.Error().Err(err).Str("candidate_id", candidateID.String()).Msg("Timeout auto-submit failed")
		}
	}
}

// persist snapshots the session to the store. Persistence failures are
// logged, never surfaced: the in-memory session stays authoritative.
func (s *InterviewService) persist(ctx context.Context, sess *interview.Session) {
	if err := s.store.Save(ctx, sess.Snapshot()); err != nil {
		s.log.Error().Err(err).Str("candidate_id", sess.CandidateID().String()).Msg("Session save failed")
	}
}

// publish fans an event out on the candidate's PubSub channel for any
// connected WebSocket streams. Best effort.
func (s *InterviewService) publish(candidateID uuid.UUID, event interface{}) {
	raw, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("Event marshal failed")
		return
	}
	channel := config.CacheKey.InterviewEventChannel(candidateID.String())
	if err := s.rdb.Publish(context.Background(), channel, raw).Err(); err != nil {
		s.log.Debug().Err(err).Str("candidate_id", candidateID.String()).Msg("Event publish failed")
	}
}

func (s *InterviewService) enqueueAnswer(ctx context.Context, candidateID uuid.UUID, a model.Answer) {
	payload := worker.AnswerPayload{
		CandidateID: candidateID.String(),
		QuestionID:  a.QuestionID,
		Text:        a.Text,
		Score:       a.Score,
		Feedback:    a.Feedback,
		TimeSpent:   a.TimeSpent,
		SubmittedAt: a.SubmittedAt,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Msg("Answer payload marshal failed")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistAnswersQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Str("candidate_id", candidateID.String()).Msg("Answer enqueue failed")
	}
}

func (s *InterviewService) enqueueCompletion(ctx context.Context, candidateID uuid.UUID, score int, summary string) {
	payload := worker.CompletionPayload{
		CandidateID: candidateID.String(),
		Score:       score,
		Summary:     summary,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Msg("Completion payload marshal failed")
		return
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistCompletionsQueue, raw).Err(); err != nil {
		s.log.Error().Err(err).Str("candidate_id", candidateID.String()).Msg("Completion enqueue failed")
	}
}

// stateView builds the client view under a consistent read of the session.
func (s *InterviewService) stateView(sess *interview.Session) *InterviewState {
	answers := sess.Answers()
	view := &InterviewState{
		State:          sess.State(),
		QuestionIndex:  len(answers),
		TotalQuestions: model.QuestionsPerInterview,
		TimeRemaining:  sess.TimeRemaining(),
		Evaluating:     sess.Evaluating(),
		Answers:        answers,
		Transcript:     sess.Transcript(),
	}
	if q, ok := sess.CurrentQuestion(); ok && sess.State() != interview.StateEnded {
		view.CurrentQuestion = &q
	}
	return view
}
