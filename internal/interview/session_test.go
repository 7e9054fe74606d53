package interview

import (
	"testing"
	"time"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move wall-clock time deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func sixQuestions() []model.Question {
	difficulties := []model.Difficulty{
		model.DifficultyEasy, model.DifficultyEasy,
		model.DifficultyMedium, model.DifficultyMedium,
		model.DifficultyHard, model.DifficultyHard,
	}
	questions := make([]model.Question, len(difficulties))
	for i, d := range difficulties {
		questions[i] = model.Question{
			ID:         string(rune('1' + i)),
			Text:       "question " + string(rune('1'+i)),
			Difficulty: d,
			TimeLimit:  model.TimeLimitFor(d),
			Category:   "General",
		}
	}
	return questions
}

func newTestSession(t *testing.T, clock *fakeClock) *Session {
	t.Helper()
	s := New(uuid.New(), "Jane Doe")
	s.clock = clock.Now
	require.NoError(t, s.Start(sixQuestions()))
	return s
}

func TestStartRejectsBadQuestionSets(t *testing.T) {
	s := New(uuid.New(), "Jane Doe")

	assert.ErrorIs(t, s.Start(nil), ErrNoQuestions)
	assert.ErrorIs(t, s.Start(sixQuestions()[:3]), ErrBadQuestionSet)
	assert.Equal(t, StateNotStarted, s.State())

	require.NoError(t, s.Start(sixQuestions()))
	assert.Equal(t, StateActive, s.State())
	assert.ErrorIs(t, s.Start(sixQuestions()), ErrAlreadyStarted)
}

func TestStartInitializesFirstQuestion(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	q, ok := s.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, "1", q.ID)
	assert.Equal(t, 20, s.TimeRemaining())

	transcript := s.Transcript()
	require.Len(t, transcript, 2)
	assert.Contains(t, transcript[0].Content, "Hello Jane Doe!")
	assert.Contains(t, transcript[1].Content, "Question 1/6")
}

func TestFullInterviewRecordsSixAnswersInOrder(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	for i := 0; i < model.QuestionsPerInterview; i++ {
		outcome, err := s.BeginSubmit("my answer")
		require.NoError(t, err)

		progress := s.CompleteSubmit(outcome, 80, "Solid.")
		if i < model.QuestionsPerInterview-1 {
			require.NotNil(t, progress.NextQuestion)
			assert.False(t, progress.Completed)
			assert.Equal(t, progress.NextQuestion.TimeLimit, s.TimeRemaining())
		} else {
			assert.Nil(t, progress.NextQuestion)
			assert.True(t, progress.Completed)
		}
	}

	answers := s.Answers()
	require.Len(t, answers, model.QuestionsPerInterview)
	for i, a := range answers {
		assert.Equal(t, string(rune('1'+i)), a.QuestionID)
	}
}

func TestBeginSubmitFlagsEmptyAndTimeout(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	// Voluntary blank submit with time on the clock.
	outcome, err := s.BeginSubmit("   ")
	require.NoError(t, err)
	assert.True(t, outcome.Empty)
	assert.False(t, outcome.Timeout)
	s.CompleteSubmit(outcome, 0, FeedbackEmpty)

	answers := s.Answers()
	require.Len(t, answers, 1)
	assert.Equal(t, NoAnswerText, answers[0].Text)
	assert.Equal(t, 0, answers[0].Score)
	assert.Equal(t, FeedbackEmpty, answers[0].Feedback)

	// Run the second question's countdown out, then submit.
	for i := 0; i < 20; i++ {
		s.Tick()
	}
	assert.Equal(t, 0, s.TimeRemaining())

	outcome, err = s.BeginSubmit("")
	require.NoError(t, err)
	assert.True(t, outcome.Empty)
	assert.True(t, outcome.Timeout)
	assert.Equal(t, 20, outcome.TimeSpent)
}

func TestSubmitIsNotReentrant(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	_, err := s.BeginSubmit("first")
	require.NoError(t, err)

	_, err = s.BeginSubmit("second")
	assert.ErrorIs(t, err, ErrEvaluating)
}

func TestAbortSubmitRestartsCountdown(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	s.Tick()
	s.Tick()
	assert.Equal(t, 18, s.TimeRemaining())

	_, err := s.BeginSubmit("answer")
	require.NoError(t, err)
	assert.True(t, s.Evaluating())

	s.AbortSubmit()
	assert.False(t, s.Evaluating())
	assert.Equal(t, 20, s.TimeRemaining())
	assert.Empty(t, s.Answers())
}

func TestPauseResumeRestoresExactCountdown(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	for i := 0; i < 7; i++ {
		s.Tick()
	}
	assert.Equal(t, 13, s.TimeRemaining())

	require.True(t, s.Pause())
	assert.Equal(t, StatePaused, s.State())

	// Ticks while paused do not drain the countdown.
	remaining, expired := s.Tick()
	assert.Equal(t, 13, remaining)
	assert.False(t, expired)

	// A long lunch break.
	clock.Advance(45 * time.Minute)

	require.True(t, s.Resume())
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 13, s.TimeRemaining())

	// The resync anchor is back-dated on resume: wall-clock resync counts
	// down from the frozen value, not from the full limit.
	clock.Advance(3 * time.Second)
	s.ResyncTimer()
	assert.Equal(t, 10, s.TimeRemaining())
}

func TestPauseIsSuppressedWhileEvaluating(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	_, err := s.BeginSubmit("answer")
	require.NoError(t, err)

	assert.False(t, s.Pause())
	assert.Equal(t, StateActive, s.State())
}

func TestResumeRequiresPausedState(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	assert.False(t, s.Resume())
	assert.Equal(t, StateActive, s.State())
}

func TestResyncTimerUsesWallClock(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	clock.Advance(8 * time.Second)
	s.ResyncTimer()
	assert.Equal(t, 12, s.TimeRemaining())

	// Well past the limit clamps to zero, never negative.
	clock.Advance(5 * time.Minute)
	s.ResyncTimer()
	assert.Equal(t, 0, s.TimeRemaining())
}

func TestTickRaisesExpiryExactlyOnce(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	var expiries int
	for i := 0; i < 30; i++ {
		if _, expired := s.Tick(); expired {
			expiries++
		}
	}
	assert.Equal(t, 1, expiries)
	assert.Equal(t, 0, s.TimeRemaining())

	// Expired() is for the rehydrate path and respects the same latch.
	assert.False(t, s.Expired())
}

func TestExpiredAfterResyncWithoutTicks(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	clock.Advance(25 * time.Second)
	s.ResyncTimer()

	assert.True(t, s.Expired())
	// Latched: asking again does not raise a second expiry.
	assert.False(t, s.Expired())
}

func TestTickSuppressedWhileEvaluating(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	_, err := s.BeginSubmit("answer")
	require.NoError(t, err)

	remaining, expired := s.Tick()
	assert.Equal(t, 0, remaining)
	assert.False(t, expired)
}

func TestCompleteSubmitClampsScore(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	outcome, err := s.BeginSubmit("answer")
	require.NoError(t, err)
	progress := s.CompleteSubmit(outcome, 140, "off the chart")
	assert.Equal(t, 100, progress.Answer.Score)

	outcome, err = s.BeginSubmit("answer")
	require.NoError(t, err)
	progress = s.CompleteSubmit(outcome, -5, "below zero")
	assert.Equal(t, 0, progress.Answer.Score)
}

func TestFinalizeEndsSessionAndClearsState(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	for i := 0; i < model.QuestionsPerInterview; i++ {
		outcome, err := s.BeginSubmit("answer")
		require.NoError(t, err)
		s.CompleteSubmit(outcome, 70, "ok")
	}

	s.Finalize()
	assert.Equal(t, StateEnded, s.State())
	assert.Equal(t, 0, s.TimeRemaining())
	assert.Empty(t, s.Transcript())

	// Answers stay readable: the service still needs them for persistence.
	assert.Len(t, s.Answers(), model.QuestionsPerInterview)

	_, ok := s.CurrentQuestion()
	assert.False(t, ok)
	_, err := s.BeginSubmit("too late")
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestSnapshotRoundTripPreservesProgress(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	outcome, err := s.BeginSubmit("answer one")
	require.NoError(t, err)
	s.CompleteSubmit(outcome, 85, "good")
	require.True(t, s.Pause())

	restored := FromSnapshot(s.Snapshot())
	restored.clock = clock.Now

	assert.Equal(t, s.CandidateID(), restored.CandidateID())
	assert.Equal(t, StatePaused, restored.State())
	require.Len(t, restored.Answers(), 1)
	assert.Equal(t, "answer one", restored.Answers()[0].Text)

	require.True(t, restored.Resume())
	q, ok := restored.CurrentQuestion()
	require.True(t, ok)
	assert.Equal(t, "2", q.ID)
	assert.Equal(t, 20, restored.TimeRemaining())
}

func TestSnapshotDropsEvaluatingGuard(t *testing.T) {
	clock := newFakeClock()
	s := newTestSession(t, clock)

	_, err := s.BeginSubmit("in flight")
	require.NoError(t, err)

	restored := FromSnapshot(s.Snapshot())
	restored.clock = clock.Now
	assert.False(t, restored.Evaluating())

	// The question is re-answerable after rehydration.
	restored.ResyncTimer()
	_, err = restored.BeginSubmit("retry")
	assert.NoError(t, err)
}
