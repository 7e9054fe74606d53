package websocket

import "github.com/crisphq/crisp-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing       Action = "ping"
	ActionVisibility Action = "visibility"
)

// VisibilityRequest is sent by the client when the interview tab is hidden
// or shown again.
type VisibilityRequest struct {
	Action Action `json:"action"`
	Hidden bool   `json:"hidden"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventTick      Event = "tick"
	EventQuestion  Event = "question"
	EventFeedback  Event = "feedback"
	EventState     Event = "state"
	EventCompleted Event = "completed"
	EventError     Event = "error"
	EventPong      Event = "pong"
)

// TickEvent is sent once per second while the interview is active.
type TickEvent struct {
	Event         Event `json:"event"`
	TimeRemaining int   `json:"time_remaining"`
}

// QuestionEvent announces the current question.
type QuestionEvent struct {
	Event    Event          `json:"event"`
	Index    int            `json:"index"`
	Total    int            `json:"total"`
	Question model.Question `json:"question"`
}

// FeedbackEvent carries the score and feedback for a submitted answer.
type FeedbackEvent struct {
	Event      Event  `json:"event"`
	QuestionID string `json:"question_id"`
	Score      int    `json:"score"`
	Feedback   string `json:"feedback"`
}

// StateEvent reports session state transitions (active, paused, ended).
type StateEvent struct {
	Event Event  `json:"event"`
	State string `json:"state"`
}

// CompletedEvent closes the interview with the final verdict.
type CompletedEvent struct {
	Event   Event  `json:"event"`
	Score   int    `json:"score"`
	Summary string `json:"summary"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
