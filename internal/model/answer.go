package model

import "time"

// Answer records one scored response. Created exactly once per question, in
// question order, immutable thereafter.
type Answer struct {
	QuestionID  string    `json:"question_id"`
	Text        string    `json:"text"`
	Score       int       `json:"score"`
	Feedback    string    `json:"feedback"`
	TimeSpent   int       `json:"time_spent"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmitAnswerRequest is the payload for submitting an answer. Text may be
// empty — an empty submission is valid and scores zero.
type SubmitAnswerRequest struct {
	Text string `json:"text"`
}

// VisibilityRequest reports the client page's visibility change. Hidden
// pauses the session, visible resumes it and resyncs the countdown.
type VisibilityRequest struct {
	Hidden bool `json:"hidden"`
}
