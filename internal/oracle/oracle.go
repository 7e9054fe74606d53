// Package oracle wraps the external generative-AI collaborator used for
// resume parsing, question generation, answer scoring, and interview
// summaries. Callers treat it as opaque: structured input, structured output
// or an error. No call is ever cancelled once in flight.
package oracle

import (
	"context"
	"errors"

	"github.com/crisphq/crisp-backend/internal/model"
)

// Evaluation is the scored verdict for one answer.
type Evaluation struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Summary is the overall interview verdict.
type Summary struct {
	Score   int    `json:"score"`
	Summary string `json:"summary"`
}

// Oracle is the external scoring collaborator.
type Oracle interface {
	// ParseResume extracts structured fields from a resume file.
	ParseResume(ctx context.Context, data []byte, mimeType string) (*model.ParsedResume, error)
	// GenerateQuestions produces the fixed six-question interview sequence
	// from the candidate's resume. There is no fallback question bank —
	// failure here blocks interview start.
	GenerateQuestions(ctx context.Context, name, resumeText string) ([]model.Question, error)
	// EvaluateAnswer scores one answer 0-100 with one-line feedback. A
	// malformed (unparseable) response is silently replaced with a fixed
	// neutral evaluation; transport failures surface as errors.
	EvaluateAnswer(ctx context.Context, q model.Question, answer string) (Evaluation, error)
	// GenerateSummary produces the overall assessment from the full answer
	// set. The returned score is the rounded mean of the answer scores.
	GenerateSummary(ctx context.Context, candidate model.Candidate, answers []model.Answer) (Summary, error)
}

var (
	// ErrNotConfigured means no API key is present. AI-dependent actions are
	// blocked with this persistent signal; the application itself keeps running.
	ErrNotConfigured = errors.New("gemini API key is not configured")
	// ErrInsufficientResume means the resume lacks enough technical content
	// to generate personalized questions.
	ErrInsufficientResume = errors.New("resume content is insufficient to generate personalized questions")
	// ErrMalformedResponse means the collaborator replied with something that
	// could not be parsed into the expected structure.
	ErrMalformedResponse = errors.New("unparseable response from AI collaborator")
)

// FallbackEvaluation is substituted when the scoring response cannot be
// parsed. Neutral rather than zero, so a flaky collaborator does not sink
// an otherwise fine answer.
func FallbackEvaluation() Evaluation {
	return Evaluation{
		Score:    75,
		Feedback: "Good answer! Consider providing more specific examples and technical details.",
	}
}
