package model

import (
	"time"

	"github.com/google/uuid"
)

// CandidateStatus enumerates a candidate's interview lifecycle.
type CandidateStatus string

const (
	CandidateStatusPending    CandidateStatus = "pending"
	CandidateStatusInProgress CandidateStatus = "in-progress"
	CandidateStatusCompleted  CandidateStatus = "completed"
)

// Candidate represents one person in the roster. A candidate is created when
// their resume has been parsed (and any missing contact fields collected),
// mutated by answer submission and completion, and never deleted.
type Candidate struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	ResumeText string          `json:"resume_text,omitempty"`
	Status     CandidateStatus `json:"status"`
	// Score is meaningful only when Status is "completed".
	Score              int        `json:"score"`
	Summary            *string    `json:"summary,omitempty"`
	InterviewStartedAt *time.Time `json:"interview_started_at,omitempty"`
	InterviewEndedAt   *time.Time `json:"interview_ended_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`

	// Answers is populated for detail views only.
	Answers []Answer `json:"answers,omitempty"`
}

// CreateCandidateRequest is the payload for creating a candidate after the
// missing-fields collection step.
type CreateCandidateRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	Email      string `json:"email" binding:"required,email"`
	Phone      string `json:"phone" binding:"required,min=6,max=30"`
	ResumeText string `json:"resume_text" binding:"required,min=1"`
}

// CandidateUpdate carries a partial candidate update. Nil fields are left
// untouched (merge, last-write-wins per field).
type CandidateUpdate struct {
	Name       *string `json:"name,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	ResumeText *string `json:"resume_text,omitempty"`
}
