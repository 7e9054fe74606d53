package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/crisphq/crisp-backend/internal/oracle"
	"github.com/crisphq/crisp-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Candidate intake errors.
var (
	ErrUnsupportedResumeType = errors.New("unsupported resume file type, upload a PDF or DOCX")
	ErrEmptyResume           = errors.New("resume file is empty")
)

// resumeMIMETypes lists the accepted upload formats.
var resumeMIMETypes = map[string]bool{
	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

// ResumeResult is the outcome of parsing an uploaded resume: the extracted
// profile plus the contact fields the candidate still has to provide.
type ResumeResult struct {
	Resume        *model.ParsedResume `json:"resume"`
	MissingFields []string            `json:"missing_fields"`
}

// CandidateService handles candidate intake and profile access.
type CandidateService struct {
	candidateRepo *repository.CandidateRepository
	oracle        oracle.Oracle
	log           zerolog.Logger
}

// NewCandidateService creates a new CandidateService.
func NewCandidateService(candidateRepo *repository.CandidateRepository, o oracle.Oracle, log zerolog.Logger) *CandidateService {
	return &CandidateService{
		candidateRepo: candidateRepo,
		oracle:        o,
		log:           log.With().Str("service", "candidate").Logger(),
	}
}

// ParseResume extracts a structured profile from an uploaded resume file.
// Contact fields the parser could not find are reported so the intake flow
// can collect them before the candidate record is created.
func (s *CandidateService) ParseResume(ctx context.Context, data []byte, mimeType string) (*ResumeResult, error) {
	if len(data) == 0 {
		return nil, ErrEmptyResume
	}
	if !resumeMIMETypes[normalizeMIME(mimeType)] {
		return nil, ErrUnsupportedResumeType
	}

	parsed, err := s.oracle.ParseResume(ctx, data, normalizeMIME(mimeType))
	if err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}

	missing := parsed.MissingFields()
	if len(missing) > 0 {
		s.log.Debug().Strs("missing", missing).Msg("Resume parsed with missing contact fields")
	}

	return &ResumeResult{Resume: parsed, MissingFields: missing}, nil
}

// Create registers a candidate with complete contact details and pending status.
func (s *CandidateService) Create(ctx context.Context, req model.CreateCandidateRequest) (*model.Candidate, error) {
	c := &model.Candidate{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:      strings.TrimSpace(req.Phone),
		ResumeText: req.ResumeText,
		Status:     model.CandidateStatusPending,
	}

	if err := s.candidateRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.Info().Str("candidate_id", c.ID.String()).Msg("Candidate created")
	return c, nil
}

// Get retrieves a candidate profile without answers.
func (s *CandidateService) Get(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	return s.candidateRepo.GetByID(ctx, id)
}

// normalizeMIME strips any parameters (e.g. "; charset=...") from a
// Content-Type value.
func normalizeMIME(mimeType string) string {
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = mimeType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
