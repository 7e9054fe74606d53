package service

import (
	"context"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/crisphq/crisp-backend/internal/repository"
)

// InterviewerService handles interviewer account access.
type InterviewerService struct {
	repo *repository.InterviewerRepository
}

// NewInterviewerService creates a new InterviewerService.
func NewInterviewerService(repo *repository.InterviewerRepository) *InterviewerService {
	return &InterviewerService{repo: repo}
}

// GetByID retrieves an interviewer profile.
func (s *InterviewerService) GetByID(ctx context.Context, id int) (*model.Interviewer, error) {
	return s.repo.GetByID(ctx, id)
}
