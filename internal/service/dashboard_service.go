package service

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/crisphq/crisp-backend/internal/repository"
	"github.com/google/uuid"
)

// Candidate list sort fields. Default is score, descending.
const (
	SortByName      = "name"
	SortByScore     = "score"
	SortByCreatedAt = "createdAt"
)

// CandidateQuery carries the interviewer's list filters.
type CandidateQuery struct {
	Search    string `form:"search"`
	SortBy    string `form:"sort_by"`
	Ascending bool   `form:"asc"`
}

// DashboardStats consolidates roster metrics for the interviewer dashboard.
type DashboardStats struct {
	TotalCandidates int                           `json:"total_candidates"`
	StatusCounts    map[model.CandidateStatus]int `json:"status_counts"`
	AverageScore    float64                       `json:"average_score"`
}

// DashboardService handles the interviewer-facing roster views.
type DashboardService struct {
	candidateRepo *repository.CandidateRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(candidateRepo *repository.CandidateRepository) *DashboardService {
	return &DashboardService{candidateRepo: candidateRepo}
}

// ListCandidates returns the roster filtered and ordered per the query.
func (s *DashboardService) ListCandidates(ctx context.Context, q CandidateQuery) ([]model.Candidate, error) {
	candidates, err := s.candidateRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterAndSort(candidates, q), nil
}

// GetCandidate returns one candidate with their full answer history.
func (s *DashboardService) GetCandidate(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	return s.candidateRepo.GetDetail(ctx, id)
}

// GetStats aggregates roster metrics.
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.candidateRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	avg, err := s.candidateRepo.AverageCompletedScore(ctx)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return &DashboardStats{
		TotalCandidates: total,
		StatusCounts:    counts,
		AverageScore:    math.Round(avg*100) / 100,
	}, nil
}

// FilterAndSort applies the search filter and sort order to a candidate
// list. Search is a case-insensitive substring match on name or email. The
// sort is stable, so candidates that compare equal keep their input order.
func FilterAndSort(candidates []model.Candidate, q CandidateQuery) []model.Candidate {
	filtered := candidates
	if needle := strings.ToLower(strings.TrimSpace(q.Search)); needle != "" {
		filtered = make([]model.Candidate, 0, len(candidates))
		for _, c := range candidates {
			if strings.Contains(strings.ToLower(c.Name), needle) ||
				strings.Contains(strings.ToLower(c.Email), needle) {
				filtered = append(filtered, c)
			}
		}
	} else {
		filtered = append([]model.Candidate(nil), candidates...)
	}

	less := candidateLess(q.SortBy)
	sort.SliceStable(filtered, func(i, j int) bool {
		if q.Ascending {
			return less(filtered[i], filtered[j])
		}
		return less(filtered[j], filtered[i])
	})

	return filtered
}

func candidateLess(sortBy string) func(a, b model.Candidate) bool {
	switch sortBy {
	case SortByName:
		return func(a, b model.Candidate) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortByCreatedAt:
		return func(a, b model.Candidate) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	default:
		return func(a, b model.Candidate) bool {
			return a.Score < b.Score
		}
	}
}
