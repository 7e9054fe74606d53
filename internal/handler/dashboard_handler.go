package handler

import (
	"errors"
	"net/http"

	"github.com/crisphq/crisp-backend/internal/repository"
	"github.com/crisphq/crisp-backend/internal/response"
	"github.com/crisphq/crisp-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DashboardHandler handles the interviewer-facing roster endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
	log              zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService *service.DashboardService, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		log:              log.With().Str("component", "dashboard_handler").Logger(),
	}
}

// ListCandidates godoc
// GET /api/v1/dashboard/candidates?search=&sort_by=&asc=
// Returns the candidate roster, filtered and ordered. Defaults to score
// descending.
func (h *DashboardHandler) ListCandidates(c *gin.Context) {
	var query service.CandidateQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	if query.SortBy == "" {
		query.SortBy = service.SortByScore
	}

	candidates, err := h.dashboardService.ListCandidates(c.Request.Context(), query)
	if err != nil {
		h.log.Error().Err(err).Msg("Candidate list failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidates": candidates})
}

// GetCandidate godoc
// GET /api/v1/dashboard/candidates/:candidate_id
// Returns one candidate with their full per-question answer history.
func (h *DashboardHandler) GetCandidate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("candidate_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	candidate, err := h.dashboardService.GetCandidate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCandidateNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		h.log.Error().Err(err).Msg("Candidate detail failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"candidate": candidate})
}

// Stats godoc
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.GetStats(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Dashboard stats failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, stats)
}
