package handler

import (
	"errors"
	"net/http"

	"github.com/crisphq/crisp-backend/internal/interview"
	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/crisphq/crisp-backend/internal/oracle"
	"github.com/crisphq/crisp-backend/internal/repository"
	"github.com/crisphq/crisp-backend/internal/response"
	"github.com/crisphq/crisp-backend/internal/service"
	"github.com/crisphq/crisp-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InterviewHandler handles the candidate-facing interview flow.
type InterviewHandler struct {
	interviewService *service.InterviewService
	log              zerolog.Logger
}

// NewInterviewHandler creates a new InterviewHandler.
func NewInterviewHandler(interviewService *service.InterviewService, log zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviewService: interviewService,
		log:              log.With().Str("component", "interview_handler").Logger(),
	}
}

// Start godoc
// POST /api/v1/candidates/:candidate_id/interview/start
// Generates the question sequence and begins the timed interview.
func (h *InterviewHandler) Start(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	state, err := h.interviewService.Start(c.Request.Context(), candidateID)
	if err != nil {
		h.failInterview(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// State godoc
// GET /api/v1/candidates/:candidate_id/interview
// Returns the live session view, rehydrating after a reload or restart.
func (h *InterviewHandler) State(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	state, err := h.interviewService.State(c.Request.Context(), candidateID)
	if err != nil {
		h.failInterview(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// Pause godoc
// POST /api/v1/candidates/:candidate_id/interview/pause
func (h *InterviewHandler) Pause(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	state, err := h.interviewService.Pause(c.Request.Context(), candidateID)
	if err != nil {
		h.failInterview(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// Resume godoc
// POST /api/v1/candidates/:candidate_id/interview/resume
func (h *InterviewHandler) Resume(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	state, err := h.interviewService.Resume(c.Request.Context(), candidateID)
	if err != nil {
		h.failInterview(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// Visibility godoc
// POST /api/v1/candidates/:candidate_id/interview/visibility
// Reports a tab visibility change; hidden pauses, visible resumes.
func (h *InterviewHandler) Visibility(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	var req model.VisibilityRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.interviewService.SetVisibility(c.Request.Context(), candidateID, req.Hidden)
	if err != nil {
		h.failInterview(c, err)
		return
	}

	response.Success(c, http.StatusOK, state)
}

// SubmitAnswer godoc
// POST /api/v1/candidates/:candidate_id/interview/answer
// Scores the submitted answer and advances to the next question or completes
// the interview. An empty text body is a valid zero-score submission.
func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	candidateID, ok := h.candidateID(c)
	if !ok {
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.interviewService.Submit(c.Request.Context(), candidateID, req.Text)
	if err != nil {
		h.failInterview(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

func (h *InterviewHandler) candidateID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("candidate_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// failInterview maps interview domain errors to API error codes.
func (h *InterviewHandler) failInterview(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrCandidateNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, interview.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionMissing)
	case errors.Is(err, interview.ErrAlreadyStarted):
		response.Fail(c, http.StatusConflict, response.ErrInterviewStarted)
	case errors.Is(err, service.ErrInterviewCompleted):
		response.Fail(c, http.StatusConflict, response.ErrInterviewDone)
	case errors.Is(err, interview.ErrNotActive), errors.Is(err, interview.ErrNotPaused):
		response.Fail(c, http.StatusConflict, response.ErrInterviewNotActive)
	case errors.Is(err, interview.ErrEvaluating):
		response.Fail(c, http.StatusConflict, response.ErrEvaluationInFlight)
	case errors.Is(err, oracle.ErrNotConfigured):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrAINotConfigured)
	case errors.Is(err, oracle.ErrInsufficientResume):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrResumeInsufficient)
	case errors.Is(err, oracle.ErrMalformedResponse):
		response.Fail(c, http.StatusBadGateway, response.ErrAIUnavailable)
	default:
		h.log.Error().Err(err).Msg("Interview operation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
