package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/crisphq/crisp-backend/internal/oracle"
	"github.com/crisphq/crisp-backend/internal/repository"
	"github.com/crisphq/crisp-backend/internal/response"
	"github.com/crisphq/crisp-backend/internal/service"
	"github.com/crisphq/crisp-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CandidateHandler handles the candidate intake flow: resume upload and
// profile creation. These routes are public.
type CandidateHandler struct {
	candidateService *service.CandidateService
	maxResumeBytes   int64
	log              zerolog.Logger
}

// NewCandidateHandler creates a new CandidateHandler.
func NewCandidateHandler(candidateService *service.CandidateService, maxResumeBytes int64, log zerolog.Logger) *CandidateHandler {
	return &CandidateHandler{
		candidateService: candidateService,
		maxResumeBytes:   maxResumeBytes,
		log:              log.With().Str("component", "candidate_handler").Logger(),
	}
}

// UploadResume godoc
// POST /api/v1/candidates/resume
// Accepts a multipart PDF/DOCX upload, parses it with the AI collaborator,
// and returns the extracted profile plus any missing contact fields.
func (h *CandidateHandler) UploadResume(c *gin.Context) {
	fileHeader, err := c.FormFile("resume")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	if fileHeader.Size > h.maxResumeBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxResumeBytes+1))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if int64(len(data)) > h.maxResumeBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	result, err := h.candidateService.ParseResume(c.Request.Context(), data, mimeType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedResumeType):
			response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
		case errors.Is(err, service.ErrEmptyResume):
			response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		case errors.Is(err, oracle.ErrNotConfigured):
			response.Fail(c, http.StatusServiceUnavailable, response.ErrAINotConfigured)
		default:
			h.log.Error().Err(err).Msg("Resume parse failed")
			response.Fail(c, http.StatusBadGateway, response.ErrAIUnavailable)
		}
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Create godoc
// POST /api/v1/candidates
// Registers a candidate once all contact fields are present.
func (h *CandidateHandler) Create(c *gin.Context) {
	var req model.CreateCandidateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	candidate, err := h.candidateService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			response.Fail(c, http.StatusConflict, response.ErrConflict)
			return
		}
		h.log.Error().Err(err).Msg("Candidate create failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"candidate": candidate})
}
