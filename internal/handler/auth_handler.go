package handler

import (
	"errors"
	"net/http"

	"github.com/crisphq/crisp-backend/internal/middleware"
	"github.com/crisphq/crisp-backend/internal/model"
	"github.com/crisphq/crisp-backend/internal/response"
	"github.com/crisphq/crisp-backend/internal/service"
	"github.com/crisphq/crisp-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles interviewer authentication endpoints.
type AuthHandler struct {
	authService        *service.AuthService
	interviewerService *service.InterviewerService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, interviewerService *service.InterviewerService) *AuthHandler {
	return &AuthHandler{
		authService:        authService,
		interviewerService: interviewerService,
	}
}

// Login godoc
// POST /api/v1/auth/login
// Authenticates an interviewer and returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.InterviewerLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated interviewer.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	interviewer, err := h.interviewerService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"interviewer": interviewer})
}
