package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/canvasshq/canvass-backend/internal/middleware"
	"github.com/canvasshq/canvass-backend/internal/model"
	"github.com/canvasshq/canvass-backend/internal/repository"
	"github.com/canvasshq/canvass-backend/internal/response"
	"github.com/canvasshq/canvass-backend/internal/service"
	"github.com/canvasshq/canvass-backend/internal/validator"
)

// AuthHandler handles operator authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
	operators   *repository.OperatorRepository
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService, operators *repository.OperatorRepository) *AuthHandler {
	return &AuthHandler{authService: authService, operators: operators}
}

// Login godoc
// POST /api/v1/auth/login
// Exchanges operator credentials for a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	operator, err := h.operators.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(operator.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateOperatorToken(c.Request.Context(), operator.ID, operator.Email)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"operator": gin.H{
			"id":    operator.ID,
			"email": operator.Email,
			"name":  operator.Name,
		},
	})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the profile of the currently authenticated operator.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	operator, err := h.operators.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"operator": gin.H{
			"id":         operator.ID,
			"email":      operator.Email,
			"name":       operator.Name,
			"created_at": operator.CreatedAt,
		},
	})
}
