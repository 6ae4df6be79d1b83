package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/canvasshq/canvass-backend/internal/catalog"
	"github.com/canvasshq/canvass-backend/internal/model"
	"github.com/canvasshq/canvass-backend/internal/response"
	"github.com/canvasshq/canvass-backend/internal/service"
	"github.com/canvasshq/canvass-backend/internal/validator"
)

// SurveyHandler handles the public respondent flow endpoints.
type SurveyHandler struct {
	sessionService *service.SessionService
}

// NewSurveyHandler creates a new SurveyHandler.
func NewSurveyHandler(sessionService *service.SessionService) *SurveyHandler {
	return &SurveyHandler{sessionService: sessionService}
}

// GetCatalog godoc
// GET /api/v1/survey/questions
// Returns the full question catalog, unfiltered.
func (h *SurveyHandler) GetCatalog(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"questions": catalog.Questions(),
	})
}

// StartSession godoc
// POST /api/v1/survey/sessions
// Creates a session positioned at the welcome screen.
func (h *SurveyHandler) StartSession(c *gin.Context) {
	metadata := service.CollectMetadata(c.Request)

	state, err := h.sessionService.Start(c.Request.Context(), metadata)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, stateBody(state))
}

// GetState godoc
// GET /api/v1/survey/sessions/:id
// Returns the current question, answer and progress.
func (h *SurveyHandler) GetState(c *gin.Context) {
	state, err := h.sessionService.State(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failFlow(c, err)
		return
	}
	response.Success(c, http.StatusOK, stateBody(state))
}

// SetAnswer godoc
// PUT /api/v1/survey/sessions/:id/answer
// Stores an answer on the current question.
func (h *SurveyHandler) SetAnswer(c *gin.Context) {
	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.SetAnswer(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.failFlow(c, err)
		return
	}
	response.Success(c, http.StatusOK, stateBody(state))
}

// MoveRankingItem godoc
// PUT /api/v1/survey/sessions/:id/move
// Reorders one element of the current ranking answer.
func (h *SurveyHandler) MoveRankingItem(c *gin.Context) {
	var req model.MoveRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.sessionService.MoveRankingItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.failFlow(c, err)
		return
	}
	response.Success(c, http.StatusOK, stateBody(state))
}

// Advance godoc
// POST /api/v1/survey/sessions/:id/next
// Moves forward one step; gated on answer validity.
func (h *SurveyHandler) Advance(c *gin.Context) {
	state, err := h.sessionService.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failFlow(c, err)
		return
	}
	response.Success(c, http.StatusOK, stateBody(state))
}

// Retreat godoc
// POST /api/v1/survey/sessions/:id/back
// Moves back one step; always allowed.
func (h *SurveyHandler) Retreat(c *gin.Context) {
	state, err := h.sessionService.Retreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failFlow(c, err)
		return
	}
	response.Success(c, http.StatusOK, stateBody(state))
}

// failFlow maps the flow error taxonomy onto response codes. Validation
// failures are 400s with no state change; gated persistence failures
// are retryable 502s.
func (h *SurveyHandler) failFlow(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
	case errors.Is(err, service.ErrSessionCompleted):
		response.Fail(c, http.StatusConflict, response.ErrSessionCompleted)
	case errors.Is(err, service.ErrNotCurrentQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrNotCurrentQuestion)
	case errors.Is(err, service.ErrAnswerRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrAnswerRequired)
	case errors.Is(err, service.ErrInvalidEmail):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidEmail)
	case errors.Is(err, service.ErrConsentRequired):
		response.Fail(c, http.StatusBadRequest, response.ErrConsentRequired)
	case errors.Is(err, service.ErrNotRankingQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrNotRankingQuestion)
	case errors.Is(err, service.ErrInvalidRanking):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidRanking)
	case errors.Is(err, service.ErrSubmissionFailed):
		response.Fail(c, http.StatusBadGateway, response.ErrSubmissionFailed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func stateBody(state *service.SessionState) gin.H {
	return gin.H{
		"session_id":  state.SessionID,
		"question":    state.Question,
		"answer":      state.Answer,
		"progress":    state.Progress,
		"completed":   state.Completed,
		"can_go_back": state.CanGoBack,
	}
}
