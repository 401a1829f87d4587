package handlers

import (
	"errors"
	"net/http"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/services"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/ws"

	"github.com/gin-gonic/gin"
)

// RunHandler exposes the recipient-facing survey runner. Endpoints are
// keyed by the survey's link token; no JWT is involved.
type RunHandler struct {
	runnerService *services.RunnerService
	surveyService *services.SurveyService
	hub           *ws.Hub
}

func NewRunHandler(runnerService *services.RunnerService, surveyService *services.SurveyService, hub *ws.Hub) *RunHandler {
	return &RunHandler{runnerService: runnerService, surveyService: surveyService, hub: hub}
}

type AnswerRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Value      string `json:"value"`
}

type SubmitRequest struct {
	DurationSeconds int `json:"duration_seconds" binding:"omitempty,min=0"`
}

type CSATRequest struct {
	Score int `json:"score" binding:"required,min=1,max=5"`
}

// Load godoc
// @Summary      Open a recipient survey session
// @Description  Returns the currently visible questions and traversal state. If every question is already satisfied the survey is submitted immediately and auto_submitted is set.
// @Tags         run
// @Produce      json
// @Param        token path string true "Survey link token"
// @Success      200 {object} services.RunState
// @Failure      404 {object} ErrorResponse
// @Failure      410 {object} ErrorResponse
// @Router       /api/v1/run/{token} [get]
func (h *RunHandler) Load(c *gin.Context) {
	state, err := h.runnerService.Load(c.Param("token"))
	if err != nil {
		h.runError(c, err)
		return
	}

	if state.AutoSubmitted {
		h.hub.BroadcastToAdmin(state.AdminID, ws.WSMessage{Type: "survey_completed", Data: gin.H{"survey_id": state.SurveyID}})
	}

	c.JSON(http.StatusOK, state)
}

// Answer godoc
// @Summary      Answer one question
// @Description  Applies the value to the question, re-evaluates conditional visibility and re-clamps the traversal pointer.
// @Tags         run
// @Accept       json
// @Produce      json
// @Param        token path string true "Survey link token"
// @Param        request body AnswerRequest true "Answer"
// @Success      200 {object} services.RunState
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/run/{token}/answer [post]
func (h *RunHandler) Answer(c *gin.Context) {
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	state, err := h.runnerService.Answer(c.Param("token"), req.QuestionID, req.Value)
	if err != nil {
		h.runError(c, err)
		return
	}

	h.hub.BroadcastToAdmin(state.AdminID, ws.WSMessage{
		Type: "answer_received",
		Data: gin.H{"survey_id": state.SurveyID, "question_id": req.QuestionID},
	})

	c.JSON(http.StatusOK, state)
}

// Next godoc
// @Summary      Move to the next visible question
// @Tags         run
// @Produce      json
// @Param        token path string true "Survey link token"
// @Success      200 {object} services.RunState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/run/{token}/next [post]
func (h *RunHandler) Next(c *gin.Context) {
	state, err := h.runnerService.Next(c.Param("token"))
	if err != nil {
		h.runError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Previous godoc
// @Summary      Move back to the previous visible question
// @Tags         run
// @Produce      json
// @Param        token path string true "Survey link token"
// @Success      200 {object} services.RunState
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/run/{token}/previous [post]
func (h *RunHandler) Previous(c *gin.Context) {
	state, err := h.runnerService.Previous(c.Param("token"))
	if err != nil {
		h.runError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Submit godoc
// @Summary      Submit the survey
// @Description  Persists the reconciled answer set and marks the survey completed, then records the session duration. A duration failure never blocks completion; a completion-status failure returns the degraded flag so the client can tell the recipient their answers are safe.
// @Tags         run
// @Accept       json
// @Produce      json
// @Param        token path string true "Survey link token"
// @Param        request body SubmitRequest true "Submission data"
// @Success      200 {object} services.SubmitResult
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/run/{token}/submit [post]
func (h *RunHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.runnerService.Submit(c.Param("token"), req.DurationSeconds)
	if err != nil {
		if errors.Is(err, services.ErrDegradedCompletion) {
			// Answers are stored server-side; tell the client instead of
			// failing the whole submission.
			c.JSON(http.StatusOK, result)
			return
		}
		h.runError(c, err)
		return
	}

	h.hub.BroadcastToAdmin(result.AdminID, ws.WSMessage{Type: "survey_completed", Data: result})

	c.JSON(http.StatusOK, result)
}

// RecordCSAT godoc
// @Summary      Record the post-survey satisfaction rating
// @Tags         run
// @Accept       json
// @Produce      json
// @Param        token path string true "Survey link token"
// @Param        request body CSATRequest true "1-5 rating"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/run/{token}/csat [post]
func (h *RunHandler) RecordCSAT(c *gin.Context) {
	var req CSATRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.surveyService.RecordCSAT(c.Param("token"), req.Score); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "thanks for the feedback"})
}

func (h *RunHandler) runError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSurveyCompleted):
		c.JSON(http.StatusGone, ErrorResponse{Error: err.Error()})
	case err.Error() == "survey not found":
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}
