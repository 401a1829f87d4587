package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/queue"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/services"

	"github.com/gin-gonic/gin"
)

type SurveyHandler struct {
	surveyService *services.SurveyService
	queueClient   *queue.Client
}

func NewSurveyHandler(surveyService *services.SurveyService, queueClient *queue.Client) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService, queueClient: queueClient}
}

type LaunchSurveyRequest struct {
	TemplateID      uint   `json:"template_id" binding:"required"`
	Title           string `json:"title"`
	RecipientName   string `json:"recipient_name"`
	RecipientEmail  string `json:"recipient_email" binding:"omitempty,email"`
	Mode            string `json:"mode" binding:"omitempty,oneof=text voice"`
	Autofill        bool   `json:"autofill"`
	AutofillContext string `json:"autofill_context"`
}

// LaunchSurvey godoc
// @Summary      Launch a survey for one recipient from a template
// @Description  Snapshots the template questions and returns the recipient link token. With autofill enabled, a background task pre-answers questions from the supplied context before the recipient opens the link.
// @Tags         surveys
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body LaunchSurveyRequest true "Launch data"
// @Success      201 {object} Survey
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/surveys [post]
func (h *SurveyHandler) LaunchSurvey(c *gin.Context) {
	adminID := c.GetUint("admin_id")

	var req LaunchSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	survey, err := h.surveyService.LaunchSurvey(adminID, services.LaunchInput{
		TemplateID:     req.TemplateID,
		Title:          req.Title,
		RecipientName:  req.RecipientName,
		RecipientEmail: req.RecipientEmail,
		Mode:           req.Mode,
		Autofill:       req.Autofill,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if req.Autofill {
		if h.queueClient == nil {
			log.Printf("surveys: autofill requested for survey %d but queue is not configured", survey.ID)
		} else {
			task := &queue.AutofillPayload{SurveyID: survey.ID, Context: req.AutofillContext}
			if err := h.queueClient.Enqueue(task); err != nil {
				log.Printf("surveys: enqueue autofill for survey %d failed: %v", survey.ID, err)
			}
		}
	}

	c.JSON(http.StatusCreated, survey)
}

// ListSurveys godoc
// @Summary      List launched surveys
// @Tags         surveys
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Match against title, recipient name or email"
// @Param        page query int false "Page number (1-based)"
// @Param        page_size query int false "Page size (max 100)"
// @Success      200 {object} SurveyListResponse
// @Router       /api/v1/surveys [get]
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	adminID := c.GetUint("admin_id")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	search := c.Query("search")

	surveys, total, err := h.surveyService.ListSurveys(adminID, search, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, SurveyListResponse{
		Surveys: surveys,
		Total:   total,
		Page:    page,
	})
}

type SurveyListResponse struct {
	Surveys []services.SurveySummary `json:"surveys"`
	Total   int64                    `json:"total"`
	Page    int                      `json:"page"`
}

// GetSurvey godoc
// @Summary      Get a survey with its question snapshot
// @Tags         surveys
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Survey ID"
// @Success      200 {object} Survey
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/surveys/{id} [get]
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	surveyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid survey id"})
		return
	}

	survey, err := h.surveyService.GetSurveyByID(uint(surveyID), adminID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, survey)
}

// GetResults godoc
// @Summary      Get answer results for a survey
// @Tags         surveys
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Survey ID"
// @Success      200 {object} services.SurveyResults
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/surveys/{id}/results [get]
func (h *SurveyHandler) GetResults(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	surveyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid survey id"})
		return
	}

	results, err := h.surveyService.GetResults(uint(surveyID), adminID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}

// DeleteSurvey godoc
// @Summary      Delete a survey and its answers
// @Tags         surveys
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Survey ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/surveys/{id} [delete]
func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	surveyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid survey id"})
		return
	}

	if err := h.surveyService.DeleteSurvey(uint(surveyID), adminID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "survey deleted"})
}
