package handlers

import (
	"log"
	"net/http"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/services"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/ws"

	"github.com/gin-gonic/gin"
)

// VoiceHandler bridges the voice provider: session creation for the web
// SDK, and the webhook through which recognized answers come back.
type VoiceHandler struct {
	voiceService  *services.VoiceService
	runnerService *services.RunnerService
	surveyService *services.SurveyService
	hub           *ws.Hub
	webhookSecret string
}

func NewVoiceHandler(voiceService *services.VoiceService, runnerService *services.RunnerService, surveyService *services.SurveyService, hub *ws.Hub, webhookSecret string) *VoiceHandler {
	return &VoiceHandler{
		voiceService:  voiceService,
		runnerService: runnerService,
		surveyService: surveyService,
		hub:           hub,
		webhookSecret: webhookSecret,
	}
}

type CreateVoiceSessionRequest struct {
	Token string `json:"token" binding:"required"`
}

// CreateSession godoc
// @Summary      Create a voice session for a survey
// @Description  Builds a provider assistant scripted from the survey's visible questions and returns its id for the voice web SDK.
// @Tags         voice
// @Accept       json
// @Produce      json
// @Param        request body CreateVoiceSessionRequest true "Survey link token"
// @Success      201 {object} services.VoiceSessionConfig
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/voice/sessions [post]
func (h *VoiceHandler) CreateSession(c *gin.Context) {
	var req CreateVoiceSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	state, err := h.runnerService.Load(req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	if state.AutoSubmitted {
		c.JSON(http.StatusConflict, ErrorResponse{Error: "survey was already satisfied and has been submitted"})
		return
	}

	survey, err := h.surveyService.GetSurveyByToken(req.Token)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	config, err := h.voiceService.CreateSession(survey, state.Questions)
	if err != nil {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, config)
}

type VoiceWebhookAnswer struct {
	QuestionID uint   `json:"question_id"`
	Value      string `json:"value"`
}

type VoiceWebhookRequest struct {
	Token           string               `json:"token" binding:"required"`
	Answers         []VoiceWebhookAnswer `json:"answers"`
	Completed       bool                 `json:"completed"`
	DurationSeconds int                  `json:"duration_seconds"`
}

// HandleWebhook ingests recognized answers from the voice provider. Each
// answer goes through the same runner path as typed input, so conditional
// visibility and validation behave identically in both modes.
func (h *VoiceHandler) HandleWebhook(c *gin.Context) {
	if c.Param("secret") != h.webhookSecret || h.webhookSecret == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid webhook secret"})
		return
	}

	var req VoiceWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	accepted := 0
	for _, a := range req.Answers {
		state, err := h.runnerService.Answer(req.Token, a.QuestionID, a.Value)
		if err != nil {
			log.Printf("voice: answer for question %d rejected: %v", a.QuestionID, err)
			continue
		}
		accepted++
		h.hub.BroadcastToAdmin(state.AdminID, ws.WSMessage{
			Type: "answer_received",
			Data: gin.H{"survey_id": state.SurveyID, "question_id": a.QuestionID, "via": "voice"},
		})
	}

	if req.Completed {
		result, err := h.runnerService.Submit(req.Token, req.DurationSeconds)
		if err != nil {
			log.Printf("voice: submit for token %s failed: %v", req.Token, err)
			c.JSON(http.StatusOK, gin.H{"accepted": accepted, "submitted": false})
			return
		}
		h.hub.BroadcastToAdmin(result.AdminID, ws.WSMessage{Type: "survey_completed", Data: result})
		c.JSON(http.StatusOK, gin.H{"accepted": accepted, "submitted": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"accepted": accepted})
}
