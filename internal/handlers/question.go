package handlers

import (
	"net/http"
	"strconv"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/services"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	templateService *services.TemplateService
}

func NewQuestionHandler(templateService *services.TemplateService) *QuestionHandler {
	return &QuestionHandler{templateService: templateService}
}

type CreateQuestionRequest struct {
	Text                string                 `json:"text" binding:"required"`
	Criteria            string                 `json:"criteria" binding:"required"`
	Options             []services.OptionInput `json:"options"`
	ScaleMax            int                    `json:"scale_max"`
	ParentID            *uint                  `json:"parent_id"`
	ParentCategoryTexts []string               `json:"parent_category_texts"`
	OrderNum            int                    `json:"order_num"`
	AutofillHint        string                 `json:"autofill_hint"`
}

func (r CreateQuestionRequest) toInput() services.QuestionInput {
	return services.QuestionInput{
		Text:                r.Text,
		Criteria:            r.Criteria,
		Options:             r.Options,
		ScaleMax:            r.ScaleMax,
		ParentID:            r.ParentID,
		ParentCategoryTexts: r.ParentCategoryTexts,
		OrderNum:            r.OrderNum,
		AutofillHint:        r.AutofillHint,
	}
}

// CreateQuestion godoc
// @Summary      Add a question to a template
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Template ID"
// @Param        request body CreateQuestionRequest true "Question data"
// @Success      201 {object} TemplateQuestion
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/templates/{id}/questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	templateID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid template id"})
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.templateService.CreateQuestion(uint(templateID), adminID, req.toInput())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, question)
}

// UpdateQuestion godoc
// @Summary      Update a template question
// @Tags         questions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Param        request body CreateQuestionRequest true "Question data"
// @Success      200 {object} TemplateQuestion
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.templateService.UpdateQuestion(uint(questionID), adminID, req.toInput())
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary      Delete a template question
// @Tags         questions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Question ID"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	questionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid question id"})
		return
	}

	if err := h.templateService.DeleteQuestion(uint(questionID), adminID); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "question deleted"})
}
