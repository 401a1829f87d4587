package handlers

import (
	"net/http"
	"strconv"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/services"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService *services.TemplateService
}

func NewTemplateHandler(templateService *services.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

type CreateTemplateRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
}

// ListTemplates godoc
// @Summary      List the admin's question templates
// @Tags         templates
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Template
// @Router       /api/v1/templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	adminID := c.GetUint("admin_id")

	templates, err := h.templateService.GetTemplatesByAdmin(adminID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, templates)
}

// CreateTemplate godoc
// @Summary      Create a question template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTemplateRequest true "Template data"
// @Success      201 {object} Template
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/templates [post]
func (h *TemplateHandler) CreateTemplate(c *gin.Context) {
	adminID := c.GetUint("admin_id")

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tpl, err := h.templateService.CreateTemplate(adminID, req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, tpl)
}

// GetTemplate godoc
// @Summary      Get a template with its questions
// @Tags         templates
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Template ID"
// @Success      200 {object} Template
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	templateID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid template id"})
		return
	}

	tpl, err := h.templateService.GetTemplateByID(uint(templateID), adminID)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, tpl)
}

// UpdateTemplate godoc
// @Summary      Update template title/description
// @Tags         templates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Template ID"
// @Param        request body CreateTemplateRequest true "Template data"
// @Success      200 {object} Template
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/templates/{id} [put]
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	templateID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid template id"})
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tpl, err := h.templateService.UpdateTemplate(uint(templateID), adminID, req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, tpl)
}

// DeleteTemplate godoc
// @Summary      Delete a template and its questions
// @Tags         templates
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Template ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/templates/{id} [delete]
func (h *TemplateHandler) DeleteTemplate(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	templateID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid template id"})
		return
	}

	if err := h.templateService.DeleteTemplate(uint(templateID), adminID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "template deleted"})
}

// ReorderTemplate godoc
// @Summary      Reorder the questions of a template
// @Tags         templates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Template ID"
// @Param        request body services.ReorderInput true "New question order"
// @Success      200 {object} MessageResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/v1/templates/{id}/reorder [put]
func (h *TemplateHandler) ReorderTemplate(c *gin.Context) {
	adminID := c.GetUint("admin_id")
	templateID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid template id"})
		return
	}

	var req services.ReorderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.templateService.ReorderTemplate(uint(templateID), adminID, req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "template reordered"})
}
