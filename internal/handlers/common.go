package handlers

import "github.com/waseem-akram-senarios/surveybot-sub001/internal/models"

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"operation successful"`
}

// Type aliases so swag can resolve models in annotations.
type Template = models.Template
type TemplateQuestion = models.TemplateQuestion
type Survey = models.Survey
type SurveyQuestion = models.SurveyQuestion
