package models

import "time"

type Survey struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	AdminID         uint             `gorm:"not null;index" json:"admin_id"`
	Admin           Admin            `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	TemplateID      uint             `gorm:"not null;index" json:"template_id"`
	Template        Template         `gorm:"foreignKey:TemplateID" json:"-"`
	Title           string           `gorm:"size:255;not null" json:"title"`
	RecipientName   string           `gorm:"size:255" json:"recipient_name,omitempty"`
	RecipientEmail  string           `gorm:"size:255" json:"recipient_email,omitempty"`
	Token           string           `gorm:"size:64;uniqueIndex;not null" json:"token"`
	Status          string           `gorm:"size:20;not null;default:'Pending'" json:"status"`
	Mode            string           `gorm:"size:10;not null;default:'text'" json:"mode"`
	AutofillEnabled bool             `gorm:"not null;default:false" json:"autofill_enabled"`
	CurrentIndex    int              `gorm:"not null;default:0" json:"current_index"`
	DurationSeconds int              `gorm:"not null;default:0" json:"duration_seconds"`
	CSATScore       *int             `json:"csat_score,omitempty"`
	Questions       []SurveyQuestion `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	CompletedAt     *time.Time       `json:"completed_at,omitempty"`
}

const (
	SurveyStatusPending    = "Pending"
	SurveyStatusInProgress = "InProgress"
	SurveyStatusCompleted  = "Completed"

	SurveyModeText  = "text"
	SurveyModeVoice = "voice"
)
