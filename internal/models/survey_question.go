package models

// SurveyQuestion is a per-recipient snapshot of a template question. The
// snapshot fields never change after launch; only Answer, RawAnswer and
// Autofill are written during a recipient session.
type SurveyQuestion struct {
	ID                  uint     `gorm:"primaryKey" json:"id"`
	SurveyID            uint     `gorm:"not null;index" json:"survey_id"`
	TemplateQuestionID  uint     `gorm:"not null" json:"template_question_id"`
	Text                string   `gorm:"type:text;not null" json:"text"`
	Criteria            string   `gorm:"size:20;not null" json:"criteria"`
	Categories          []string `gorm:"serializer:json" json:"categories,omitempty"`
	ScaleMax            int      `gorm:"default:0" json:"scale_max,omitempty"`
	ParentID            *uint    `gorm:"index" json:"parent_id,omitempty"`
	ParentCategoryTexts []string `gorm:"serializer:json" json:"parent_category_texts,omitempty"`
	OrderNum            int      `gorm:"not null" json:"order_num"`
	Answer              string   `gorm:"type:text" json:"answer"`
	RawAnswer           string   `gorm:"type:text" json:"raw_answer"`
	Autofill            string   `gorm:"size:3;not null;default:'No'" json:"autofill"`
}

const (
	AutofillYes = "Yes"
	AutofillNo  = "No"
)
