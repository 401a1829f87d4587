package models

type TemplateQuestion struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	TemplateID          uint             `gorm:"not null;index" json:"template_id"`
	Text                string           `gorm:"type:text;not null" json:"text"`
	Criteria            string           `gorm:"size:20;not null" json:"criteria"`
	Options             []TemplateOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	ScaleMax            int              `gorm:"default:0" json:"scale_max,omitempty"`
	ParentID            *uint            `gorm:"index" json:"parent_id,omitempty"`
	ParentCategoryTexts []string         `gorm:"serializer:json" json:"parent_category_texts,omitempty"`
	OrderNum            int              `gorm:"not null" json:"order_num"`
	AutofillHint        string           `gorm:"type:text" json:"autofill_hint,omitempty"`
}

type TemplateOption struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"question_id"`
	Text       string `gorm:"size:500;not null" json:"text"`
	OrderNum   int    `gorm:"not null;default:0" json:"order_num"`
}

const (
	CriteriaCategorical = "categorical"
	CriteriaScale       = "scale"
	CriteriaOpen        = "open"
)
