package models

import "time"

type Template struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	AdminID     uint               `gorm:"not null;index" json:"admin_id"`
	Admin       Admin              `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	Title       string             `gorm:"size:255;not null" json:"title"`
	Description string             `gorm:"type:text" json:"description,omitempty"`
	Questions   []TemplateQuestion `gorm:"foreignKey:TemplateID" json:"questions,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
