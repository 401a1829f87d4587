package services

import (
	"errors"
	"fmt"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type TemplateService struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db, validate: validator.New()}
}

type QuestionInput struct {
	Text                string        `json:"text" validate:"required"`
	Criteria            string        `json:"criteria" validate:"required"`
	Options             []OptionInput `json:"options" validate:"dive"`
	ScaleMax            int           `json:"scale_max"`
	ParentID            *uint         `json:"parent_id"`
	ParentCategoryTexts []string      `json:"parent_category_texts"`
	OrderNum            int           `json:"order_num"`
	AutofillHint        string        `json:"autofill_hint"`
}

type OptionInput struct {
	Text     string `json:"text" validate:"required,max=500"`
	OrderNum int    `json:"order_num"`
}

func (s *TemplateService) GetTemplatesByAdmin(adminID uint) ([]models.Template, error) {
	var templates []models.Template
	err := s.db.Where("admin_id = ?", adminID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Order("created_at DESC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *TemplateService) CreateTemplate(adminID uint, title, description string) (*models.Template, error) {
	tpl := models.Template{
		AdminID:     adminID,
		Title:       title,
		Description: description,
	}
	if err := s.db.Create(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *TemplateService) GetTemplateByID(templateID, adminID uint) (*models.Template, error) {
	var tpl models.Template
	err := s.db.Where("id = ? AND admin_id = ?", templateID, adminID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		First(&tpl).Error
	if err != nil {
		return nil, errors.New("template not found")
	}
	return &tpl, nil
}

func (s *TemplateService) UpdateTemplate(templateID, adminID uint, title, description string) (*models.Template, error) {
	var tpl models.Template
	if err := s.db.Where("id = ? AND admin_id = ?", templateID, adminID).First(&tpl).Error; err != nil {
		return nil, errors.New("template not found")
	}

	tpl.Title = title
	tpl.Description = description
	if err := s.db.Save(&tpl).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (s *TemplateService) DeleteTemplate(templateID, adminID uint) error {
	var tpl models.Template
	if err := s.db.Where("id = ? AND admin_id = ?", templateID, adminID).First(&tpl).Error; err != nil {
		return errors.New("template not found")
	}

	s.db.Where("question_id IN (SELECT id FROM template_questions WHERE template_id = ?)", templateID).Delete(&models.TemplateOption{})
	s.db.Where("template_id = ?", templateID).Delete(&models.TemplateQuestion{})
	return s.db.Delete(&tpl).Error
}

func (s *TemplateService) CreateQuestion(templateID, adminID uint, input QuestionInput) (*models.TemplateQuestion, error) {
	tpl, err := s.GetTemplateByID(templateID, adminID)
	if err != nil {
		return nil, err
	}

	if err := s.validateQuestion(input, tpl.Questions, 0); err != nil {
		return nil, err
	}

	question := models.TemplateQuestion{
		TemplateID:          templateID,
		Text:                input.Text,
		Criteria:            input.Criteria,
		ScaleMax:            input.ScaleMax,
		ParentID:            input.ParentID,
		ParentCategoryTexts: input.ParentCategoryTexts,
		OrderNum:            input.OrderNum,
		AutofillHint:        input.AutofillHint,
	}

	tx := s.db.Begin()
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for i, o := range input.Options {
		opt := models.TemplateOption{
			QuestionID: question.ID,
			Text:       o.Text,
			OrderNum:   i,
		}
		if err := tx.Create(&opt).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	tx.Commit()

	s.db.Preload("Options").First(&question, question.ID)
	return &question, nil
}

func (s *TemplateService) UpdateQuestion(questionID, adminID uint, input QuestionInput) (*models.TemplateQuestion, error) {
	var question models.TemplateQuestion
	if err := s.db.Preload("Options").First(&question, questionID).Error; err != nil {
		return nil, errors.New("question not found")
	}

	tpl, err := s.GetTemplateByID(question.TemplateID, adminID)
	if err != nil {
		return nil, errors.New("template not found or access denied")
	}

	if err := s.validateQuestion(input, tpl.Questions, questionID); err != nil {
		return nil, err
	}

	tx := s.db.Begin()

	question.Text = input.Text
	question.Criteria = input.Criteria
	question.ScaleMax = input.ScaleMax
	question.ParentID = input.ParentID
	question.ParentCategoryTexts = input.ParentCategoryTexts
	question.OrderNum = input.OrderNum
	question.AutofillHint = input.AutofillHint
	if err := tx.Save(&question).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Where("question_id = ?", questionID).Delete(&models.TemplateOption{}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for i, o := range input.Options {
		opt := models.TemplateOption{
			QuestionID: questionID,
			Text:       o.Text,
			OrderNum:   i,
		}
		if err := tx.Create(&opt).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	tx.Commit()

	s.db.Preload("Options").First(&question, questionID)
	return &question, nil
}

func (s *TemplateService) DeleteQuestion(questionID, adminID uint) error {
	var question models.TemplateQuestion
	if err := s.db.First(&question, questionID).Error; err != nil {
		return errors.New("question not found")
	}

	var tpl models.Template
	if err := s.db.Where("id = ? AND admin_id = ?", question.TemplateID, adminID).First(&tpl).Error; err != nil {
		return errors.New("template not found or access denied")
	}

	var dependents int64
	s.db.Model(&models.TemplateQuestion{}).Where("parent_id = ?", questionID).Count(&dependents)
	if dependents > 0 {
		return errors.New("question has conditional follow-ups; delete or detach them first")
	}

	s.db.Where("question_id = ?", questionID).Delete(&models.TemplateOption{})
	return s.db.Delete(&question).Error
}

type ReorderInput struct {
	Questions []QuestionOrder `json:"questions"`
}

type QuestionOrder struct {
	ID       uint `json:"id"`
	OrderNum int  `json:"order_num"`
}

func (s *TemplateService) ReorderTemplate(templateID, adminID uint, order ReorderInput) error {
	var tpl models.Template
	if err := s.db.Where("id = ? AND admin_id = ?", templateID, adminID).First(&tpl).Error; err != nil {
		return errors.New("template not found")
	}

	tx := s.db.Begin()
	for _, q := range order.Questions {
		err := tx.Model(&models.TemplateQuestion{}).
			Where("id = ? AND template_id = ?", q.ID, templateID).
			Update("order_num", q.OrderNum).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

// validateQuestion enforces the authoring rules: categorical questions carry
// 2-10 options, scale questions a bound in 2..10, and conditional questions
// must reference an existing categorical sibling with parent categories
// drawn from that sibling's options. Unknown criteria are rejected outright
// instead of being silently treated as open questions.
func (s *TemplateService) validateQuestion(input QuestionInput, siblings []models.TemplateQuestion, selfID uint) error {
	if err := s.validate.Struct(input); err != nil {
		return err
	}

	switch input.Criteria {
	case models.CriteriaCategorical:
		if len(input.Options) < 2 || len(input.Options) > 10 {
			return errors.New("categorical question must have 2 to 10 options")
		}
	case models.CriteriaScale:
		if input.ScaleMax < 2 || input.ScaleMax > 10 {
			return errors.New("scale_max must be between 2 and 10")
		}
		if len(input.Options) > 0 {
			return errors.New("scale question must not have options")
		}
	case models.CriteriaOpen:
		if len(input.Options) > 0 {
			return errors.New("open question must not have options")
		}
	default:
		return fmt.Errorf("unknown criteria: %s", input.Criteria)
	}

	if input.ParentID == nil {
		if len(input.ParentCategoryTexts) > 0 {
			return errors.New("parent_category_texts requires a parent question")
		}
		return nil
	}

	if *input.ParentID == selfID {
		return errors.New("question cannot be its own parent")
	}

	var parent *models.TemplateQuestion
	for i := range siblings {
		if siblings[i].ID == *input.ParentID {
			parent = &siblings[i]
			break
		}
	}
	if parent == nil {
		return errors.New("parent question not found in template")
	}
	if parent.Criteria != models.CriteriaCategorical {
		return errors.New("parent question must be categorical")
	}
	if len(input.ParentCategoryTexts) == 0 {
		return errors.New("conditional question must name at least one parent category")
	}

	optionTexts := make(map[string]bool, len(parent.Options))
	for _, o := range parent.Options {
		optionTexts[o.Text] = true
	}
	for _, text := range input.ParentCategoryTexts {
		if !optionTexts[text] {
			return fmt.Errorf("parent category %q is not an option of the parent question", text)
		}
	}

	return nil
}
