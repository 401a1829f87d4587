package services

import (
	"errors"
	"time"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SurveyService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSurveyService(db *gorm.DB) *SurveyService {
	return &SurveyService{db: db, now: time.Now}
}

type LaunchInput struct {
	TemplateID     uint   `json:"template_id"`
	Title          string `json:"title"`
	RecipientName  string `json:"recipient_name"`
	RecipientEmail string `json:"recipient_email"`
	Mode           string `json:"mode"`
	Autofill       bool   `json:"autofill"`
}

// LaunchSurvey snapshots a template into a recipient-specific question set.
// Snapshot rows get fresh ids, so parent references are remapped from
// template question ids in a second pass.
func (s *SurveyService) LaunchSurvey(adminID uint, input LaunchInput) (*models.Survey, error) {
	var tpl models.Template
	err := s.db.Where("id = ? AND admin_id = ?", input.TemplateID, adminID).
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

	if len(tpl.Questions) == 0 {
		return nil, errors.New("template must have at least one question")
	}

	title := input.Title
	if title == "" {
		title = tpl.Title
	}
	mode := models.SurveyModeText
	if input.Mode == models.SurveyModeVoice {
		mode = models.SurveyModeVoice
	}

	survey := models.Survey{
		AdminID:         adminID,
		TemplateID:      tpl.ID,
		Title:           title,
		RecipientName:   input.RecipientName,
		RecipientEmail:  input.RecipientEmail,
		Token:           uuid.NewString(),
		Status:          models.SurveyStatusPending,
		Mode:            mode,
		AutofillEnabled: input.Autofill,
	}

	tx := s.db.Begin()
	if err := tx.Create(&survey).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	idMap := make(map[uint]uint, len(tpl.Questions))
	for _, tq := range tpl.Questions {
		categories := make([]string, len(tq.Options))
		for i, o := range tq.Options {
			categories[i] = o.Text
		}
		sq := models.SurveyQuestion{
			SurveyID:            survey.ID,
			TemplateQuestionID:  tq.ID,
			Text:                tq.Text,
			Criteria:            tq.Criteria,
			Categories:          categories,
			ScaleMax:            tq.ScaleMax,
			ParentCategoryTexts: tq.ParentCategoryTexts,
			OrderNum:            tq.OrderNum,
			Autofill:            models.AutofillNo,
		}
		if err := tx.Create(&sq).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
		idMap[tq.ID] = sq.ID
	}

	for _, tq := range tpl.Questions {
		if tq.ParentID == nil {
			continue
		}
		parentSnapshotID, ok := idMap[*tq.ParentID]
		if !ok {
			tx.Rollback()
			return nil, errors.New("template has a dangling parent reference")
		}
		if err := tx.Model(&models.SurveyQuestion{}).
			Where("survey_id = ? AND template_question_id = ?", survey.ID, tq.ID).
			Update("parent_id", parentSnapshotID).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	tx.Commit()

	s.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&survey, survey.ID)
	return &survey, nil
}

func (s *SurveyService) ListSurveys(adminID uint, search string, page, pageSize int) ([]SurveySummary, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := s.db.Model(&models.Survey{}).Where("admin_id = ?", adminID)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR recipient_name LIKE ? OR recipient_email LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var surveys []models.Survey
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&surveys).Error; err != nil {
		return nil, 0, err
	}

	result := make([]SurveySummary, len(surveys))
	for i, sv := range surveys {
		var answered int64
		if err := s.db.Model(&models.SurveyQuestion{}).
			Where("survey_id = ? AND TRIM(answer) != ''", sv.ID).
			Count(&answered).Error; err != nil {
			return nil, 0, err
		}

		result[i] = SurveySummary{
			ID:              sv.ID,
			Title:           sv.Title,
			RecipientName:   sv.RecipientName,
			Status:          sv.Status,
			Mode:            sv.Mode,
			AnsweredCount:   int(answered),
			DurationSeconds: sv.DurationSeconds,
			CSATScore:       sv.CSATScore,
			CreatedAt:       sv.CreatedAt,
		}
	}
	return result, total, nil
}

func (s *SurveyService) GetSurveyByID(surveyID, adminID uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.Where("id = ? AND admin_id = ?", surveyID, adminID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		First(&survey).Error
	if err != nil {
		return nil, errors.New("survey not found")
	}
	return &survey, nil
}

func (s *SurveyService) GetSurveyByToken(token string) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.Where("token = ?", token).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_num ASC")
		}).
		First(&survey).Error
	if err != nil {
		return nil, errors.New("survey not found")
	}
	return &survey, nil
}

func (s *SurveyService) DeleteSurvey(surveyID, adminID uint) error {
	var survey models.Survey
	if err := s.db.Where("id = ? AND admin_id = ?", surveyID, adminID).First(&survey).Error; err != nil {
		return errors.New("survey not found")
	}

	s.db.Where("survey_id = ?", surveyID).Delete(&models.SurveyQuestion{})
	return s.db.Delete(&survey).Error
}

// SaveAnswers persists a reconciled question payload. Only the mutable
// session fields are written; the snapshot fields stay as launched.
func (s *SurveyService) SaveAnswers(surveyID uint, questions []models.SurveyQuestion) error {
	tx := s.db.Begin()
	for _, q := range questions {
		err := tx.Model(&models.SurveyQuestion{}).
			Where("id = ? AND survey_id = ?", q.ID, surveyID).
			Updates(map[string]interface{}{
				"answer":     q.Answer,
				"raw_answer": q.RawAnswer,
				"autofill":   q.Autofill,
			}).Error
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

func (s *SurveyService) UpdateStatus(surveyID uint, status string) error {
	updates := map[string]interface{}{"status": status}
	if status == models.SurveyStatusCompleted {
		now := s.now()
		updates["completed_at"] = &now
	}
	result := s.db.Model(&models.Survey{}).Where("id = ?", surveyID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("survey not found")
	}
	return nil
}

func (s *SurveyService) UpdateDuration(surveyID uint, seconds int) error {
	if seconds < 0 {
		return errors.New("duration must not be negative")
	}
	return s.db.Model(&models.Survey{}).
		Where("id = ?", surveyID).
		Update("duration_seconds", seconds).Error
}

func (s *SurveyService) RecordCSAT(token string, score int) error {
	if score < 1 || score > 5 {
		return errors.New("csat score must be between 1 and 5")
	}

	var survey models.Survey
	if err := s.db.Where("token = ?", token).First(&survey).Error; err != nil {
		return errors.New("survey not found")
	}
	if survey.Status != models.SurveyStatusCompleted {
		return errors.New("survey is not completed yet")
	}

	return s.db.Model(&survey).Update("csat_score", score).Error
}

func (s *SurveyService) GetResults(surveyID, adminID uint) (*SurveyResults, error) {
	survey, err := s.GetSurveyByID(surveyID, adminID)
	if err != nil {
		return nil, err
	}

	results := &SurveyResults{
		Survey:    *survey,
		Total:     len(survey.Questions),
		CSATScore: survey.CSATScore,
	}
	for _, q := range survey.Questions {
		if q.Answer != "" {
			results.Answered++
		}
		if q.Autofill == models.AutofillYes {
			results.Autofilled++
		}
	}
	return results, nil
}

type SurveySummary struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	RecipientName   string    `json:"recipient_name,omitempty"`
	Status          string    `json:"status"`
	Mode            string    `json:"mode"`
	AnsweredCount   int       `json:"answered_count"`
	DurationSeconds int       `json:"duration_seconds"`
	CSATScore       *int      `json:"csat_score,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type SurveyResults struct {
	models.Survey
	Total      int  `json:"total_questions"`
	Answered   int  `json:"answered_questions"`
	Autofilled int  `json:"autofilled_questions"`
	CSATScore  *int `json:"csat_score,omitempty"`
}
