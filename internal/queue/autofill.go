package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/services"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

const TypeSurveyAutofill = "survey:autofill"

// AutofillPayload asks the worker to pre-answer a launched survey before
// the recipient opens the link.
type AutofillPayload struct {
	SurveyID uint
	Context  string
}

func (p *AutofillPayload) Process() (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal autofill payload: %w", err)
	}
	return asynq.NewTask(TypeSurveyAutofill, payload), nil
}

func (p *AutofillPayload) ProcessorName() string {
	return fmt.Sprintf("autofill survey %d", p.SurveyID)
}

type AutofillWorker struct {
	db    *gorm.DB
	brain *services.AutofillService
}

func NewAutofillWorker(db *gorm.DB, brain *services.AutofillService) *AutofillWorker {
	return &AutofillWorker{db: db, brain: brain}
}

func (w *AutofillWorker) Handle(ctx context.Context, t *asynq.Task) error {
	var payload AutofillPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("error decoding autofill payload: %w", err)
	}

	var survey models.Survey
	if err := w.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&survey, payload.SurveyID).Error; err != nil {
		return fmt.Errorf("survey %d not found: %w", payload.SurveyID, err)
	}

	// Autofill only makes sense before the recipient starts answering.
	if survey.Status != models.SurveyStatusPending {
		log.Printf("queue: survey %d is %s, skipping autofill", survey.ID, survey.Status)
		return nil
	}

	answers, err := w.brain.GenerateAnswers(survey.Questions, payload.Context)
	if err != nil {
		return fmt.Errorf("autofill for survey %d failed: %w", survey.ID, err)
	}

	filled := 0
	for id, value := range answers {
		err := w.db.Model(&models.SurveyQuestion{}).
			Where("id = ? AND survey_id = ?", id, survey.ID).
			Updates(map[string]interface{}{
				"answer":   value,
				"autofill": models.AutofillYes,
			}).Error
		if err != nil {
			log.Printf("queue: survey %d question %d autofill write failed: %v", survey.ID, id, err)
			continue
		}
		filled++
	}

	log.Printf("queue: survey %d autofilled %d of %d questions", survey.ID, filled, len(survey.Questions))
	return nil
}
