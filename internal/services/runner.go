package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/flow"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"

	"gorm.io/gorm"
)

// RunnerService drives one recipient's traversal of a survey: load,
// answer mutations, pointer movement, and final submission. All flow
// decisions are delegated to the pure flow package; this service owns
// persistence and the error taxonomy at the network boundary.
type RunnerService struct {
	db      *gorm.DB
	surveys *SurveyService
}

func NewRunnerService(db *gorm.DB, surveys *SurveyService) *RunnerService {
	return &RunnerService{db: db, surveys: surveys}
}

var (
	ErrSurveyCompleted = errors.New("survey already completed")
	// ErrDegradedCompletion means answers were stored but the completion
	// status could not be updated; the recipient's data is safe server-side.
	ErrDegradedCompletion = errors.New("answers stored but completion could not be finalized")
)

type RunState struct {
	SurveyID      uint                    `json:"survey_id"`
	AdminID       uint                    `json:"-"`
	Title         string                  `json:"title"`
	Status        string                  `json:"status"`
	Mode          string                  `json:"mode"`
	Questions     []models.SurveyQuestion `json:"questions"`
	CurrentIndex  int                     `json:"current_index"`
	Progress      int                     `json:"progress"`
	HasUnanswered bool                    `json:"has_unanswered"`
	AutoSubmitted bool                    `json:"auto_submitted"`
}

type SubmitResult struct {
	SurveyID uint   `json:"survey_id"`
	AdminID  uint   `json:"-"`
	Status   string `json:"status"`
	Answered int    `json:"answered"`
	Degraded bool   `json:"degraded"`
}

// Load opens a recipient session: normalize, drop satisfied autofill
// questions, evaluate visibility. If nothing is left to ask, the survey is
// submitted on the spot rather than presenting an empty page.
func (s *RunnerService) Load(token string) (*RunState, error) {
	survey, err := s.surveys.GetSurveyByToken(token)
	if err != nil {
		return nil, err
	}
	if survey.Status == models.SurveyStatusCompleted {
		return nil, ErrSurveyCompleted
	}

	if survey.Status == models.SurveyStatusPending {
		if err := s.surveys.UpdateStatus(survey.ID, models.SurveyStatusInProgress); err != nil {
			return nil, err
		}
		survey.Status = models.SurveyStatusInProgress
	}

	working := flow.RespondentQuestions(flow.Normalize(survey.Questions))
	visible := flow.Visible(working)

	if flow.ShouldAutoSubmit(visible) {
		result, err := s.submit(survey, 0)
		if err != nil && !errors.Is(err, ErrDegradedCompletion) {
			return nil, err
		}
		return &RunState{
			SurveyID:      survey.ID,
			AdminID:       survey.AdminID,
			Title:         survey.Title,
			Status:        result.Status,
			Mode:          survey.Mode,
			Questions:     visible,
			AutoSubmitted: true,
		}, nil
	}

	index := clampStoredIndex(survey.CurrentIndex, len(visible))
	return s.state(survey, visible, index), nil
}

// Answer applies one mutation to one question and re-evaluates the world.
// The value is validated against the question's criteria; the raw answer is
// recorded because this is a genuine user action, not autofill.
func (s *RunnerService) Answer(token string, questionID uint, value string) (*RunState, error) {
	survey, err := s.surveys.GetSurveyByToken(token)
	if err != nil {
		return nil, err
	}
	if survey.Status == models.SurveyStatusCompleted {
		return nil, ErrSurveyCompleted
	}

	working := flow.RespondentQuestions(flow.Normalize(survey.Questions))

	target, ok := findQuestion(working, questionID)
	if !ok {
		return nil, errors.New("question not found in survey")
	}

	oldVisible := flow.Visible(working)
	currentID := uint(0)
	if idx := clampStoredIndex(survey.CurrentIndex, len(oldVisible)); idx < len(oldVisible) {
		currentID = oldVisible[idx].ID
	}

	switch target.Criteria {
	case models.CriteriaCategorical:
		if !containsString(target.Categories, value) {
			return nil, fmt.Errorf("%q is not an option of this question", value)
		}
		working = flow.ApplyCategorySelect(working, questionID, value)
	case models.CriteriaScale:
		rating, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || rating < 1 || rating > target.ScaleMax {
			return nil, fmt.Errorf("rating must be an integer between 1 and %d", target.ScaleMax)
		}
		working = flow.ApplyRatingSelect(working, questionID, rating)
	case models.CriteriaOpen:
		working = flow.ApplyTextChange(working, questionID, value)
	default:
		return nil, fmt.Errorf("unknown criteria: %s", target.Criteria)
	}
	working = flow.ApplyRawAnswer(working, questionID, value)

	updated, _ := findQuestion(working, questionID)
	err = s.db.Model(&models.SurveyQuestion{}).
		Where("id = ? AND survey_id = ?", questionID, survey.ID).
		Updates(map[string]interface{}{
			"answer":     updated.Answer,
			"raw_answer": updated.RawAnswer,
		}).Error
	if err != nil {
		return nil, err
	}

	newVisible := flow.Visible(working)
	index := flow.ClampIndex(newVisible, currentID)
	s.persistIndex(survey.ID, index)

	return s.state(survey, newVisible, index), nil
}

func (s *RunnerService) Next(token string) (*RunState, error) {
	return s.move(token, func(current, count int) int {
		return flow.NextIndex(current, count)
	})
}

func (s *RunnerService) Previous(token string) (*RunState, error) {
	return s.move(token, func(current, count int) int {
		return flow.PrevIndex(current)
	})
}

func (s *RunnerService) move(token string, step func(current, count int) int) (*RunState, error) {
	survey, err := s.surveys.GetSurveyByToken(token)
	if err != nil {
		return nil, err
	}
	if survey.Status == models.SurveyStatusCompleted {
		return nil, ErrSurveyCompleted
	}

	working := flow.RespondentQuestions(flow.Normalize(survey.Questions))
	visible := flow.Visible(working)

	index := step(clampStoredIndex(survey.CurrentIndex, len(visible)), len(visible))
	s.persistIndex(survey.ID, index)

	return s.state(survey, visible, index), nil
}

// Submit assembles the final payload and finalizes the survey. Answer
// persistence is required for success; a status failure afterwards degrades
// the outcome but the answers are already stored; the trailing duration
// update is never fatal.
func (s *RunnerService) Submit(token string, durationSeconds int) (*SubmitResult, error) {
	survey, err := s.surveys.GetSurveyByToken(token)
	if err != nil {
		return nil, err
	}
	if survey.Status == models.SurveyStatusCompleted {
		return nil, ErrSurveyCompleted
	}

	return s.submit(survey, durationSeconds)
}

func (s *RunnerService) submit(survey *models.Survey, durationSeconds int) (*SubmitResult, error) {
	original := flow.Normalize(survey.Questions)
	working := flow.RespondentQuestions(original)
	payload := flow.BuildSubmissionPayload(original, working)

	if err := s.surveys.SaveAnswers(survey.ID, payload); err != nil {
		return nil, fmt.Errorf("failed to submit answers: %w", err)
	}

	answered := 0
	for _, q := range payload {
		if strings.TrimSpace(q.Answer) != "" {
			answered++
		}
	}

	result := &SubmitResult{
		SurveyID: survey.ID,
		AdminID:  survey.AdminID,
		Status:   models.SurveyStatusCompleted,
		Answered: answered,
	}

	if err := s.surveys.UpdateStatus(survey.ID, models.SurveyStatusCompleted); err != nil {
		log.Printf("runner: survey %d answers stored but status update failed: %v", survey.ID, err)
		result.Status = survey.Status
		result.Degraded = true
		return result, ErrDegradedCompletion
	}

	if durationSeconds > 0 {
		if err := s.surveys.UpdateDuration(survey.ID, durationSeconds); err != nil {
			log.Printf("runner: survey %d duration update failed: %v", survey.ID, err)
		}
	}

	return result, nil
}

func (s *RunnerService) state(survey *models.Survey, visible []models.SurveyQuestion, index int) *RunState {
	return &RunState{
		SurveyID:      survey.ID,
		AdminID:       survey.AdminID,
		Title:         survey.Title,
		Status:        survey.Status,
		Mode:          survey.Mode,
		Questions:     visible,
		CurrentIndex:  index,
		Progress:      flow.ProgressPercent(len(visible), index),
		HasUnanswered: flow.HasUnanswered(visible),
	}
}

func (s *RunnerService) persistIndex(surveyID uint, index int) {
	if err := s.db.Model(&models.Survey{}).
		Where("id = ?", surveyID).
		Update("current_index", index).Error; err != nil {
		log.Printf("runner: survey %d pointer update failed: %v", surveyID, err)
	}
}

func clampStoredIndex(index, visibleCount int) int {
	if visibleCount == 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index >= visibleCount {
		return visibleCount - 1
	}
	return index
}

func findQuestion(qs []models.SurveyQuestion, id uint) (models.SurveyQuestion, bool) {
	for _, q := range qs {
		if q.ID == id {
			return q, true
		}
	}
	return models.SurveyQuestion{}, false
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
