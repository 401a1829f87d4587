package services

import (
	"testing"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func launchFlowSurvey(t *testing.T, db *gorm.DB) (*RunnerService, *SurveyService, *models.Survey) {
	t.Helper()

	admin := seedAdmin(t, db)
	templates := NewTemplateService(db)
	surveys := NewSurveyService(db)
	runner := NewRunnerService(db, surveys)

	tpl, err := templates.CreateTemplate(admin.ID, "Support follow-up", "")
	require.NoError(t, err)

	parent, err := templates.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text:     "Was your issue resolved?",
		Criteria: models.CriteriaCategorical,
		Options:  options("Yes", "No"),
		OrderNum: 1,
	})
	require.NoError(t, err)

	_, err = templates.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text:                "What is still open?",
		Criteria:            models.CriteriaOpen,
		ParentID:            &parent.ID,
		ParentCategoryTexts: []string{"No"},
		OrderNum:            2,
	})
	require.NoError(t, err)

	_, err = templates.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text:     "How satisfied are you?",
		Criteria: models.CriteriaScale,
		ScaleMax: 5,
		OrderNum: 3,
	})
	require.NoError(t, err)

	survey, err := surveys.LaunchSurvey(admin.ID, LaunchInput{TemplateID: tpl.ID})
	require.NoError(t, err)
	require.Len(t, survey.Questions, 3)

	return runner, surveys, survey
}

func TestRunnerFullTraversal(t *testing.T) {
	db := newTestDB(t)
	runner, _, survey := launchFlowSurvey(t, db)

	state, err := runner.Load(survey.Token)
	require.NoError(t, err)
	assert.Equal(t, models.SurveyStatusInProgress, state.Status)
	require.Len(t, state.Questions, 2, "conditional child starts hidden")
	assert.Equal(t, 0, state.CurrentIndex)
	assert.Equal(t, 50, state.Progress)
	assert.True(t, state.HasUnanswered)

	parentID := state.Questions[0].ID

	// Rejects an answer that is not one of the question's categories.
	_, err = runner.Answer(survey.Token, parentID, "Maybe")
	assert.Error(t, err)

	state, err = runner.Answer(survey.Token, parentID, "No")
	require.NoError(t, err)
	require.Len(t, state.Questions, 3, "matching parent answer reveals the child")
	assert.Equal(t, "No", state.Questions[0].Answer)
	assert.Equal(t, "No", state.Questions[0].RawAnswer)

	// Flipping the parent hides the child again and the pointer stays valid.
	state, err = runner.Answer(survey.Token, parentID, "Yes")
	require.NoError(t, err)
	require.Len(t, state.Questions, 2)

	state, err = runner.Next(survey.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentIndex)
	assert.Equal(t, 100, state.Progress)

	// Next at the last question is a no-op.
	state, err = runner.Next(survey.Token)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentIndex)

	scaleID := state.Questions[1].ID

	_, err = runner.Answer(survey.Token, scaleID, "6")
	assert.Error(t, err, "rating above scale_max is rejected")

	state, err = runner.Answer(survey.Token, scaleID, "4")
	require.NoError(t, err)
	assert.False(t, state.HasUnanswered)

	result, err := runner.Submit(survey.Token, 42)
	require.NoError(t, err)
	assert.Equal(t, models.SurveyStatusCompleted, result.Status)
	assert.False(t, result.Degraded)
	assert.Equal(t, 2, result.Answered)

	var reloaded models.Survey
	require.NoError(t, db.Preload("Questions").First(&reloaded, survey.ID).Error)
	assert.Equal(t, models.SurveyStatusCompleted, reloaded.Status)
	assert.Equal(t, 42, reloaded.DurationSeconds)
	require.NotNil(t, reloaded.CompletedAt)

	_, err = runner.Load(survey.Token)
	assert.ErrorIs(t, err, ErrSurveyCompleted)

	_, err = runner.Submit(survey.Token, 1)
	assert.ErrorIs(t, err, ErrSurveyCompleted)
}

func TestRunnerHiddenChildAnswerPreserved(t *testing.T) {
	db := newTestDB(t)
	runner, _, survey := launchFlowSurvey(t, db)

	state, err := runner.Load(survey.Token)
	require.NoError(t, err)
	parentID := state.Questions[0].ID

	state, err = runner.Answer(survey.Token, parentID, "No")
	require.NoError(t, err)
	childID := state.Questions[1].ID

	_, err = runner.Answer(survey.Token, childID, "shipping delay")
	require.NoError(t, err)

	// Hiding the child does not clear its answer; the submission payload
	// carries it verbatim.
	_, err = runner.Answer(survey.Token, parentID, "Yes")
	require.NoError(t, err)

	_, err = runner.Submit(survey.Token, 0)
	require.NoError(t, err)

	var child models.SurveyQuestion
	require.NoError(t, db.First(&child, childID).Error)
	assert.Equal(t, "shipping delay", child.Answer)
	assert.Equal(t, "shipping delay", child.RawAnswer)
}

func TestRunnerAutoSubmitWhenFullyAutofilled(t *testing.T) {
	db := newTestDB(t)
	runner, _, survey := launchFlowSurvey(t, db)

	// Simulate the brain pre-answering every question.
	answers := map[int]string{0: "Yes", 1: "n/a", 2: "5"}
	for i, q := range survey.Questions {
		require.NoError(t, db.Model(&models.SurveyQuestion{}).
			Where("id = ?", q.ID).
			Updates(map[string]interface{}{
				"answer":   answers[i],
				"autofill": models.AutofillYes,
			}).Error)
	}

	state, err := runner.Load(survey.Token)
	require.NoError(t, err)
	assert.True(t, state.AutoSubmitted)
	assert.Empty(t, state.Questions)
	assert.Equal(t, models.SurveyStatusCompleted, state.Status)

	var reloaded models.Survey
	require.NoError(t, db.Preload("Questions").First(&reloaded, survey.ID).Error)
	assert.Equal(t, models.SurveyStatusCompleted, reloaded.Status)
	for _, q := range reloaded.Questions {
		assert.NotEmpty(t, q.Answer, "autofilled answers survive auto-submission")
		assert.Empty(t, q.RawAnswer, "the recipient never typed anything")
	}
}

func TestRecordCSAT(t *testing.T) {
	db := newTestDB(t)
	runner, surveys, survey := launchFlowSurvey(t, db)

	err := surveys.RecordCSAT(survey.Token, 5)
	assert.Error(t, err, "csat requires a completed survey")

	state, err := runner.Load(survey.Token)
	require.NoError(t, err)
	for _, q := range state.Questions {
		value := "fine"
		if q.Criteria == models.CriteriaCategorical {
			value = "Yes"
		} else if q.Criteria == models.CriteriaScale {
			value = "3"
		}
		_, err = runner.Answer(survey.Token, q.ID, value)
		require.NoError(t, err)
	}
	_, err = runner.Submit(survey.Token, 10)
	require.NoError(t, err)

	assert.Error(t, surveys.RecordCSAT(survey.Token, 0))
	assert.Error(t, surveys.RecordCSAT(survey.Token, 6))
	require.NoError(t, surveys.RecordCSAT(survey.Token, 4))

	var reloaded models.Survey
	require.NoError(t, db.First(&reloaded, survey.ID).Error)
	require.NotNil(t, reloaded.CSATScore)
	assert.Equal(t, 4, *reloaded.CSATScore)
}

func TestSubmitDegradedWhenStatusWriteFails(t *testing.T) {
	db := newTestDB(t)
	runner, surveys, survey := launchFlowSurvey(t, db)

	state, err := runner.Load(survey.Token)
	require.NoError(t, err)
	_, err = runner.Answer(survey.Token, state.Questions[0].ID, "Yes")
	require.NoError(t, err)
	state, err = runner.Answer(survey.Token, state.Questions[1].ID, "4")
	require.NoError(t, err)

	loaded, err := surveys.GetSurveyByToken(survey.Token)
	require.NoError(t, err)

	// Break only the status write: answers live in survey_questions,
	// the completion status in surveys.
	require.NoError(t, db.Migrator().DropTable(&models.Survey{}))

	result, err := runner.submit(loaded, 7)
	assert.ErrorIs(t, err, ErrDegradedCompletion)
	require.NotNil(t, result)
	assert.True(t, result.Degraded)
	assert.Equal(t, models.SurveyStatusInProgress, result.Status)
	assert.Equal(t, 2, result.Answered)

	// The recipient's answers survived the failed finalization.
	var questions []models.SurveyQuestion
	require.NoError(t, db.Where("survey_id = ?", survey.ID).Order("order_num ASC").Find(&questions).Error)
	require.Len(t, questions, 3)
	assert.Equal(t, "Yes", questions[0].Answer)
	assert.Equal(t, "4", questions[2].Answer)
}

func TestSubmitToleratesDurationWriteFailure(t *testing.T) {
	db := newTestDB(t)
	runner, _, survey := launchFlowSurvey(t, db)

	state, err := runner.Load(survey.Token)
	require.NoError(t, err)
	_, err = runner.Answer(survey.Token, state.Questions[0].ID, "Yes")
	require.NoError(t, err)
	_, err = runner.Answer(survey.Token, state.Questions[1].ID, "3")
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropColumn(&models.Survey{}, "duration_seconds"))

	result, err := runner.Submit(survey.Token, 42)
	require.NoError(t, err, "a failed duration write never fails the submission")
	assert.Equal(t, models.SurveyStatusCompleted, result.Status)
	assert.False(t, result.Degraded)

	var reloaded models.Survey
	require.NoError(t, db.Select("id", "status", "completed_at").First(&reloaded, survey.ID).Error)
	assert.Equal(t, models.SurveyStatusCompleted, reloaded.Status)
	assert.NotNil(t, reloaded.CompletedAt)
}

func TestListSurveysSearchAndPaging(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	templates := NewTemplateService(db)
	surveys := NewSurveyService(db)

	tpl, err := templates.CreateTemplate(admin.ID, "Plain", "")
	require.NoError(t, err)
	_, err = templates.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text: "q", Criteria: models.CriteriaOpen, OrderNum: 1,
	})
	require.NoError(t, err)

	names := []string{"Alice", "Bob", "Alicia"}
	for _, name := range names {
		_, err := surveys.LaunchSurvey(admin.ID, LaunchInput{TemplateID: tpl.ID, RecipientName: name})
		require.NoError(t, err)
	}

	all, total, err := surveys.ListSurveys(admin.ID, "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 2)

	matched, total, err := surveys.ListSurveys(admin.ID, "Alic", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, matched, 2)

	// The answered-count query failing surfaces as an error, not as a
	// listing with silently wrong counts.
	require.NoError(t, db.Migrator().DropTable(&models.SurveyQuestion{}))
	_, _, err = surveys.ListSurveys(admin.ID, "", 1, 20)
	assert.Error(t, err)
}
