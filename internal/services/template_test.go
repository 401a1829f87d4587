package services

import (
	"testing"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func options(texts ...string) []OptionInput {
	out := make([]OptionInput, len(texts))
	for i, text := range texts {
		out[i] = OptionInput{Text: text, OrderNum: i}
	}
	return out
}

func TestCreateQuestionCategorical(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	svc := NewTemplateService(db)

	tpl, err := svc.CreateTemplate(admin.ID, "Onboarding", "")
	require.NoError(t, err)

	q, err := svc.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text:     "Did you use our product before?",
		Criteria: models.CriteriaCategorical,
		Options:  options("Yes", "No"),
		OrderNum: 1,
	})
	require.NoError(t, err)
	require.Len(t, q.Options, 2)
	assert.Equal(t, "Yes", q.Options[0].Text)
}

func TestCreateQuestionValidation(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	svc := NewTemplateService(db)

	tpl, err := svc.CreateTemplate(admin.ID, "Rules", "")
	require.NoError(t, err)

	cases := []struct {
		name  string
		input QuestionInput
	}{
		{"too few options", QuestionInput{
			Text: "q", Criteria: models.CriteriaCategorical, Options: options("Only"),
		}},
		{"too many options", QuestionInput{
			Text: "q", Criteria: models.CriteriaCategorical,
			Options: options("1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11"),
		}},
		{"scale bound too small", QuestionInput{
			Text: "q", Criteria: models.CriteriaScale, ScaleMax: 1,
		}},
		{"scale bound too large", QuestionInput{
			Text: "q", Criteria: models.CriteriaScale, ScaleMax: 11,
		}},
		{"scale with options", QuestionInput{
			Text: "q", Criteria: models.CriteriaScale, ScaleMax: 5, Options: options("a", "b"),
		}},
		{"unknown criteria", QuestionInput{
			Text: "q", Criteria: "multiple_choice", Options: options("a", "b"),
		}},
		{"missing text", QuestionInput{
			Criteria: models.CriteriaOpen,
		}},
		{"orphan parent categories", QuestionInput{
			Text: "q", Criteria: models.CriteriaOpen, ParentCategoryTexts: []string{"Yes"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateQuestion(tpl.ID, admin.ID, tc.input)
			assert.Error(t, err)
		})
	}
}

func TestCreateConditionalQuestion(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	svc := NewTemplateService(db)

	tpl, err := svc.CreateTemplate(admin.ID, "Flow", "")
	require.NoError(t, err)

	parent, err := svc.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text:     "Happy with the service?",
		Criteria: models.CriteriaCategorical,
		Options:  options("Yes", "No"),
		OrderNum: 1,
	})
	require.NoError(t, err)

	// Parent category must be drawn from the parent's options.
	_, err = svc.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text:                "What went wrong?",
		Criteria:            models.CriteriaOpen,
		ParentID:            &parent.ID,
		ParentCategoryTexts: []string{"Maybe"},
		OrderNum:            2,
	})
	assert.Error(t, err)

	childInput := QuestionInput{
		Text:                "What went wrong?",
		Criteria:            models.CriteriaOpen,
		ParentID:            &parent.ID,
		ParentCategoryTexts: []string{"No"},
		OrderNum:            2,
	}
	child, err := svc.CreateQuestion(tpl.ID, admin.ID, childInput)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)

	// A parent with conditional follow-ups cannot be deleted.
	err = svc.DeleteQuestion(parent.ID, admin.ID)
	assert.Error(t, err)

	require.NoError(t, svc.DeleteQuestion(child.ID, admin.ID))
	require.NoError(t, svc.DeleteQuestion(parent.ID, admin.ID))
}

func TestConditionalParentMustBeCategorical(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	svc := NewTemplateService(db)

	tpl, err := svc.CreateTemplate(admin.ID, "Flow", "")
	require.NoError(t, err)

	parent, err := svc.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text:     "Rate us",
		Criteria: models.CriteriaScale,
		ScaleMax: 5,
		OrderNum: 1,
	})
	require.NoError(t, err)

	_, err = svc.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text:                "Why?",
		Criteria:            models.CriteriaOpen,
		ParentID:            &parent.ID,
		ParentCategoryTexts: []string{"1"},
		OrderNum:            2,
	})
	assert.Error(t, err)
}

func TestTemplateOwnership(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	other := models.Admin{Username: "other", PasswordHash: "x"}
	require.NoError(t, db.Create(&other).Error)

	svc := NewTemplateService(db)
	tpl, err := svc.CreateTemplate(admin.ID, "Mine", "")
	require.NoError(t, err)

	_, err = svc.GetTemplateByID(tpl.ID, other.ID)
	assert.Error(t, err)

	_, err = svc.CreateQuestion(tpl.ID, other.ID, QuestionInput{
		Text: "q", Criteria: models.CriteriaOpen,
	})
	assert.Error(t, err)
}

func TestReorderTemplate(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	svc := NewTemplateService(db)

	tpl, err := svc.CreateTemplate(admin.ID, "Order", "")
	require.NoError(t, err)

	first, err := svc.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text: "first", Criteria: models.CriteriaOpen, OrderNum: 1,
	})
	require.NoError(t, err)
	second, err := svc.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text: "second", Criteria: models.CriteriaOpen, OrderNum: 2,
	})
	require.NoError(t, err)

	err = svc.ReorderTemplate(tpl.ID, admin.ID, ReorderInput{
		Questions: []QuestionOrder{
			{ID: first.ID, OrderNum: 2},
			{ID: second.ID, OrderNum: 1},
		},
	})
	require.NoError(t, err)

	reloaded, err := svc.GetTemplateByID(tpl.ID, admin.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Questions, 2)
	assert.Equal(t, "second", reloaded.Questions[0].Text)
}

func TestReorderTemplateSurfacesWriteErrors(t *testing.T) {
	db := newTestDB(t)
	admin := seedAdmin(t, db)
	svc := NewTemplateService(db)

	tpl, err := svc.CreateTemplate(admin.ID, "Order", "")
	require.NoError(t, err)
	q, err := svc.CreateQuestion(tpl.ID, admin.ID, QuestionInput{
		Text: "only", Criteria: models.CriteriaOpen, OrderNum: 1,
	})
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&models.TemplateQuestion{}))

	err = svc.ReorderTemplate(tpl.ID, admin.ID, ReorderInput{
		Questions: []QuestionOrder{{ID: q.ID, OrderNum: 5}},
	})
	assert.Error(t, err)
}
