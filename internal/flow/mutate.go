package flow

import (
	"strconv"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"
)

// The mutators return a fresh slice with exactly one question changed.
// They never touch RawAnswer; the runner records RawAnswer separately for
// genuine user input so that autofill-seeded answers do not count as
// "answered by the user".

func ApplyCategorySelect(qs []models.SurveyQuestion, id uint, optionText string) []models.SurveyQuestion {
	return withAnswer(qs, id, optionText)
}

func ApplyRatingSelect(qs []models.SurveyQuestion, id uint, value int) []models.SurveyQuestion {
	return withAnswer(qs, id, strconv.Itoa(value))
}

func ApplyTextChange(qs []models.SurveyQuestion, id uint, text string) []models.SurveyQuestion {
	return withAnswer(qs, id, text)
}

// ApplyRawAnswer records what the recipient literally entered this session.
func ApplyRawAnswer(qs []models.SurveyQuestion, id uint, value string) []models.SurveyQuestion {
	out := make([]models.SurveyQuestion, len(qs))
	for i, q := range qs {
		if q.ID == id {
			q.RawAnswer = value
		}
		out[i] = q
	}
	return out
}

func withAnswer(qs []models.SurveyQuestion, id uint, value string) []models.SurveyQuestion {
	out := make([]models.SurveyQuestion, len(qs))
	for i, q := range qs {
		if q.ID == id {
			q.Answer = value
		}
		out[i] = q
	}
	return out
}
