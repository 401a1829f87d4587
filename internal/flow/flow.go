// Package flow implements the conditional question flow used by the
// recipient-facing survey runner: which questions are visible given the
// answers so far, how answers are applied, how traversal progress is
// computed, and how the final submission payload is assembled.
//
// Every function is pure: inputs are never mutated and there are no
// failure modes. Malformed data (a dangling parent reference, an unknown
// criteria) degrades to "not visible" rather than erroring.
package flow

import (
	"sort"
	"strings"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"
)

// Normalize returns a copy of raw with Answer and RawAnswer defaulted to
// the empty string. The input slice is left untouched.
func Normalize(raw []models.SurveyQuestion) []models.SurveyQuestion {
	out := make([]models.SurveyQuestion, len(raw))
	copy(out, raw)
	return out
}

// RespondentQuestions filters out questions already satisfied by autofill.
// An autofilled question with a non-empty answer is never shown to the
// recipient; it re-enters the submission via BuildSubmissionPayload.
func RespondentQuestions(all []models.SurveyQuestion) []models.SurveyQuestion {
	out := make([]models.SurveyQuestion, 0, len(all))
	for _, q := range all {
		if q.Autofill == models.AutofillYes && strings.TrimSpace(q.Answer) != "" {
			continue
		}
		out = append(out, q)
	}
	return out
}

// Visible computes the subset of questions that should currently be shown,
// sorted ascending by order number.
//
// A question with no parent is always visible. A conditional question is
// visible only when its parent exists in the same set, has a non-empty
// answer, and that answer (trimmed) is one of the child's required parent
// categories. A hidden parent necessarily has an empty answer, so its
// children stay hidden transitively.
func Visible(all []models.SurveyQuestion) []models.SurveyQuestion {
	visible := make([]models.SurveyQuestion, 0, len(all))
	for _, q := range all {
		if q.ParentID == nil {
			visible = append(visible, q)
			continue
		}
		parent, ok := findByID(all, *q.ParentID)
		if !ok {
			continue
		}
		answer := strings.TrimSpace(parent.Answer)
		if answer == "" {
			continue
		}
		if containsText(q.ParentCategoryTexts, answer) {
			visible = append(visible, q)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].OrderNum < visible[j].OrderNum
	})
	return visible
}

func findByID(qs []models.SurveyQuestion, id uint) (models.SurveyQuestion, bool) {
	for _, q := range qs {
		if q.ID == id {
			return q, true
		}
	}
	return models.SurveyQuestion{}, false
}

func containsText(texts []string, value string) bool {
	for _, t := range texts {
		if t == value {
			return true
		}
	}
	return false
}
