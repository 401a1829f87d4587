package flow

import (
	"math"
	"strings"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"
)

// HasUnanswered reports whether any visible question still has an empty or
// whitespace-only answer.
func HasUnanswered(visible []models.SurveyQuestion) bool {
	for _, q := range visible {
		if strings.TrimSpace(q.Answer) == "" {
			return true
		}
	}
	return false
}

// ProgressPercent is the 0-100 completion figure shown while traversing.
func ProgressPercent(visibleCount, currentIndex int) int {
	if visibleCount == 0 {
		return 0
	}
	return int(math.Round(float64(currentIndex+1) / float64(visibleCount) * 100))
}

// ClampIndex repositions the traversal pointer after the visible set
// changed. If the question the recipient was viewing is still visible its
// new position is returned; otherwise the pointer falls back to the last
// visible question, never out of bounds.
func ClampIndex(newVisible []models.SurveyQuestion, currentQuestionID uint) int {
	for i, q := range newVisible {
		if q.ID == currentQuestionID {
			return i
		}
	}
	if len(newVisible) == 0 {
		return 0
	}
	return len(newVisible) - 1
}

// NextIndex advances the pointer, staying put at the last question.
// Walking past the end never terminates a session; only submit does.
func NextIndex(current, visibleCount int) int {
	if current+1 >= visibleCount {
		if visibleCount == 0 {
			return 0
		}
		return visibleCount - 1
	}
	return current + 1
}

// PrevIndex steps back, staying put at the first question.
func PrevIndex(current int) int {
	if current <= 0 {
		return 0
	}
	return current - 1
}
