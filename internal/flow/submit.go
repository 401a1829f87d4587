package flow

import "github.com/waseem-akram-senarios/surveybot-sub001/internal/models"

// BuildSubmissionPayload reconciles the recipient-edited working set with
// the full question snapshot as fetched at load. The payload always has one
// entry per original question: where the working set carries the question,
// its Answer/RawAnswer win; questions excluded client-side (hidden by
// conditionals, or autofilled and already answered) keep the original
// record's fields verbatim. Hidden-child answers are intentionally
// preserved, not cleared, so toggling a parent back restores them.
func BuildSubmissionPayload(originalAll, workingAll []models.SurveyQuestion) []models.SurveyQuestion {
	out := make([]models.SurveyQuestion, len(originalAll))
	for i, orig := range originalAll {
		entry := orig
		if w, ok := findByID(workingAll, orig.ID); ok {
			entry.Answer = w.Answer
			entry.RawAnswer = w.RawAnswer
		}
		out[i] = entry
	}
	return out
}

// ShouldAutoSubmit reports whether the session can complete without any
// recipient action: nothing is visible at all, or everything visible was
// already answered (typically by autofill). A session in this state must
// submit immediately instead of waiting on input that will never come.
func ShouldAutoSubmit(visible []models.SurveyQuestion) bool {
	return len(visible) == 0 || !HasUnanswered(visible)
}
