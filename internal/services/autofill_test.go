package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brainQuestions() []models.SurveyQuestion {
	return []models.SurveyQuestion{
		{ID: 1, Text: "Department?", Criteria: models.CriteriaCategorical, Categories: []string{"Sales", "Support"}},
		{ID: 2, Text: "Team size?", Criteria: models.CriteriaScale, ScaleMax: 10},
		{ID: 3, Text: "Anything else?", Criteria: models.CriteriaOpen},
	}
}

func chatServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)

		body, err := json.Marshal(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		})
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
}

func TestGenerateAnswersValidatesEachAnswer(t *testing.T) {
	content := `{"answers":[
		{"question_id":1,"answer":"Sales"},
		{"question_id":2,"answer":"11"},
		{"question_id":3,"answer":"Long-time customer."},
		{"question_id":99,"answer":"Sales"}
	]}`
	srv := chatServer(t, content)
	defer srv.Close()

	brain := NewAutofillService("test-key", srv.URL, "gpt-4o-mini")
	answers, err := brain.GenerateAnswers(brainQuestions(), "works in sales")
	require.NoError(t, err)

	assert.Equal(t, "Sales", answers[1])
	assert.NotContains(t, answers, uint(2), "rating above scale_max is dropped")
	assert.Equal(t, "Long-time customer.", answers[3])
	assert.NotContains(t, answers, uint(99), "unknown question ids are ignored")
}

func TestGenerateAnswersStripsCodeFences(t *testing.T) {
	content := "```json\n{\"answers\":[{\"question_id\":2,\"answer\":\"7\"}]}\n```"
	srv := chatServer(t, content)
	defer srv.Close()

	brain := NewAutofillService("test-key", srv.URL, "gpt-4o-mini")
	answers, err := brain.GenerateAnswers(brainQuestions(), "")
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{2: "7"}, answers)
}

func TestGenerateAnswersUnconfigured(t *testing.T) {
	brain := NewAutofillService("", "http://127.0.0.1:0", "gpt-4o-mini")
	assert.False(t, brain.IsAvailable())
	_, err := brain.GenerateAnswers(brainQuestions(), "")
	assert.Error(t, err)
}

func TestValidateAutofillAnswer(t *testing.T) {
	categorical := models.SurveyQuestion{Criteria: models.CriteriaCategorical, Categories: []string{"Yes", "No"}}
	scale := models.SurveyQuestion{Criteria: models.CriteriaScale, ScaleMax: 5}
	open := models.SurveyQuestion{Criteria: models.CriteriaOpen}

	tests := []struct {
		name     string
		question models.SurveyQuestion
		value    string
		want     string
		ok       bool
	}{
		{"categorical match", categorical, "Yes", "Yes", true},
		{"categorical miss", categorical, "Maybe", "", false},
		{"scale in range", scale, " 3 ", "3", true},
		{"scale out of range", scale, "6", "", false},
		{"scale not a number", scale, "three", "", false},
		{"open trimmed", open, "  fine  ", "fine", true},
		{"empty dropped", open, "   ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := validateAutofillAnswer(tt.question, tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
