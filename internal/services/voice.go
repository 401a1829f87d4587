package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"
)

// VoiceService is a thin adapter over the voice provider's REST API. It
// creates one assistant per voice session, scripted from the survey's
// currently visible questions; recognized answers come back through the
// provider webhook and re-enter the normal runner path. The provider's own
// realtime protocol is its concern, not ours.
type VoiceService struct {
	httpClient    *http.Client
	apiKey        string
	apiURL        string
	webhookBase   string
	webhookSecret string
}

func NewVoiceService(apiKey, apiURL, webhookBase, webhookSecret string) *VoiceService {
	return &VoiceService{
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		apiKey:        apiKey,
		apiURL:        apiURL,
		webhookBase:   webhookBase,
		webhookSecret: webhookSecret,
	}
}

func (s *VoiceService) IsAvailable() bool {
	return s.apiKey != ""
}

type VoiceSessionConfig struct {
	AssistantID string `json:"assistant_id"`
	SurveyToken string `json:"survey_token"`
}

type assistantRequest struct {
	Name         string `json:"name"`
	FirstMessage string `json:"firstMessage"`
	Instructions string `json:"instructions"`
	ServerURL    string `json:"serverUrl"`
}

type assistantResponse struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

func (s *VoiceService) CreateSession(survey *models.Survey, visible []models.SurveyQuestion) (*VoiceSessionConfig, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("voice is not configured")
	}
	if len(visible) == 0 {
		return nil, fmt.Errorf("survey has no questions to ask")
	}

	req := assistantRequest{
		Name:         survey.Title,
		FirstMessage: fmt.Sprintf("Hi! I have %d quick questions for you.", len(visible)),
		Instructions: buildVoiceScript(survey, visible),
		ServerURL:    fmt.Sprintf("%s/webhook/voice/%s", s.webhookBase, s.webhookSecret),
	}

	result, err := s.call("/assistant", req)
	if err != nil {
		return nil, err
	}

	var resp assistantResponse
	if err := json.Unmarshal(result, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("voice provider returned no assistant id")
	}

	return &VoiceSessionConfig{AssistantID: resp.ID, SurveyToken: survey.Token}, nil
}

func (s *VoiceService) call(path string, payload interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequest("POST", s.apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("voice provider returned status %d: %s", resp.StatusCode, string(data))
	}

	return data, nil
}

func buildVoiceScript(survey *models.Survey, visible []models.SurveyQuestion) string {
	var b strings.Builder
	b.WriteString("You are conducting a survey. Ask the questions one at a time, in order. ")
	b.WriteString("For choice questions only accept one of the listed options. ")
	b.WriteString("For rating questions accept a number in the stated range. ")
	b.WriteString("Report every captured answer to the server with its question id.\n\nQuestions:\n")
	for i, q := range visible {
		fmt.Fprintf(&b, "%d. [id=%d] %s", i+1, q.ID, q.Text)
		switch q.Criteria {
		case models.CriteriaCategorical:
			fmt.Fprintf(&b, " (options: %s)", strings.Join(q.Categories, ", "))
		case models.CriteriaScale:
			fmt.Fprintf(&b, " (rate 1 to %d)", q.ScaleMax)
		}
		b.WriteString("\n")
	}
	return b.String()
}
