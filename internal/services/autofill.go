package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/models"
)

// AutofillService is the "brain" client: given the questions of a freshly
// launched survey and whatever context the admin supplied, it asks an
// OpenAI-compatible chat API to pre-answer what it can. Questions it
// answers are marked autofilled and hidden from the recipient.
type AutofillService struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
}

func NewAutofillService(apiKey, apiURL, model string) *AutofillService {
	return &AutofillService{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		apiKey:     apiKey,
		apiURL:     apiURL,
		model:      model,
	}
}

func (s *AutofillService) IsAvailable() bool {
	return s.apiKey != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type autofillAnswer struct {
	QuestionID uint   `json:"question_id"`
	Answer     string `json:"answer"`
}

type autofillResponse struct {
	Answers []autofillAnswer `json:"answers"`
}

const autofillSystemPrompt = `You pre-fill survey answers from known context. The user message contains the survey questions as JSON and any context about the recipient. Respond with ONLY valid JSON (no markdown, no code fences, no explanations) in the following format:

{
  "answers": [
    {"question_id": 1, "answer": "Yes"}
  ]
}

Rules:
- Answer ONLY questions the context genuinely supports; omit everything else
- For categorical questions the answer must be exactly one of the listed categories
- For scale questions the answer must be an integer from 1 to the question's scale_max, as a string
- For open questions write a short factual sentence
- Never invent facts that are not in the context
- Return ONLY the JSON object, nothing else`

type autofillQuestion struct {
	QuestionID uint     `json:"question_id"`
	Text       string   `json:"text"`
	Criteria   string   `json:"criteria"`
	Categories []string `json:"categories,omitempty"`
	ScaleMax   int      `json:"scale_max,omitempty"`
	Hint       string   `json:"hint,omitempty"`
}

// GenerateAnswers returns answers keyed by survey question id. Answers that
// fail the question's own validation rules are dropped rather than stored.
func (s *AutofillService) GenerateAnswers(questions []models.SurveyQuestion, context string) (map[uint]string, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("autofill is not configured")
	}

	prompt := make([]autofillQuestion, len(questions))
	for i, q := range questions {
		prompt[i] = autofillQuestion{
			QuestionID: q.ID,
			Text:       q.Text,
			Criteria:   q.Criteria,
			Categories: q.Categories,
			ScaleMax:   q.ScaleMax,
		}
	}
	promptJSON, err := json.Marshal(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}

	userContent := fmt.Sprintf("Questions:\n%s\n\nContext:\n%s", promptJSON, context)

	var content string
	err = withRetry(3, 2*time.Second, func() error {
		var callErr error
		content, callErr = s.chat(userContent)
		return callErr
	})
	if err != nil {
		return nil, err
	}

	var parsed autofillResponse
	if err := json.Unmarshal([]byte(cleanJSONContent(content)), &parsed); err != nil {
		return nil, fmt.Errorf("brain returned invalid JSON: %w", err)
	}

	answers := make(map[uint]string)
	for _, a := range parsed.Answers {
		q, ok := findQuestion(questions, a.QuestionID)
		if !ok {
			continue
		}
		if value, ok := validateAutofillAnswer(q, a.Answer); ok {
			answers[q.ID] = value
		}
	}
	return answers, nil
}

func (s *AutofillService) chat(userContent string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: autofillSystemPrompt},
			{Role: "user", Content: userContent},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.apiURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse API response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from brain")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	}
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	if strings.HasSuffix(content, "```") {
		content = strings.TrimSuffix(content, "```")
	}
	return strings.TrimSpace(content)
}

func validateAutofillAnswer(q models.SurveyQuestion, value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	switch q.Criteria {
	case models.CriteriaCategorical:
		if containsString(q.Categories, value) {
			return value, true
		}
		return "", false
	case models.CriteriaScale:
		rating, err := strconv.Atoi(value)
		if err != nil || rating < 1 || rating > q.ScaleMax {
			return "", false
		}
		return strconv.Itoa(rating), true
	case models.CriteriaOpen:
		return value, true
	}
	return "", false
}
