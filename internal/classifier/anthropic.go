package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const anthropicAPI = "https://api.anthropic.com/v1/messages"

// Anthropic classifies text via the Anthropic Messages API
type Anthropic struct {
	apiKey   string
	model    string
	endpoint string
	labels   []string
	client   *http.Client
}

// AnthropicOptions configures the Anthropic backend
type AnthropicOptions struct {
	APIKey string
	Model  string
	// Labels restricts the answer to a known label set; empty lets the model choose
	Labels  []string
	Timeout time.Duration
	// Endpoint overrides the API URL
	Endpoint string
}

// NewAnthropic creates a new Anthropic classifier
func NewAnthropic(opts AnthropicOptions) (*Anthropic, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("anthropic model not set")
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = anthropicAPI
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Anthropic{
		apiKey:   opts.APIKey,
		model:    opts.Model,
		endpoint: endpoint,
		labels:   opts.Labels,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

// AnthropicLoader returns a Loader for the Anthropic backend
func AnthropicLoader(opts AnthropicOptions) Loader {
	return func(context.Context) (Model, error) {
		a, err := NewAnthropic(opts)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

// Predict asks the model for the dominant emotion of text
func (a *Anthropic) Predict(ctx context.Context, text string) (Prediction, error) {
	prompt := buildPrompt(text, a.labels)

	resp, err := a.callAPI(ctx, prompt)
	if err != nil {
		return Prediction{}, fmt.Errorf("api call: %w", err)
	}

	return parseResponse(resp)
}

func buildPrompt(text string, labels []string) string {
	var sb strings.Builder

	sb.WriteString("Identify the dominant emotion in this journal entry. Return JSON only.\n\n")
	sb.WriteString("Entry:\n")
	sb.WriteString(text)
	sb.WriteString("\n\n")

	if len(labels) > 0 {
		sb.WriteString("Answer with exactly one of these labels:\n")
		for _, label := range labels {
			sb.WriteString("- ")
			sb.WriteString(label)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`Return a JSON object with this structure:
{"label": "emotion-label", "confidence": 0.8}

Rules:
- Use a single lowercase label
- Confidence is 0.0-1.0 based on how clearly the emotion is expressed

Return ONLY the JSON, no other text.`)

	return sb.String()
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (a *Anthropic) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: 256,
		Messages: []apiMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error: %s", apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return apiResp.Content[0].Text, nil
}

type labelPayload struct {
	Label      string  `json:"label" jsonschema:"required"`
	Confidence float64 `json:"confidence" jsonschema:"required"`
}

func parseResponse(resp string) (Prediction, error) {
	// Clean up response - remove markdown code blocks if present
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	resp = strings.TrimSpace(resp)

	var payload labelPayload
	if err := json.Unmarshal([]byte(resp), &payload); err != nil {
		return Prediction{}, fmt.Errorf("parse json: %w (response: %s)", err, resp)
	}

	label := strings.ToLower(strings.TrimSpace(payload.Label))
	if label == "" {
		return Prediction{}, fmt.Errorf("response has no label: %s", resp)
	}

	return Prediction{Label: label, Confidence: payload.Confidence}, nil
}
