package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"staffing/internal/domain/intent"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"

	maxResponseBytes = 1 << 20
)

// GeminiClient implements intent.Parser over the generateContent endpoint.
// A failed call is reported once; there is no retry.
type GeminiClient struct {
	apiKey       string
	model        string
	baseURL      string
	designations []string
	client       *http.Client
}

type Options struct {
	APIKey       string
	Model        string
	BaseURL      string
	Timeout      time.Duration
	Designations []string
	HTTPClient   *http.Client
}

func NewGeminiClient(opts Options) *GeminiClient {
	c := &GeminiClient{
		apiKey:       opts.APIKey,
		model:        opts.Model,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		designations: append([]string(nil), opts.Designations...),
		client:       opts.HTTPClient,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.client = &http.Client{Timeout: timeout}
	}
	return c
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		ResponseMIMEType string  `json:"responseMimeType"`
		Temperature      float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *GeminiClient) Parse(ctx context.Context, text string) (intent.Parsed, error) {
	if c.apiKey == "" {
		return intent.Parsed{}, &intent.ParseError{Reason: "GEMINI_API_KEY not set"}
	}

	var req geminiRequest
	req.Contents = []geminiContent{{Role: "user", Parts: []geminiPart{{Text: intent.Prompt(text, c.designations)}}}}
	req.GenerationConfig.ResponseMIMEType = "application/json"

	body, err := json.Marshal(req)
	if err != nil {
		return intent.Parsed{}, &intent.ParseError{Reason: "marshal request", Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return intent.Parsed{}, &intent.ParseError{Reason: "create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return intent.Parsed{}, &intent.ParseError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return intent.Parsed{}, &intent.ParseError{Reason: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr geminiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return intent.Parsed{}, &intent.ParseError{Reason: fmt.Sprintf("Gemini API error (%d): %s", resp.StatusCode, apiErr.Error.Message)}
		}
		return intent.Parsed{}, &intent.ParseError{Reason: fmt.Sprintf("Gemini API error (%d)", resp.StatusCode)}
	}

	var decoded geminiResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return intent.Parsed{}, &intent.ParseError{Reason: "decode response", Err: err}
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return intent.Parsed{}, &intent.ParseError{Reason: "empty model response"}
	}

	var sb strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return DecodeParsed(sb.String())
}

// DecodeParsed reads the model's JSON answer, tolerating a markdown code fence.
func DecodeParsed(raw string) (intent.Parsed, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed intent.Parsed
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return intent.Parsed{}, &intent.ParseError{Reason: "model output is not JSON", Err: err}
	}
	parsed.Intent = strings.TrimSpace(parsed.Intent)
	if parsed.Intent == "" {
		return intent.Parsed{}, &intent.ParseError{Reason: "model output has no intent"}
	}
	if parsed.Entities == nil {
		parsed.Entities = map[string]any{}
	}
	return parsed, nil
}
