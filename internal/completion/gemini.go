package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const maxErrorBody = 512

// GeminiClient calls the Gemini generateContent REST endpoint. The prompt is sent
// verbatim with no generation parameters, so the model's defaults apply.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// GeminiOption customises a GeminiClient.
type GeminiOption func(*GeminiClient)

// WithBaseURL overrides the API host, primarily for testing.
func WithBaseURL(base string) GeminiOption {
	return func(c *GeminiClient) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient injects the transport used for requests.
func WithHTTPClient(client *http.Client) GeminiOption {
	return func(c *GeminiClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout bounds each call. Zero keeps calls unbounded.
func WithTimeout(timeout time.Duration) GeminiOption {
	return func(c *GeminiClient) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewGeminiClient creates a client for the given model.
func NewGeminiClient(apiKey, model string, opts ...GeminiOption) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultGeminiModel
	}

	client := &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: DefaultGeminiBaseURL,
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Model returns the configured model name.
func (g *GeminiClient) Model() string {
	return g.model
}

// Generate sends prompt to the model and returns the text of the first candidate.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: prompt}},
		}},
	})
	if err != nil {
		return "", g.fail(0, "marshal request", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", g.fail(0, "create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", g.fail(0, "send request", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", g.fail(0, "read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", g.fail(resp.StatusCode, upstreamMessage(payload), nil)
	}

	return g.parseResponse(payload)
}

func (g *GeminiClient) parseResponse(payload []byte) (string, error) {
	var resp geminiResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", g.fail(0, "parse response", err)
	}

	if len(resp.Candidates) == 0 {
		if reason := resp.PromptFeedback.BlockReason; reason != "" {
			return "", g.fail(0, "prompt blocked: "+reason, nil)
		}
		return "", g.fail(0, "empty response: no candidates", nil)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Thought {
			continue
		}
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		if reason := resp.Candidates[0].FinishReason; reason != "" {
			return "", g.fail(0, "empty response: finish reason "+reason, nil)
		}
		return "", g.fail(0, "empty response: no text parts", nil)
	}

	return text.String(), nil
}

func (g *GeminiClient) fail(status int, message string, err error) *APIError {
	return &APIError{Provider: ProviderGemini, StatusCode: status, Message: message, Err: err}
}

// upstreamMessage extracts error.message from a Google API error envelope, falling
// back to the trimmed raw body.
func upstreamMessage(payload []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.Error.Message != "" {
		if envelope.Error.Status != "" {
			return envelope.Error.Status + ": " + envelope.Error.Message
		}
		return envelope.Error.Message
	}

	msg := strings.TrimSpace(string(payload))
	if len(msg) > maxErrorBody {
		cut := maxErrorBody
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut]
	}
	if msg == "" {
		msg = "no response body"
	}
	return msg
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text    string `json:"text,omitempty"`
	Thought bool   `json:"thought,omitempty"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

var _ Generator = (*GeminiClient)(nil)
