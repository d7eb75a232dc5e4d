package completion

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JexSrs/go-ollama"
)

// OllamaClient generates text with a model served by a local Ollama host. It needs no
// credential.
//
// The library decodes each body Read on its own, so a response object split across
// reads is lost and surfaces as "generation did not complete". Non-streaming replies
// from a local host arrive in one read in practice.
type OllamaClient struct {
	client     *ollama.Ollama
	httpClient *http.Client
	timeout    time.Duration
	host       string
	model      string
}

// OllamaOption customises an OllamaClient.
type OllamaOption func(*OllamaClient)

// WithOllamaHTTPClient injects the transport used for requests.
func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(o *OllamaClient) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithOllamaTimeout bounds each call. Zero keeps calls unbounded.
func WithOllamaTimeout(timeout time.Duration) OllamaOption {
	return func(o *OllamaClient) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// NewOllamaClient creates a client for host (e.g. http://127.0.0.1:11434).
func NewOllamaClient(host, model string, opts ...OllamaOption) (*OllamaClient, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		host = DefaultOllamaHost
	}
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultOllamaModel
	}

	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("completion: invalid ollama host %q: %w", host, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("completion: invalid ollama host %q: scheme and host are required", host)
	}

	o := &OllamaClient{
		client: ollama.New(*parsed),
		host:   parsed.String(),
		model:  model,
	}
	for _, opt := range opts {
		opt(o)
	}

	// The library builds requests without a context, so the deadline lives on the
	// http.Client. The injected client is copied to leave the caller's untouched.
	httpClient := &http.Client{}
	if o.httpClient != nil {
		copied := *o.httpClient
		httpClient = &copied
	}
	if o.timeout > 0 {
		httpClient.Timeout = o.timeout
	}
	o.client.Http = httpClient

	return o, nil
}

// Model returns the configured model name.
func (o *OllamaClient) Model() string {
	return o.model
}

type ollamaResult struct {
	res *ollama.GenerateResponse
	err error
}

// Generate runs a single non-streaming generation. A cancelled ctx returns at once;
// the underlying request then ends at the client timeout or when the host replies.
func (o *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return "", &APIError{Provider: ProviderOllama, Message: "generate", Err: err}
	}

	done := make(chan ollamaResult, 1)
	go func() {
		res, err := o.client.Generate(
			o.client.Generate.WithModel(o.model),
			o.client.Generate.WithPrompt(prompt),
		)
		done <- ollamaResult{res: res, err: err}
	}()

	var out ollamaResult
	select {
	case <-ctx.Done():
		return "", &APIError{Provider: ProviderOllama, Message: "generate", Err: ctx.Err()}
	case out = <-done:
	}

	if out.err != nil {
		return "", &APIError{Provider: ProviderOllama, Message: "generate", Err: out.err}
	}
	if out.res == nil || !out.res.Done {
		return "", &APIError{Provider: ProviderOllama, Message: "generation did not complete"}
	}
	if out.res.Response == "" {
		return "", &APIError{Provider: ProviderOllama, Message: "empty response"}
	}

	return out.res.Response, nil
}

var _ Generator = (*OllamaClient)(nil)
