// Package completion forwards prompts to a hosted or local generative-text model.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"

	DefaultGeminiModel   = "gemini-2.5-flash-lite"
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	DefaultOllamaModel   = "llama3.2"
	DefaultOllamaHost    = "http://127.0.0.1:11434"
)

// ErrMissingAPIKey is returned when a provider that needs a credential has none.
var ErrMissingAPIKey = errors.New("completion: api key is required")

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelOf returns the model g resolved to, or "" when g does not report one.
func ModelOf(g Generator) string {
	if m, ok := g.(interface{ Model() string }); ok {
		return m.Model()
	}
	return ""
}

// Config selects and configures a provider.
type Config struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Timeout    time.Duration // zero means no timeout
	OllamaHost string
	HTTPClient *http.Client
}

// New builds the Generator for cfg.Provider, wrapped with latency metrics.
func New(cfg Config) (Generator, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		provider = ProviderGemini
	}
	model := strings.TrimSpace(cfg.Model)

	switch provider {
	case ProviderGemini:
		if model == "" {
			model = DefaultGeminiModel
		}
		opts := []GeminiOption{WithBaseURL(cfg.BaseURL), WithTimeout(cfg.Timeout)}
		if cfg.HTTPClient != nil {
			opts = append(opts, WithHTTPClient(cfg.HTTPClient))
		}
		client, err := NewGeminiClient(cfg.APIKey, model, opts...)
		if err != nil {
			return nil, err
		}
		return Instrument(client, provider), nil
	case ProviderOllama:
		if model == "" {
			model = DefaultOllamaModel
		}
		opts := []OllamaOption{WithOllamaTimeout(cfg.Timeout)}
		if cfg.HTTPClient != nil {
			opts = append(opts, WithOllamaHTTPClient(cfg.HTTPClient))
		}
		client, err := NewOllamaClient(cfg.OllamaHost, model, opts...)
		if err != nil {
			return nil, err
		}
		return Instrument(client, provider), nil
	default:
		return nil, fmt.Errorf("completion: unsupported provider %q", cfg.Provider)
	}
}

// RequiresAPIKey reports whether the provider needs a credential to start.
func RequiresAPIKey(provider string) bool {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderGemini:
		return true
	default:
		return false
	}
}
