package app

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/charlesng35/askai/internal/completion"
)

// ConfigError reports a configuration value that prevents start-up.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Key, e.Reason)
}

// ErrMissingAPIKey is returned by Validate when the completion provider needs a
// credential and none was supplied.
var ErrMissingAPIKey = &ConfigError{
	Key:    "completion.api_key",
	Reason: "must be set (GEMINI_API_KEY or ASKAI_COMPLETION_API_KEY)",
}

// Validate checks the values the process cannot start without.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	var errs error

	if completion.RequiresAPIKey(c.Completion.Provider) && strings.TrimSpace(c.Completion.APIKey) == "" {
		errs = multierr.Append(errs, ErrMissingAPIKey)
	}

	switch strings.ToLower(strings.TrimSpace(c.Completion.Provider)) {
	case "", completion.ProviderGemini, completion.ProviderOllama:
	default:
		errs = multierr.Append(errs, &ConfigError{
			Key:    "completion.provider",
			Reason: fmt.Sprintf("%q is not supported", c.Completion.Provider),
		})
	}

	if c.Completion.Timeout < 0 {
		errs = multierr.Append(errs, &ConfigError{Key: "completion.timeout", Reason: "must not be negative"})
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = multierr.Append(errs, &ConfigError{
			Key:    "server.port",
			Reason: fmt.Sprintf("%d is out of range", c.Server.Port),
		})
	}

	return errs
}
