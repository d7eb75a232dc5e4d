package completion

import (
	"context"
	"time"

	"github.com/charlesng35/askai/pkg/metrics"
)

type instrumented struct {
	next     Generator
	provider string
}

// Instrument records call latency and outcome for every Generate on next.
func Instrument(next Generator, provider string) Generator {
	return &instrumented{next: next, provider: provider}
}

func (i *instrumented) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := i.next.Generate(ctx, prompt)

	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.CompletionLatency.WithLabelValues(i.provider, result).Observe(time.Since(start).Seconds())

	return text, err
}

// Model reports the wrapped client's model.
func (i *instrumented) Model() string {
	return ModelOf(i.next)
}
