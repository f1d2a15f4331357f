package llm

import "context"

// Option allows optional generation parameters.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any text-generation backend.
// Implementations are constructed explicitly and injected.
type LLMProvider interface {
	// Generate sends a single prompt to the model and returns the raw text.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
