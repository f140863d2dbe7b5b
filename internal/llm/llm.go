package llm

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a Completer with no credentials behind it
var ErrNotConfigured = errors.New("llm: provider not configured")

// Completer sends one prompt to a model and returns the raw text reply.
// Implementations never retry.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts ...Option) (string, error)

	// Provider names the backend, e.g. "gemini"
	Provider() string
}

// Schema asks the provider for structured JSON output
type Schema struct {
	Name        string
	Description string
	Definition  map[string]interface{}
}

// Settings collects per-call options
type Settings struct {
	model       string
	temperature *float64
	maxTokens   int
	system      string
	schema      *Schema
}

type Option func(*Settings)

// WithModel overrides the client's default model
func WithModel(model string) Option {
	return func(s *Settings) { s.model = model }
}

func WithTemperature(temp float64) Option {
	return func(s *Settings) { s.temperature = &temp }
}

func WithMaxTokens(tokens int) Option {
	return func(s *Settings) { s.maxTokens = tokens }
}

func WithSystemPrompt(prompt string) Option {
	return func(s *Settings) { s.system = prompt }
}

// WithJSONSchema requests a JSON object matching schema
func WithJSONSchema(schema Schema) Option {
	return func(s *Settings) { s.schema = &schema }
}

func buildSettings(defaultModel string, defaultTemp float64, opts []Option) Settings {
	s := Settings{model: defaultModel, temperature: &defaultTemp}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Disabled is the Completer used when no provider has a key
type Disabled struct{}

func (Disabled) Complete(context.Context, string, ...Option) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Provider() string { return "none" }
