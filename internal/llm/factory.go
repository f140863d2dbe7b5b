package llm

import (
	"net/http"
	"time"

	"singularshift/internal/config"
)

// Task names a completion use with its own provider and model choice
type Task string

const (
	TaskClassify Task = "classify"
	TaskReport   Task = "report"
)

// NewForTask builds the Completer configured for task. When no provider
// has a key it returns Disabled.
func NewForTask(cfg *config.AIConfig, task Task) Completer {
	preferred, geminiModel := cfg.Providers.Report, cfg.Gemini.Models.Report
	if task == TaskClassify {
		preferred, geminiModel = cfg.Providers.Classify, cfg.Gemini.Models.Classify
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond

	switch cfg.Resolve(preferred) {
	case config.ProviderGemini:
		return NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, geminiModel, cfg.Temperature,
			&http.Client{Timeout: timeout})
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model, cfg.Temperature, timeout)
	}
	return Disabled{}
}
