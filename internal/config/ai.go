package config

// Provider names accepted for each completion task
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Classify maps a free-text job title onto a role category (needs to be fast)
	Classify string `json:"classify"`

	// Report is for post-interview audit report generation (quality over speed)
	Report string `json:"report"`
}

// GeminiConfig holds the Gemini REST settings
type GeminiConfig struct {
	APIKey  string       `json:"-"` // Never serialize
	BaseURL string       `json:"baseUrl"`
	Models  GeminiModels `json:"models"`
}

// OpenAIConfig holds the OpenAI settings
type OpenAIConfig struct {
	APIKey  string `json:"-"` // Never serialize
	BaseURL string `json:"baseUrl,omitempty"`
	Model   string `json:"model"`
}

// Providers selects which backend serves each task
type Providers struct {
	Classify string `json:"classify"`
	Report   string `json:"report"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	Gemini      GeminiConfig `json:"gemini"`
	OpenAI      OpenAIConfig `json:"openai"`
	Providers   Providers    `json:"providers"`
	Temperature float64      `json:"temperature"`
	TimeoutMS   int          `json:"timeoutMs"`

	// StrictRoleCategories clamps classifier output to the closed category set
	StrictRoleCategories bool `json:"strictRoleCategories"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
			Models: GeminiModels{
				Classify: getEnv("GEMINI_MODEL_CLASSIFY", "gemini-2.0-flash-001"),
				Report:   getEnv("GEMINI_MODEL_REPORT", "gemini-2.0-flash-001"),
			},
		},
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Model:   getEnv("OPENAI_MODEL", "gpt-4o"),
		},
		Providers: Providers{
			Classify: getEnv("AI_PROVIDER_CLASSIFY", ProviderGemini),
			Report:   getEnv("AI_PROVIDER_REPORT", ProviderOpenAI),
		},
		Temperature:          getEnvFloat("AI_TEMPERATURE", 0.2),
		TimeoutMS:            getEnvInt("AI_TIMEOUT_MS", 60000),
		StrictRoleCategories: getEnvBool("ROLE_CATEGORY_STRICT", true),
	}
}

// IsEnabled returns true if the named provider has credentials
func (c *AIConfig) IsEnabled(provider string) bool {
	switch provider {
	case ProviderGemini:
		return c.Gemini.APIKey != ""
	case ProviderOpenAI:
		return c.OpenAI.APIKey != ""
	}
	return false
}

// Resolve returns the provider to use for a task: the preferred one when configured,
// otherwise whichever other provider has a key, otherwise "".
func (c *AIConfig) Resolve(preferred string) string {
	if c.IsEnabled(preferred) {
		return preferred
	}
	for _, p := range []string{ProviderOpenAI, ProviderGemini} {
		if c.IsEnabled(p) {
			return p
		}
	}
	return ""
}
