package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "MONGO_DATABASE", "REDIS_URI", "ADMIN_EMAILS", "SESSION_MIN_MESSAGES", "SESSION_IDLE_MINUTES", "SESSION_SWEEP_MINUTES", "ROLE_CATEGORY_STRICT", "APP_ENV"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "singularshift", cfg.MongoDatabase)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, DefaultAdminEmails, cfg.AdminEmails)
	assert.Equal(t, 5, cfg.Session.MinSubstantiveMessages)
	assert.Equal(t, time.Hour, cfg.Session.IdleTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Session.SweepInterval)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.AI.StrictRoleCategories)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("REDIS_URI", "redis://cache:6380")
	t.Setenv("ADMIN_EMAILS", " a@x.com, ,b@x.com ")
	t.Setenv("SESSION_MIN_MESSAGES", "7")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ROLE_CATEGORY_STRICT", "false")
	t.Setenv("AI_TEMPERATURE", "0.5")

	cfg := Load()
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, cfg.AdminEmails)
	assert.Equal(t, 7, cfg.Session.MinSubstantiveMessages)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.AI.StrictRoleCategories)
	assert.Equal(t, 0.5, cfg.AI.Temperature)
}

func TestAIConfig_Resolve(t *testing.T) {
	c := &AIConfig{}
	assert.Equal(t, "", c.Resolve(ProviderGemini))

	c.OpenAI.APIKey = "sk"
	assert.Equal(t, ProviderOpenAI, c.Resolve(ProviderGemini))

	c.Gemini.APIKey = "g"
	assert.Equal(t, ProviderGemini, c.Resolve(ProviderGemini))
	assert.Equal(t, ProviderOpenAI, c.Resolve(ProviderOpenAI))
}
