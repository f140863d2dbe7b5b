package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAdminEmails are used when ADMIN_EMAILS is unset
var DefaultAdminEmails = []string{
	"sean@singularshift.com",
	"connor@singularshift.com",
	"mo@singularshift.com",
}

// VoiceConfig configures the voice agent session
type VoiceConfig struct {
	AssistantID        string
	MaxDurationSeconds int
}

// SessionConfig configures interview session processing
type SessionConfig struct {
	MinSubstantiveMessages int
	// IdleTimeout drops sessions nobody has touched for this long
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

type Config struct {
	HTTPPort      string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	NatsURL       string
	NatsToken     string
	JWTSecret     string
	CookieSecure  bool
	AdminEmails   []string
	LogLevel      string
	Voice         VoiceConfig
	Session       SessionConfig
	AI            *AIConfig
}

// Load reads configuration from the environment, after loading .env if one exists
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:      getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "singularshift"),
		RedisAddr:     strings.TrimPrefix(getEnv("REDIS_URI", "localhost:6379"), "redis://"),
		NatsURL:       getEnv("NATS_URL", ""),
		NatsToken:     getEnv("NATS_TOKEN", ""),
		JWTSecret:     getEnv("JWT_SECRET", "super-secret-key-change-in-production"),
		CookieSecure:  getEnv("APP_ENV", "development") == "production",
		AdminEmails:   getEnvList("ADMIN_EMAILS", DefaultAdminEmails),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Voice: VoiceConfig{
			AssistantID:        getEnv("VAPI_ASSISTANT_ID", ""),
			MaxDurationSeconds: getEnvInt("VAPI_MAX_DURATION_SECONDS", 1800),
		},
		Session: SessionConfig{
			MinSubstantiveMessages: getEnvInt("SESSION_MIN_MESSAGES", 5),
			IdleTimeout:            time.Duration(getEnvInt("SESSION_IDLE_MINUTES", 60)) * time.Minute,
			SweepInterval:          time.Duration(getEnvInt("SESSION_SWEEP_MINUTES", 5)) * time.Minute,
		},
		AI: DefaultAIConfig(),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
