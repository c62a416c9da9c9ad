package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        string
	Environment string
	CORSOrigins string

	// Database
	DatabaseURL string
	TablePrefix string

	// Sessions
	SessionSecret string
	SessionTTL    time.Duration
	SessionLimit  int

	// Content
	ArticlesDir  string
	TemplatePath string
	TonesPath    string

	// Generation
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	AnthropicAPIKey   string
	GeneratorModel    string
	JudgeModel        string
	GenerationTimeout time.Duration

	// Simulate provider timing; mirrors the real endpoint's latency band.
	SimulateMinDelay time.Duration
	SimulateMaxDelay time.Duration
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    getDuration("SESSION_TTL", 24*time.Hour),
		SessionLimit:  getInt("SESSION_LIMIT", 1024),

		ArticlesDir:  getEnv("ARTICLES_DIR", "content/articles"),
		TemplatePath: getEnv("TEMPLATE_PATH", "content/templates/blog.md"),
		TonesPath:    getEnv("TONES_PATH", "content/tones.yaml"),

		OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		GeneratorModel:    getEnv("GENERATOR_MODEL", "simulate-standard"),
		JudgeModel:        getEnv("JUDGE_MODEL", ""),
		GenerationTimeout: getDuration("GENERATION_TIMEOUT", 60*time.Second),

		SimulateMinDelay: getDuration("SIMULATE_MIN_DELAY", 20*time.Second),
		SimulateMaxDelay: getDuration("SIMULATE_MAX_DELAY", 40*time.Second),
	}
}

// getTablePrefix returns the table prefix based on environment.
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
