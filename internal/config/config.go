package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Supabase
	SupabaseURL            string `yaml:"supabase_url"`
	SupabasePublishableKey string `yaml:"supabase_publishable_key"`
	SupabaseServiceRoleKey string `yaml:"supabase_service_role_key"`
	SupabaseJWTSecret      string `yaml:"supabase_jwt_secret"`
	SupabaseStorageBucket  string `yaml:"supabase_storage_bucket"`

	// Database
	DatabaseURL string `yaml:"database_url"`

	// Wizard drafts
	RedisURL string        `yaml:"redis_url"`
	DraftTTL time.Duration `yaml:"draft_ttl"`

	// Click telemetry fan-out; empty disables it
	RabbitMQURL   string        `yaml:"rabbitmq_url"`
	ClickExchange string        `yaml:"click_exchange"`
	ClickTimeout  time.Duration `yaml:"click_timeout"`

	// Embeddings
	OllamaBaseURL    string        `yaml:"ollama_base_url"`
	OllamaEmbedModel string        `yaml:"ollama_embed_model"`
	OllamaTimeout    time.Duration `yaml:"ollama_timeout"`

	// Profile rendering
	ProducerGate string `yaml:"producer_gate"`
	LoginURL     string `yaml:"login_url"`

	// Server
	Port           string   `yaml:"port"`
	Environment    string   `yaml:"environment"`
	BaseURL        string   `yaml:"base_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load reads .env (if present), then the environment, then the YAML file
// named by CINEGROK_CONFIG on top.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(os.Getenv("CINEGROK_CONFIG"))
}

// LoadFrom builds the configuration from the environment and an optional
// YAML overlay at path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseServiceRoleKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "profile-photos"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisURL: getEnv("REDIS_URL", ""),
		DraftTTL: getDuration("DRAFT_TTL", 30*24*time.Hour),

		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		ClickExchange: getEnv("CLICK_EXCHANGE", "cinegrok.clicks"),
		ClickTimeout:  getDuration("CLICK_TIMEOUT", 3*time.Second),

		OllamaBaseURL:    getEnv("OLLAMA_BASE_URL", ""),
		OllamaEmbedModel: getEnv("OLLAMA_EMBED_MODEL", "nomic-embed-text"),
		OllamaTimeout:    getDuration("OLLAMA_TIMEOUT", 30*time.Second),

		ProducerGate: getEnv("PRODUCER_GATE", "prompt"),
		LoginURL:     getEnv("LOGIN_URL", "/login"),

		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		BaseURL:        getEnv("BASE_URL", "http://localhost:8080"),
		AllowedOrigins: getList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	switch c.ProducerGate {
	case "prompt", "noop":
	default:
		return fmt.Errorf("PRODUCER_GATE must be prompt or noop, got %q", c.ProducerGate)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
