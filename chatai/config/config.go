package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTokenTTL      = 24 * time.Hour
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1"
	defaultGeminiModel   = "gemini-1.5-flash"
)

// Default prompt settings, overridable through the prompt file.
const (
	DefaultSystemInstruction = "Always answer like a professional advisor on universities. Never generate any kind of code."
	DefaultFallbackMessage   = "I'm sorry, I couldn't generate a response at the moment. Please try again."
)

type Config struct {
	Port string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	JWTSecret string
	TokenTTL  time.Duration

	// ClientOrigin is the single browser origin allowed by CORS.
	ClientOrigin string

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	// Prompt settings, loaded from PromptFile when set.
	SystemInstruction string
	FallbackMessage   string

	// Object storage for transcript archives. Archiving is disabled
	// when the endpoint is empty.
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool
}

type promptFile struct {
	SystemInstruction string `yaml:"system_instruction"`
	FallbackMessage   string `yaml:"fallback_message"`
}

func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	cfg := Config{
		Port:       getEnv("PORT", "8000"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBName:     getEnv("DB_NAME", "chatai"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  defaultTokenTTL,

		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", defaultGeminiBaseURL),
		GeminiModel:   getEnv("GEMINI_MODEL", defaultGeminiModel),

		SystemInstruction: DefaultSystemInstruction,
		FallbackMessage:   DefaultFallbackMessage,

		MinIOEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinIOBucket:    getEnv("MINIO_BUCKET", "chatai-transcripts"),
		MinIOUseSSL:    getEnv("MINIO_USE_SSL", "") == "true",
	}

	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TOKEN_TTL %q: %w", raw, err)
		}
		cfg.TokenTTL = ttl
	}

	if path := os.Getenv("PROMPT_FILE"); path != "" {
		if err := cfg.loadPromptFile(path); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func (c *Config) loadPromptFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read prompt file: %w", err)
	}
	var pf promptFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return fmt.Errorf("parse prompt file %s: %w", path, err)
	}
	if pf.SystemInstruction != "" {
		c.SystemInstruction = pf.SystemInstruction
	}
	if pf.FallbackMessage != "" {
		c.FallbackMessage = pf.FallbackMessage
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return fallback
}
