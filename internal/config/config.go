package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App          AppConfig
	Llm          LLMConfig
	Findings     FindingsConfig
	Deliberation DeliberationConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	SessionTTLMinutes  int
}

type LLMConfig struct {
	Provider           string // "ollama", "openai" or "none"
	Model              string // e.g. "llama3", "gpt-4o-mini"
	OllamaBaseURL      string
	OpenAIBaseURL      string
	OpenAIKey          string
	NetworkTestEnabled bool
}

type FindingsConfig struct {
	BaseURL   string // captioning sidecar; empty means offline captions
	ModelPath string
}

type DeliberationConfig struct {
	MaxRounds          int
	UnitTimeoutSeconds int
	UnitMaxRetries     int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:8501"),
			SessionTTLMinutes:  getEnvAsInt("SESSION_TTL_MINUTES", 60),
		},
		Llm: LLMConfig{
			Provider:           getEnv("LLM_PROVIDER", "ollama"),
			Model:              getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:      getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL:      getEnv("OPENAI_API_BASE", ""),
			OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
			NetworkTestEnabled: getEnvAsBool("NETWORK_TEST_ENABLED", true),
		},
		Findings: FindingsConfig{
			BaseURL:   getEnv("MEDBLIP_BASE_URL", ""),
			ModelPath: getEnv("MEDBLIP_MODEL_PATH", ""),
		},
		Deliberation: DeliberationConfig{
			MaxRounds:          getEnvAsInt("MAX_ROUNDS", 13),
			UnitTimeoutSeconds: getEnvAsInt("UNIT_TIMEOUT_SECONDS", 120),
			UnitMaxRetries:     getEnvAsInt("UNIT_MAX_RETRIES", 2),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
