package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost             string
	DBPort             string
	DBUser             string
	DBPassword         string
	DBName             string
	JWTSecret          string
	ServerPort         string
	RedisURL           string
	BrainAPIKey        string
	BrainAPIURL        string
	BrainModel         string
	VoiceAPIKey        string
	VoiceAPIURL        string
	VoiceWebhookSecret string
	ServiceAPIKey      string
	PublicBaseURL      string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", "postgres"),
		DBName:             getEnv("DB_NAME", "surveybot"),
		JWTSecret:          getEnv("JWT_SECRET", "super-secret-key-change-me"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		RedisURL:           getEnv("REDIS_URL", ""),
		BrainAPIKey:        getEnv("BRAIN_API_KEY", ""),
		BrainAPIURL:        getEnv("BRAIN_API_URL", "https://api.openai.com/v1"),
		BrainModel:         getEnv("BRAIN_MODEL", "gpt-4o-mini"),
		VoiceAPIKey:        getEnv("VOICE_API_KEY", ""),
		VoiceAPIURL:        getEnv("VOICE_API_URL", "https://api.vapi.ai"),
		VoiceWebhookSecret: getEnv("VOICE_WEBHOOK_SECRET", ""),
		ServiceAPIKey:      getEnv("SERVICE_API_KEY", "service-api-key-change-me"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
