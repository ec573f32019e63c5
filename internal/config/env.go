package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Persistence
	DBPath   string
	WADBPath string

	// HTTP admin/test surface
	HTTPPort   int
	TestAPIKey string

	// Booking
	Timezone    string
	SlotMinutes int
	OpenHour    float64
	CloseHour   float64

	// Google Calendar
	CalendarID            string
	GoogleCredentialsFile string

	// Answer provider
	AIProvider    string
	OpenAIAPIKey  string
	OpenAIModel   string
	GeminiAPIKey  string
	GeminiModel   string
	KnowledgePath string

	// Speech-to-text
	SpeechLanguage string

	// Hand-off notifications
	ResendAPIKey string
	EmailFrom    string
	HandoffEmail string

	// Misc
	BotName               string
	ExternalTimeoutSecs   int
	ProcessorWorkerCount  int
}

func LoadFromEnv() *Config {
	return &Config{
		DBPath:   getEnvOrDefault("TURNERA_DB_PATH", "./turnera.db"),
		WADBPath: getEnvOrDefault("TURNERA_WA_DB_PATH", "./whatsapp.db"),

		HTTPPort:   getEnvAsIntOrDefault("TURNERA_HTTP_PORT", 8080),
		TestAPIKey: os.Getenv("TURNERA_TEST_API_KEY"),

		Timezone:    getEnvOrDefault("TURNERA_TIMEZONE", "America/Argentina/Buenos_Aires"),
		SlotMinutes: getEnvAsIntOrDefault("TURNERA_SLOT_MINUTES", 30),
		OpenHour:    getEnvAsFloatOrDefault("TURNERA_OPEN_HOUR", 8.0),
		CloseHour:   getEnvAsFloatOrDefault("TURNERA_CLOSE_HOUR", 21.0),

		CalendarID:            getEnvOrDefault("GOOGLE_CALENDAR_ID", "primary"),
		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_SERVICE_ACCOUNT_FILE", "./service_account.json"),

		AIProvider:    getEnvOrDefault("TURNERA_AI_PROVIDER", "openai"),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		KnowledgePath: getEnvOrDefault("TURNERA_KNOWLEDGE_PATH", "./data/knowledge.txt"),

		SpeechLanguage: getEnvOrDefault("TURNERA_SPEECH_LANGUAGE", "es-AR"),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnvOrDefault("TURNERA_EMAIL_FROM", "turnera@localhost"),
		HandoffEmail: os.Getenv("TURNERA_HANDOFF_EMAIL"),

		BotName:              getEnvOrDefault("TURNERA_BOT_NAME", "Turnera"),
		ExternalTimeoutSecs:  getEnvAsIntOrDefault("TURNERA_EXTERNAL_TIMEOUT_SECS", 15),
		ProcessorWorkerCount: getEnvAsIntOrDefault("TURNERA_WORKER_COUNT", 2),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
