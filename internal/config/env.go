package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Telegram
	TelegramAPIID       int
	TelegramAPIHash     string
	TelegramBotToken    string
	TelegramSessionPath string

	// OpenAI (event extraction + transcription)
	OpenAIAPIKey       string
	OpenAIModel        string
	WhisperProvider    string
	OpenAIWhisperModel string
	LocalWhisperModel  string
	WhisperLanguage    string

	// Google Calendar
	GoogleCredentialsFile string
	GoogleTokenFile       string
	GoogleCalendarID      string

	// Timezone for interpreting user-supplied datetimes
	Timezone string
}

func LoadFromEnv() *Config {
	return &Config{
		TelegramAPIID:       getEnvAsIntOrDefault("TELEGRAM_API_ID", 0),
		TelegramAPIHash:     os.Getenv("TELEGRAM_API_HASH"),
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramSessionPath: getEnvOrDefault("TELEGRAM_SESSION_PATH", "./telegram.session"),

		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		WhisperProvider:    strings.ToLower(getEnvOrDefault("WHISPER_PROVIDER", "openai")),
		OpenAIWhisperModel: getEnvOrDefault("OPENAI_WHISPER_MODEL", "whisper-1"),
		LocalWhisperModel:  getEnvOrDefault("LOCAL_WHISPER_MODEL", "base"),
		WhisperLanguage:    getEnvOrDefault("WHISPER_LANGUAGE", "ru"),

		GoogleCredentialsFile: getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
		GoogleTokenFile:       getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),
		GoogleCalendarID:      getEnvOrDefault("GOOGLE_CALENDAR_ID", "primary"),

		Timezone: getEnvOrDefault("TZ", "Europe/Kyiv"),
	}
}

// Validate reports the first missing required setting.
func (c *Config) Validate() error {
	if c.TelegramAPIID == 0 {
		return fmt.Errorf("missing required environment variable: TELEGRAM_API_ID")
	}
	if c.TelegramAPIHash == "" {
		return fmt.Errorf("missing required environment variable: TELEGRAM_API_HASH")
	}
	if c.TelegramBotToken == "" {
		return fmt.Errorf("missing required environment variable: TELEGRAM_BOT_TOKEN")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("missing required environment variable: OPENAI_API_KEY")
	}
	return nil
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
