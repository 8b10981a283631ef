package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDSN string
	TgToken     string
	ListenAddr  string
	PublicURL   string // where upload links handed out in chat point
	UploadDir   string

	// Insight service (OpenAI-compatible chat completions).
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
}

var (
	config *Config
	once   sync.Once
)

// GetConfig returns the singleton configuration, loading .env on first use.
func GetConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Println("no .env file, using environment as is")
		}

		config = &Config{
			DatabaseDSN: os.Getenv("DB_DSN"),
			TgToken:     os.Getenv("TG_TOKEN"),
			ListenAddr:  getenvDefault("LISTEN_ADDR", ":8005"),
			UploadDir:   getenvDefault("UPLOAD_DIR", "uploads"),
			LLMAPIKey:   os.Getenv("LLM_API_KEY"),
			LLMBaseURL:  getenvDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
			LLMModel:    getenvDefault("LLM_MODEL", "gpt-4o-mini"),
		}
		config.PublicURL = getenvDefault("PUBLIC_URL", "http://localhost"+config.ListenAddr)
	})
	return config
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
