package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Development bool
	// ListenAddr is the address the trial endpoint binds to.
	ListenAddr string
	// JournalPath is the append-only trials file.
	JournalPath string
	// TelegramBotToken enables the telegram notificator when set.
	TelegramBotToken string
}

// LoadConfig loads the configuration from environment variables.
//
// Upstream API and SMTP secrets (FRKN_HOST, FRKN_API_TOKEN,
// GMAIL_USER, GMAIL_APP_PASSWORD) are deliberately not captured here:
// they are read from the environment at call time and their absence
// surfaces as a failed trial, not a startup failure.
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Development:      getEnvAsBool("DEVELOPMENT", false),
		ListenAddr:       getEnv("LISTEN_ADDR", "127.0.0.1:3030"),
		JournalPath:      getEnv("TRIALS_FILE", "trials.csv"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are properly set
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}

	if c.JournalPath == "" {
		return fmt.Errorf("TRIALS_FILE is required")
	}

	return nil
}

// Helper functions to read environment variables
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsBool(name string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(name); exists {
		if value, err := strconv.ParseBool(valueStr); err == nil {
			return value
		}
	}
	return defaultValue
}
