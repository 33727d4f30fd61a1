package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mbodj/wacloud/pkg/whatsapp"
)

// Config represents the full bot configuration surface.
type Config struct {
	Server    ServerConfig
	WhatsApp  whatsapp.Config
	MongoDB   MongoDBConfig
	Broadcast BroadcastConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for the message store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// BroadcastConfig holds the scheduled broadcast settings. Recipient may be
// empty, in which case the scheduler is not started.
type BroadcastConfig struct {
	CronSchedule string
	Recipient    string
	Message      string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from the
		// environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		WhatsApp: whatsapp.Config{
			Token:         os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
		},
		MongoDB: MongoDBConfig{
			URI:    getenvWithDefault("MONGODB_URI", "mongodb://localhost:27017"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "wacloud"),
		},
		Broadcast: BroadcastConfig{
			CronSchedule: getenvWithDefault("BROADCAST_CRON_SCHEDULE", "0 9 * * *"),
			Recipient:    os.Getenv("BROADCAST_RECIPIENT"),
			Message:      getenvWithDefault("BROADCAST_MESSAGE", "Good morning! This is your scheduled update."),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.WhatsApp.Token == "":
		return errors.New("WHATSAPP_TOKEN must be provided")
	case c.WhatsApp.PhoneNumberID == "":
		return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
	case c.WhatsApp.VerifyToken == "":
		return errors.New("META_VERIFY_TOKEN must be provided")
	}

	if c.WhatsApp.BaseURL == "" {
		return errors.New("WHATSAPP_BASE_URL must not be empty")
	}

	if c.WhatsApp.APIVersion == "" {
		return errors.New("WHATSAPP_API_VERSION must not be empty")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}

	if c.Broadcast.Recipient != "" && c.Broadcast.CronSchedule == "" {
		return errors.New("BROADCAST_CRON_SCHEDULE must be provided when a recipient is set")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
