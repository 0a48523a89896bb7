package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the service needs. It is built
// once in main and handed to the controllers; handlers never read the
// environment themselves.
type Config struct {
	ListenAddr string
	DatabaseDSN string

	// Public base URLs used when composing links in emails, QR codes
	// and calendar entries.
	APIBaseURL      string
	FrontendBaseURL string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string

	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	S3LogoBucket       string

	// AllowedOrigins for CORS.
	AllowedOrigins []string

	// ReminderInterval (seconds) between reminder scan passes.
	ReminderIntervalSeconds int
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads .env (if present) and assembles the Config. The database
// DSN is the only hard requirement.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN is not set")
	}

	cfg := &Config{
		ListenAddr:      ":" + getenv("PORT", "8000"),
		DatabaseDSN:     dsn,
		APIBaseURL:      getenv("API_BASE_URL", "http://localhost:8000"),
		FrontendBaseURL: getenv("FRONTEND_BASE_URL", "http://localhost:3000"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getenv("SMTP_PORT", "587"),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		MailFrom: getenv("MAIL_FROM", os.Getenv("SMTP_USER")),

		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          getenv("AWS_REGION", "eu-north-1"),
		S3LogoBucket:       getenv("S3_LOGO_BUCKET", "event-platform-logos"),

		AllowedOrigins: []string{getenv("FRONTEND_BASE_URL", "http://localhost:3000")},

		ReminderIntervalSeconds: 300,
	}
	if raw := os.Getenv("REMINDER_INTERVAL_SECONDS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("REMINDER_INTERVAL_SECONDS is invalid: %q", raw)
		}
		cfg.ReminderIntervalSeconds = n
	}
	return cfg, nil
}
