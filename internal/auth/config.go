// Package auth provides portal accounts, cookie sessions, and passkey
// sign-in.
package auth

import "os"

// Config holds authentication configuration.
type Config struct {
	AdminEmail string
	SMTPHost   string
	SMTPPort   string
	SMTPUser   string
	SMTPPass   string
	SMTPFrom   string
	DevMode    bool
	BaseURL    string // e.g. http://localhost:8080
}

// ConfigFromEnv creates a Config from environment variables.
func ConfigFromEnv() Config {
	return Config{
		AdminEmail: os.Getenv("PORTAL_ADMIN_EMAIL"),
		SMTPHost:   os.Getenv("PORTAL_SMTP_HOST"),
		SMTPPort:   envOrDefault("PORTAL_SMTP_PORT", "587"),
		SMTPUser:   os.Getenv("PORTAL_SMTP_USER"),
		SMTPPass:   os.Getenv("PORTAL_SMTP_PASS"),
		SMTPFrom:   os.Getenv("PORTAL_SMTP_FROM"),
		DevMode:    os.Getenv("PORTAL_DEV_MODE") == "true",
		BaseURL:    envOrDefault("PORTAL_BASE_URL", "http://localhost:8080"),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
