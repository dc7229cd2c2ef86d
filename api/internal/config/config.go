package config

import (
	"log"
	"net"
	"net/url"
	"os"
	"strings"
)

type Config struct {
	Port string

	// Vision provider: "stub" | "openai" | "gemini".
	VisionProvider string
	OpenAIAPIKey   string
	OpenAIModel    string
	GeminiAPIKey   string
	GeminiModel    string

	// Default jurisdiction when the caller does not supply one.
	JurisdictionID string

	// Telegram bot (bot binary only).
	TelegramBotToken string
	WebhookURL       string
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing required env %s", k)
	}
	return v
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8000"),

		VisionProvider: strings.ToLower(strings.TrimSpace(getEnv("VISION_PROVIDER", "stub"))),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		JurisdictionID: getEnv("JURISDICTION_ID", "CA_DEFAULT"),

		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebhookURL:       strings.TrimSpace(os.Getenv("WEBHOOK_URL")),
	}
}

// MustTelegramToken is used by the bot binary, which cannot run without it.
func (c *Config) MustTelegramToken() string {
	if c.TelegramBotToken == "" {
		return mustEnv("TELEGRAM_BOT_TOKEN")
	}
	return c.TelegramBotToken
}

// ResolveDSN prefers DATABASE_URL, then builds a DSN from POSTGRES_*/PG*
// vars. Empty means no database configured; the drop-off directory is
// optional.
func ResolveDSN() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	host := os.Getenv("PGHOST")
	if host == "" {
		return ""
	}
	user := getEnv("POSTGRES_USER", "waste")
	pass := os.Getenv("POSTGRES_PASSWORD")
	port := getEnv("PGPORT", "5432")
	db := getEnv("POSTGRES_DB", "waste")

	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, pass),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + db,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
