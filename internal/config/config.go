package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config concentra toda a configuração vinda do ambiente. É construída uma
// vez no boot e injetada nos construtores — ninguém lê os.Getenv depois
// daqui.
type Config struct {
	DatabaseURL string

	IMAPAddr    string
	IMAPUser    string
	IMAPPass    string
	IMAPMailbox string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	AlertWebhookURL string

	PollInterval time.Duration
	PaceDelay    time.Duration
	LockTTL      time.Duration
	MessageCap   int
	RetryMax     int
	RetryBatch   int

	HTTPPort string
}

func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),

		IMAPAddr:    os.Getenv("IMAP_ADDR"),
		IMAPUser:    os.Getenv("IMAP_USER"),
		IMAPPass:    os.Getenv("IMAP_PASS"),
		IMAPMailbox: getEnv("IMAP_MAILBOX", "INBOX"),

		SMTPHost: os.Getenv("MAIL_HOST"),
		SMTPPort: getEnvInt("MAIL_PORT", 587),
		SMTPUser: os.Getenv("MAIL_USER"),
		SMTPPass: os.Getenv("MAIL_PASS"),
		MailFrom: getEnv("MAIL_FROM", "nao-responda@liguemedicina.com"),

		RabbitUser: os.Getenv("RABBITMQ_USER"),
		RabbitPass: os.Getenv("RABBITMQ_PASS"),
		RabbitHost: os.Getenv("RABBITMQ_HOST"),
		RabbitPort: getEnv("RABBITMQ_PORT", "5672"),

		AlertWebhookURL: os.Getenv("ALERT_WEBHOOK_URL"),

		PollInterval: getEnvDuration("POLL_INTERVAL", 2*time.Minute),
		PaceDelay:    getEnvDuration("PACE_DELAY", 2*time.Second),
		LockTTL:      getEnvDuration("LOCK_TTL", 5*time.Minute),
		MessageCap:   getEnvInt("RUN_MESSAGE_CAP", 50),
		RetryMax:     getEnvInt("RETRY_MAX_ATTEMPTS", 5),
		RetryBatch:   getEnvInt("RETRY_BATCH_SIZE", 10),

		HTTPPort: getEnv("PORT", "8080"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL é obrigatória")
	}
	if cfg.IMAPAddr == "" || cfg.IMAPUser == "" {
		return nil, fmt.Errorf("IMAP_ADDR e IMAP_USER são obrigatórias")
	}

	return cfg, nil
}

// RabbitConfigured indica se o bus de alertas deve ser ligado; sem ele os
// alertas vão direto pro webhook.
func (c *Config) RabbitConfigured() bool {
	return c.RabbitHost != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
