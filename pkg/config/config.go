package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config groups the application configuration. Values come from the
// environment, optionally seeded from a .env file.
type Config struct {
	App      AppConfig
	CRM      CRMConfig
	HTTP     HTTPConfig
	DB       DBConfig
	RabbitMQ RabbitMQConfig
	Mail     MailConfig
	Reminder ReminderConfig
	Session  SessionConfig
	Log      LogConfig
}

type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// CRMConfig points at the CRM backend consumed by the adaptation layer.
type CRMConfig struct {
	BaseURL string // e.g. https://emr.example.com/api
	Timeout time.Duration
}

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	SecureCookies  bool
}

// Addr returns host:port for the view server.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig is only used for the session repository. Empty URL means
// sessions stay in memory.
type DBConfig struct {
	DatabaseURL string
}

type RabbitMQConfig struct {
	User     string
	Password string
	Host     string
	Port     string
}

// Enabled reports whether a broker host was configured.
func (c RabbitMQConfig) Enabled() bool {
	return c.Host != ""
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether SMTP was configured.
func (c MailConfig) Enabled() bool {
	return c.Host != ""
}

type ReminderConfig struct {
	Recipient string
	Interval  time.Duration
	Window    time.Duration
}

type SessionConfig struct {
	File string // CLI token file
	TTL  time.Duration
}

type LogConfig struct {
	Level string
	File  string
}

// Load reads the configuration. Environment variables win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load() // missing .env is fine

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	timeout, err := time.ParseDuration(v.GetString("CRM_HTTP_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("CRM_HTTP_TIMEOUT: %w", err)
	}
	interval, err := time.ParseDuration(v.GetString("REMINDER_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("REMINDER_INTERVAL: %w", err)
	}
	window, err := time.ParseDuration(v.GetString("REMINDER_WINDOW"))
	if err != nil {
		return nil, fmt.Errorf("REMINDER_WINDOW: %w", err)
	}
	ttl, err := time.ParseDuration(v.GetString("SESSION_TTL"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("APP_ENV"),
			Name: v.GetString("APP_NAME"),
		},
		CRM: CRMConfig{
			BaseURL: strings.TrimRight(v.GetString("CRM_API_URL"), "/"),
			Timeout: timeout,
		},
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
			SecureCookies:  v.GetBool("SECURE_COOKIES"),
		},
		DB: DBConfig{
			DatabaseURL: v.GetString("DATABASE_URL"),
		},
		RabbitMQ: RabbitMQConfig{
			User:     v.GetString("RABBITMQ_USER"),
			Password: v.GetString("RABBITMQ_PASSWORD"),
			Host:     v.GetString("RABBITMQ_HOST"),
			Port:     v.GetString("RABBITMQ_PORT"),
		},
		Mail: MailConfig{
			Host:     v.GetString("MAIL_HOST"),
			Port:     v.GetInt("MAIL_PORT"),
			User:     v.GetString("MAIL_USER"),
			Password: v.GetString("MAIL_PASS"),
			From:     v.GetString("MAIL_FROM"),
		},
		Reminder: ReminderConfig{
			Recipient: v.GetString("REMINDER_EMAIL"),
			Interval:  interval,
			Window:    window,
		},
		Session: SessionConfig{
			File: v.GetString("SESSION_FILE"),
			TTL:  ttl,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
	}

	if cfg.CRM.BaseURL == "" {
		return nil, fmt.Errorf("CRM_API_URL is required")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_NAME", "ligue-crm")
	v.SetDefault("CRM_HTTP_TIMEOUT", "15s")
	v.SetDefault("HTTP_HOST", "0.0.0.0")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("SECURE_COOKIES", false)
	v.SetDefault("RABBITMQ_PORT", "5672")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_FROM", "nao-responda@liguemedicina.com")
	v.SetDefault("REMINDER_INTERVAL", "1m")
	v.SetDefault("REMINDER_WINDOW", "30m")
	v.SetDefault("SESSION_FILE", defaultSessionFile())
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("LOG_LEVEL", "info")
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ligue-crm-session.yaml"
	}
	return filepath.Join(home, ".ligue-crm", "session.yaml")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
