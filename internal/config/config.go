package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Ingestion modes. Exactly one mode is active per deployment: running both
// against the same bot would double-process every event
const (
	ModePoll    = "poll"
	ModeWebhook = "webhook"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type TelegramConfig struct {
	BotToken     string `yaml:"bot_token"`
	Mode         string `yaml:"mode"`
	PollInterval string `yaml:"poll_interval"`
}

type ChallengeConfig struct {
	TTL        string `yaml:"ttl"`
	CodeLength int    `yaml:"code_length"`
}

type SessionConfig struct {
	TTL        string `yaml:"ttl"`
	CookieName string `yaml:"cookie_name"`
	EntryPath  string `yaml:"entry_path"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Challenge ChallengeConfig `yaml:"challenge"`
	Session   SessionConfig   `yaml:"session"`
}

type Config struct {
	Port            string
	GinMode         string
	DSN             string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	BotToken        string
	TelegramMode    string
	PollInterval    time.Duration
	ChallengeTTL    time.Duration
	LoginCodeLength int
	SessionTTL      time.Duration
	SessionCookie   string
	PortalEntryPath string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	configFile, err := loadConfigFile(env("CONFIG_PATH", "config/config.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	pollInterval, err := time.ParseDuration(configFile.Telegram.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid telegram poll interval: %w", err)
	}

	challengeTTL, err := time.ParseDuration(configFile.Challenge.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid challenge TTL: %w", err)
	}

	sessionTTL, err := time.ParseDuration(configFile.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid session TTL: %w", err)
	}

	mode := configFile.Telegram.Mode
	if mode != ModePoll && mode != ModeWebhook {
		return nil, fmt.Errorf("telegram mode must be %q or %q, got %q", ModePoll, ModeWebhook, mode)
	}

	cookieName := configFile.Session.CookieName
	if cookieName == "" {
		cookieName = "portal_session"
	}
	entryPath := configFile.Session.EntryPath
	if entryPath == "" {
		entryPath = "/portal"
	}

	return &Config{
		Port:            fmt.Sprintf("%d", configFile.App.Port),
		GinMode:         configFile.App.GinMode,
		DSN:             configFile.Database.DSN,
		RedisAddr:       configFile.Redis.Addr,
		RedisPassword:   configFile.Redis.Password,
		RedisDB:         configFile.Redis.DB,
		BotToken:        env("TELEGRAM_BOT_TOKEN", configFile.Telegram.BotToken),
		TelegramMode:    mode,
		PollInterval:    pollInterval,
		ChallengeTTL:    challengeTTL,
		LoginCodeLength: configFile.Challenge.CodeLength,
		SessionTTL:      sessionTTL,
		SessionCookie:   cookieName,
		PortalEntryPath: entryPath,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
