package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Redis     RedisConfig
	LLM       LLMConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Badges    BadgeConfig
	Reminders ReminderConfig
}

// ServerConfig has no write timeout: badge event streams stay open.
type ServerConfig struct {
	Port        int
	ReadTimeout time.Duration
	IdleTimeout time.Duration
}

// DBConfig selects one of the supported drivers: postgres, sqlite3 or oracle.
// DSN wins over the discrete fields when both are set.
type DBConfig struct {
	Driver       string
	DSN          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxOpenConns int
}

type RedisConfig struct {
	Address      string
	Password     string
	DB           int
	EventChannel string
}

// LLMConfig picks the text generation backend. Provider is one of googleai, openai or ollama.
type LLMConfig struct {
	Provider  string
	Model     string
	APIKey    string
	ServerURL string
	Timeout   time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

type AuthConfig struct {
	JWTSecret  string
	CronSecret string
}

type BadgeConfig struct {
	PollInterval    time.Duration
	LeaderboardTTL  time.Duration
	LeaderboardSize int
	ListenChannel   string
}

type ReminderConfig struct {
	Enabled bool
	At      string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "study_buddy")
	v.SetDefault("db.max_open_conns", 10)

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.event_channel", "studybuddy:badge-events")

	v.SetDefault("llm.provider", "googleai")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.cron_secret", "")

	v.SetDefault("badges.poll_interval", "30s")
	v.SetDefault("badges.leaderboard_ttl", "30s")
	v.SetDefault("badges.leaderboard_size", 10)
	v.SetDefault("badges.listen_channel", "gamification_changed")

	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.at", "08:00")
}

// LoadConfig reads config.yaml (optional), a local .env (optional) and the
// process environment. Nested keys map to env vars with dots replaced by
// underscores, e.g. db.dsn -> DB_DSN.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if used := v.ConfigFileUsed(); used != "" {
		absPath, _ := filepath.Abs(used)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        v.GetInt("server.port"),
			ReadTimeout: v.GetDuration("server.read_timeout"),
			IdleTimeout: v.GetDuration("server.idle_timeout"),
		},
		DB: DBConfig{
			Driver:       strings.ToLower(v.GetString("db.driver")),
			DSN:          v.GetString("db.dsn"),
			Host:         v.GetString("db.host"),
			Port:         v.GetInt("db.port"),
			User:         v.GetString("db.user"),
			Password:     v.GetString("db.password"),
			Name:         v.GetString("db.name"),
			MaxOpenConns: v.GetInt("db.max_open_conns"),
		},
		Redis: RedisConfig{
			Address:      v.GetString("redis.address"),
			Password:     v.GetString("redis.password"),
			DB:           v.GetInt("redis.db"),
			EventChannel: v.GetString("redis.event_channel"),
		},
		LLM: LLMConfig{
			Provider:  strings.ToLower(v.GetString("llm.provider")),
			Model:     v.GetString("llm.model"),
			APIKey:    v.GetString("llm.api_key"),
			ServerURL: v.GetString("llm.server_url"),
			Timeout:   v.GetDuration("llm.timeout"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		Auth: AuthConfig{
			JWTSecret:  v.GetString("auth.jwt_secret"),
			CronSecret: v.GetString("auth.cron_secret"),
		},
		Badges: BadgeConfig{
			PollInterval:    v.GetDuration("badges.poll_interval"),
			LeaderboardTTL:  v.GetDuration("badges.leaderboard_ttl"),
			LeaderboardSize: v.GetInt("badges.leaderboard_size"),
			ListenChannel:   v.GetString("badges.listen_channel"),
		},
		Reminders: ReminderConfig{
			Enabled: v.GetBool("reminders.enabled"),
			At:      v.GetString("reminders.at"),
		},
	}

	// GEMINI_API_KEY is what most hosted setups already export.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	return cfg, nil
}

// GetDSN returns the connection string for the configured driver.
func (c *Config) GetDSN() string {
	if c.DB.DSN != "" {
		return c.DB.DSN
	}
	switch c.DB.Driver {
	case "sqlite3", "sqlite":
		return c.DB.Name
	case "oracle":
		return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	default:
		return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
	}
}
