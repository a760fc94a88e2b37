package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	ServerPort       string
	JWTSecret        string
	JWTExpirationSec int64

	StorageDriver string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string

	SweepInterval  time.Duration
	QueueRetention time.Duration

	BannedWords  []string
	AllowOrigins []string
}

// LoadConfig loads configuration from an optional YAML file with environment
// overrides, e.g. server.port becomes SERVER_PORT.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration_sec", 86400)
	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "remote_admin")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("sweep.interval", "1h")
	v.SetDefault("sweep.retention", "24h")
	v.SetDefault("chat.banned_words", []string{})
	v.SetDefault("cors.allow_origins", []string{"http://localhost:3000"})

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		ServerPort:       v.GetString("server.port"),
		JWTSecret:        v.GetString("jwt.secret"),
		JWTExpirationSec: v.GetInt64("jwt.expiration_sec"),
		StorageDriver:    v.GetString("storage.driver"),
		DBHost:           v.GetString("db.host"),
		DBPort:           v.GetString("db.port"),
		DBUser:           v.GetString("db.user"),
		DBPassword:       v.GetString("db.password"),
		DBName:           v.GetString("db.name"),
		DBSSLMode:        v.GetString("db.sslmode"),
		SweepInterval:    v.GetDuration("sweep.interval"),
		QueueRetention:   v.GetDuration("sweep.retention"),
		BannedWords:      v.GetStringSlice("chat.banned_words"),
		AllowOrigins:     v.GetStringSlice("cors.allow_origins"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

// ConnString builds the Postgres connection string.
func (c *Config) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}
