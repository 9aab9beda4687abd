package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"Airside/internal/logging"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Standards StandardsConfig `mapstructure:"standards"`
	Log       logging.Config  `mapstructure:"log"`
}

type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	TLSCert   string  `mapstructure:"tls_cert"`
	TLSKey    string  `mapstructure:"tls_key"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second per IP
	RateBurst int     `mapstructure:"rate_burst"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type AuthConfig struct {
	TokenKey     string `mapstructure:"token_key"`
	SecureCookie bool   `mapstructure:"secure_cookie"`
}

type StandardsConfig struct {
	// Source is "file" or "database".
	Source string `mapstructure:"source"`
	Path   string `mapstructure:"path"`
}

// Load reads .env if present, then airside.yaml from the working directory
// or ./config (or the file at path when given), then AIRSIDE_* environment
// variables. DATABASE_URL and TOKEN_KEY are honoured when the Airside
// settings leave them empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("airside")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetDefault("server.addr", ":8443")
	v.SetDefault("server.tls_cert", "")
	v.SetDefault("server.tls_key", "")
	v.SetDefault("server.rate_limit", 1.0)
	v.SetDefault("server.rate_burst", 3)
	v.SetDefault("database.url", "")
	v.SetDefault("auth.token_key", "")
	v.SetDefault("auth.secure_cookie", true)
	v.SetDefault("standards.source", "file")
	v.SetDefault("standards.path", "data/standards")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix("AIRSIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.Auth.TokenKey == "" {
		cfg.Auth.TokenKey = os.Getenv("TOKEN_KEY")
	}
	if cfg.Standards.Source != "file" && cfg.Standards.Source != "database" {
		return nil, fmt.Errorf("standards.source must be file or database, got %q", cfg.Standards.Source)
	}
	return &cfg, nil
}
