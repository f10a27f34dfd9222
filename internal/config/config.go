// Package config reads server settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Addr            string  `mapstructure:"addr"`
	TLSCert         string  `mapstructure:"tls_cert"`
	TLSKey          string  `mapstructure:"tls_key"`
	DatabaseURL     string  `mapstructure:"database_url"`
	TokenKey        string  `mapstructure:"token_key"`
	RateLimit       float64 `mapstructure:"rate_limit"`
	RateBurst       int     `mapstructure:"rate_burst"`
	LogLevel        string  `mapstructure:"log_level"`
	DevMode         bool    `mapstructure:"dev_mode"`
	MaxAlternatives int     `mapstructure:"max_alternatives"`
}

var ErrNoTokenKey = errors.New("TOKEN_KEY environment variable is not set")

var defaults = map[string]any{
	"addr":             ":443",
	"tls_cert":         "server.crt",
	"tls_key":          "server.key",
	"database_url":     "",
	"token_key":        "",
	"rate_limit":       1.0,
	"rate_burst":       3,
	"log_level":        "info",
	"dev_mode":         false,
	"max_alternatives": 10,
}

// Load reads envFiles (missing files are ignored) and then the process environment.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		// godotenv never overrides variables already set
		_ = godotenv.Load(f)
	}

	v := viper.New()
	// an empty TLS_CERT or TLS_KEY turns TLS off
	v.AllowEmptyEnv(true)
	for k, d := range defaults {
		v.SetDefault(k, d)
		if err := v.BindEnv(k, strings.ToUpper(k)); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", k, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.TokenKey == "" {
		return ErrNoTokenKey
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("rate limit %v/%d must be positive", c.RateLimit, c.RateBurst)
	}
	if c.MaxAlternatives < 1 {
		return fmt.Errorf("max alternatives %d must be at least 1", c.MaxAlternatives)
	}
	return nil
}

// TLS reports whether both certificate files are configured.
func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}
