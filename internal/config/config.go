// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"os"
)

// Config carries everything the process needs, loaded once at startup.
type Config struct {
	Addr   string
	WebDir string

	DatabaseURL string
	SecretKey   string

	// SessionStore selects where sessions live: "postgres" (default),
	// "memory", or "redis".
	SessionStore  string
	RedisAddr     string
	RedisPassword string

	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string
}

// Load reads configuration from the environment. SECRET_KEY is the
// token-signing secret and is mandatory.
func Load() (Config, error) {
	cfg := Config{
		Addr:   env("ADDR", ":8080"),
		WebDir: env("WEB_DIR", "web"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		SecretKey:   os.Getenv("SECRET_KEY"),

		SessionStore:  env("SESSION_STORE", "postgres"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		OIDCIssuer:       os.Getenv("OIDC_ISSUER"),
		OIDCClientID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		OIDCRedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
	}

	if cfg.SecretKey == "" {
		return cfg, errors.New("SECRET_KEY is required")
	}
	if cfg.SessionStore == "redis" && cfg.RedisAddr == "" {
		return cfg, errors.New("REDIS_ADDR is required when SESSION_STORE=redis")
	}
	return cfg, nil
}

// SSOEnabled reports whether the optional OIDC login is configured.
func (c Config) SSOEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
