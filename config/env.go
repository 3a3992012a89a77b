package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultIssuer is Google's OpenID Connect issuer
const DefaultIssuer = "https://accounts.google.com"

// Set at build time with -ldflags "-X gsignin-cli/config.embeddedClientID=..."
var (
	embeddedClientID     string
	embeddedClientSecret string
)

// loadEnv loads a .env file from the working directory if there is one
func loadEnv() {
	_ = godotenv.Load()
}

// applyEnv layers build-time defaults and environment overrides onto cfg
func applyEnv(cfg *Config) {
	if cfg.ClientID == "" {
		cfg.ClientID = embeddedClientID
	}
	if cfg.ClientSecret == "" {
		cfg.ClientSecret = embeddedClientSecret
	}

	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.ClientSecret = v
	}
	if v := os.Getenv("OIDC_ISSUER"); v != "" {
		cfg.Issuer = v
	}
	if v := os.Getenv("GOOGLE_HOSTED_DOMAIN"); v != "" {
		cfg.HostedDomain = v
	}
	if v := os.Getenv("OIDC_SCOPES"); v != "" {
		cfg.Scopes = strings.Fields(strings.ReplaceAll(v, ",", " "))
	}
	if v := os.Getenv("GSIGNIN_CALLBACK_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.CallbackPort = port
		}
	}

	if cfg.Issuer == "" {
		cfg.Issuer = DefaultIssuer
	}
}
