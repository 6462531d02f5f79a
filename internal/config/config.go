// Package config loads application configuration from environment variables
// and an optional .env file in the working directory. Environment variables
// take priority over .env entries.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Spotify  SpotifyConfig  `envPrefix:"SPOTIFY_"`
	Gemini   GeminiConfig   `envPrefix:"GEMINI_"`
	Auth     AuthConfig
	Google   GoogleConfig `envPrefix:"GOOGLE_"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"8080"`
}

// Address returns the listen address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds the user-store settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `env:"PATH" envDefault:"moodvibe.db"`
}

// SpotifyConfig holds the music-catalog credentials and endpoints.
// TokenURL and APIBaseURL are overridable so tests can point the client at a
// local server.
type SpotifyConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	TokenURL     string `env:"TOKEN_URL" envDefault:"https://accounts.spotify.com/api/token"`
	APIBaseURL   string `env:"API_BASE_URL" envDefault:"https://api.spotify.com/v1"`
	Market       string `env:"MARKET" envDefault:"US"`
	// HTTPTimeoutSeconds bounds each catalog call so a hung provider cannot
	// hold a request open indefinitely.
	HTTPTimeoutSeconds int `env:"HTTP_TIMEOUT" envDefault:"10"`
}

// Timeout returns the per-call timeout as a duration.
func (s SpotifyConfig) Timeout() time.Duration {
	return time.Duration(s.HTTPTimeoutSeconds) * time.Second
}

// GeminiConfig holds the generative-language service settings.
type GeminiConfig struct {
	APIKey             string `env:"API_KEY"`
	BaseURL            string `env:"BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`
	HTTPTimeoutSeconds int    `env:"HTTP_TIMEOUT" envDefault:"10"`
}

// Timeout returns the per-call timeout as a duration.
func (g GeminiConfig) Timeout() time.Duration {
	return time.Duration(g.HTTPTimeoutSeconds) * time.Second
}

// AuthConfig holds the session-token settings and the recommendation gate.
type AuthConfig struct {
	JWTSecret string `env:"JWT_SECRET"`
	// Mode selects how the recommendations route treats bearer tokens:
	// "required" rejects anonymous requests, "optional" attaches the user
	// when a valid token is present, "none" ignores tokens entirely.
	Mode string `env:"AUTH_MODE" envDefault:"optional"`
}

// GoogleConfig holds the federated-login OAuth client settings.
type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// Enabled reports whether federated login is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.RedirectURL != ""
}

// Load reads the optional .env file and parses the environment into a Config.
func Load() (Config, error) {
	// Missing .env is fine; a malformed one is not.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return Config{}, fmt.Errorf("config: load .env: %w", err)
		}
	}

	var conf Config
	if err := env.Parse(&conf); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if err := conf.validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

func (c Config) validate() error {
	var problems []string

	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		problems = append(problems, "SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET are required")
	}
	if c.Gemini.APIKey == "" {
		problems = append(problems, "GEMINI_API_KEY is required")
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	switch c.Auth.Mode {
	case "required", "optional", "none":
	default:
		problems = append(problems, fmt.Sprintf("AUTH_MODE must be required, optional or none, got %q", c.Auth.Mode))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, "SERVER_PORT must be between 1 and 65535")
	}
	if c.Spotify.HTTPTimeoutSeconds <= 0 || c.Gemini.HTTPTimeoutSeconds <= 0 {
		problems = append(problems, "HTTP timeouts must be greater than 0")
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
