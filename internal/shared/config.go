package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Spotify     SpotifyAPIConfig  `toml:"spotify"`
	Session     SessionConfig     `toml:"session"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains the Spotify app registration used for the PKCE flow.
//
// PKCE clients are public, so there is no client secret.
type SpotifyConfig struct {
	ClientID    string   `toml:"client_id"`
	RedirectURI string   `toml:"redirect_uri"`
	Scopes      []string `toml:"scopes"`
}

// SpotifyAPIConfig contains Spotify endpoints and request pacing.
type SpotifyAPIConfig struct {
	AuthURL   string  `toml:"auth_url"`
	TokenURL  string  `toml:"token_url"`
	APIURL    string  `toml:"api_url"`
	ChunkRate float64 `toml:"chunk_rate"` // track-append requests per second, 0 disables pacing
}

// SessionConfig contains settings for the session-scoped token store.
type SessionConfig struct {
	Path        string `toml:"path"`
	Name        string `toml:"name"`
	MaxAgeHours int    `toml:"max_age_hours"`
}

// MaxAge returns the session lifetime as a [time.Duration].
func (s SessionConfig) MaxAge() time.Duration {
	return time.Duration(s.MaxAgeHours) * time.Hour
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns host:port for [net/http.Server].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads path when it exists and falls back to [DefaultConfig] otherwise.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports the first setting that would prevent the PKCE flow from working.
func (c *Config) Validate() error {
	spotify := c.Credentials.Spotify
	switch {
	case spotify.ClientID == "" || spotify.ClientID == "your_spotify_client_id":
		return fmt.Errorf("%w: credentials.spotify.client_id must be set", ErrMissingCredentials)
	case spotify.RedirectURI == "":
		return fmt.Errorf("%w: credentials.spotify.redirect_uri must be set", ErrInvalidConfig)
	case !strings.HasPrefix(c.Spotify.TokenURL, "http"):
		return fmt.Errorf("%w: spotify.token_url must be an http(s) URL", ErrInvalidConfig)
	case !strings.HasPrefix(c.Spotify.AuthURL, "http"):
		return fmt.Errorf("%w: spotify.auth_url must be an http(s) URL", ErrInvalidConfig)
	}
	return nil
}
