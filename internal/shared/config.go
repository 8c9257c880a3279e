package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

const defaultSessionSecret = "dev-secret-key-change-in-production"

// Config represents the application configuration loaded from a TOML file and the environment.
type Config struct {
	App         AppConfig         `toml:"app"`
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Session     SessionConfig     `toml:"session"`
	Database    DatabaseConfig    `toml:"database"`
}

// AppConfig contains process-wide settings.
type AppConfig struct {
	Environment string `toml:"environment"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and endpoints.
//
// The endpoint fields are only overridden in tests; empty values fall back to the public Spotify URLs.
type SpotifyConfig struct {
	ClientID          string  `toml:"client_id"`
	ClientSecret      string  `toml:"client_secret"`
	RedirectURI       string  `toml:"redirect_uri"`
	AuthURL           string  `toml:"auth_url"`
	TokenURL          string  `toml:"token_url"`
	APIURL            string  `toml:"api_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	FrontendURL string   `toml:"frontend_url"`
	CORSOrigins []string `toml:"cors_origins"`
	Debug       bool     `toml:"debug"`
}

// SessionConfig contains session cookie and storage settings.
type SessionConfig struct {
	Secret       string `toml:"secret"`
	Store        string `toml:"store"` // memory or sqlite
	CookieName   string `toml:"cookie_name"`
	TTLHours     int    `toml:"ttl_hours"`
	SecureCookie bool   `toml:"secure_cookie"` // required when frontend_url is on another site
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the defaults from the embedded example config.
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

// Load builds the runtime configuration: embedded defaults, then the TOML file at path (if present),
// then a .env file in the working directory, then environment variables.
func Load(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	// A missing .env file is not an error; production sets real variables.
	_ = godotenv.Load()

	if err := config.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides configuration values with the recognised environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	setString(&c.App.Environment, "APP_ENV")
	setString(&c.Credentials.Spotify.ClientID, "SPOTIFY_CLIENT_ID")
	setString(&c.Credentials.Spotify.ClientSecret, "SPOTIFY_CLIENT_SECRET")
	setString(&c.Server.FrontendURL, "FRONTEND_URL")
	setString(&c.Session.Secret, "SESSION_SECRET")
	setString(&c.Session.Store, "SESSION_STORE")
	setString(&c.Database.Path, "DATABASE_PATH")

	if v := strings.TrimSpace(getenv("SPOTIFY_REDIRECT_URI")); v != "" {
		c.Credentials.Spotify.RedirectURI = v
	} else if host := strings.TrimSpace(getenv("RENDER_EXTERNAL_URL")); host != "" {
		c.Credentials.Spotify.RedirectURI = strings.TrimRight(host, "/") + "/callback"
	}

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: invalid PORT %q: %v", ErrInvalidConfig, v, err)
		}
		c.Server.Port = port
	}

	if v := strings.TrimSpace(getenv("CORS_ORIGINS")); v != "" {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		c.Server.CORSOrigins = origins
	}

	return nil
}

// Validate reports configuration problems. Missing Spotify credentials are reported as warnings by the
// caller, since the server can still start and answer status requests.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port))
	}
	switch c.Session.Store {
	case "memory", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("%w: unknown session store %q", ErrInvalidConfig, c.Session.Store))
	}
	if c.Session.Store == "sqlite" && c.Database.Path == "" {
		errs = append(errs, fmt.Errorf("%w: sqlite session store requires database.path", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// HasSpotifyCredentials reports whether a client id and secret are configured.
func (c *Config) HasSpotifyCredentials() bool {
	return c.Credentials.Spotify.ClientID != "" && c.Credentials.Spotify.ClientSecret != ""
}

// UsesDefaultSecret reports whether the session secret is still the development placeholder.
func (c *Config) UsesDefaultSecret() bool {
	return c.Session.Secret == "" || c.Session.Secret == defaultSessionSecret
}

// CrossSiteFrontend reports whether the frontend is served from a different host than the OAuth callback.
// Browsers then drop SameSite=Lax cookies set by the frontend's API calls, so secure_cookie must be enabled.
func (c *Config) CrossSiteFrontend() bool {
	frontend, err := url.Parse(c.Server.FrontendURL)
	if err != nil || frontend.Hostname() == "" {
		return false
	}
	callback, err := url.Parse(c.Credentials.Spotify.RedirectURI)
	if err != nil || callback.Hostname() == "" {
		return false
	}
	return !strings.EqualFold(frontend.Hostname(), callback.Hostname())
}

// IsProduction reports whether the app runs with APP_ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Environment, "production")
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// SessionTTL returns the session lifetime.
func (c *Config) SessionTTL() time.Duration {
	if c.Session.TTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// AllowedOrigins returns the CORS allow-list, always including the frontend URL.
func (c *Config) AllowedOrigins() []string {
	origins := make([]string, 0, len(c.Server.CORSOrigins)+1)
	seen := make(map[string]struct{})
	for _, origin := range append(append([]string{}, c.Server.CORSOrigins...), c.Server.FrontendURL) {
		origin = strings.TrimRight(origin, "/")
		if origin == "" {
			continue
		}
		if _, ok := seen[origin]; ok {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
