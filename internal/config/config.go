// Package config handles the configuration directory, the config.yaml file
// and credential file paths.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// ConfigFile is the settings filename.
	ConfigFile = "config.yaml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// BackendREST selects the HTTP task gateway.
	BackendREST = "rest"

	// BackendGoogleTasks selects Google Tasks as the remote store.
	BackendGoogleTasks = "googletasks"

	// DefaultTimeout is the per-call gateway timeout when none is configured.
	// Zero leaves calls unbounded; only cancellation ends them.
	DefaultTimeout time.Duration = 0

	// DefaultGoogleList is the Google Tasks list used when none is configured.
	DefaultGoogleList = "@default"
)

// Environment overrides.
const (
	EnvBaseURL = "TASKDECK_BASE_URL"
	EnvToken   = "TASKDECK_TOKEN"
)

// ErrNoEndpoints is returned when the rest backend has nowhere to send requests.
var ErrNoEndpoints = errors.New("no gateway endpoints configured")

// Endpoints holds one URL per gateway operation. URLs for single-task
// operations may contain an {id} placeholder; without one the ID is
// appended as a final path segment.
type Endpoints struct {
	List   string `yaml:"list"`
	Create string `yaml:"create"`
	Update string `yaml:"update"`
	Status string `yaml:"status"`
	Delete string `yaml:"delete"`
	Get    string `yaml:"get"`
}

// GoogleSettings configures the googletasks backend.
type GoogleSettings struct {
	List string `yaml:"list"`
}

// Settings is the content of config.yaml.
type Settings struct {
	Backend   string         `yaml:"backend"`
	BaseURL   string         `yaml:"base_url"`
	Endpoints Endpoints      `yaml:"endpoints"`
	Token     string         `yaml:"token"`
	Timeout   time.Duration  `yaml:"timeout"`
	Google    GoogleSettings `yaml:"google"`
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	Settings
}

// New creates a Config for the default or specified config directory and
// loads config.yaml from it if present.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	c := &Config{Dir: dir}
	if err := c.Load(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// Load reads config.yaml, applies environment overrides and fills defaults.
// A missing file is not an error.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.ConfigPath())
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &c.Settings); err != nil {
			return fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Token = v
	}

	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	if c.Backend == "" {
		c.Backend = BackendREST
	}
	if c.Backend != BackendREST && c.Backend != BackendGoogleTasks {
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %s", c.Timeout)
	}
	if c.Google.List == "" {
		c.Google.List = DefaultGoogleList
	}
	return nil
}

// ResolvedEndpoints returns the configured endpoints, deriving empty ones
// from BaseURL.
func (c *Config) ResolvedEndpoints() (Endpoints, error) {
	ep := c.Endpoints
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base != "" {
		fill := func(field *string, v string) {
			if *field == "" {
				*field = v
			}
		}
		fill(&ep.List, base+"/tasks")
		fill(&ep.Create, base+"/tasks")
		fill(&ep.Update, base+"/tasks/{id}")
		fill(&ep.Status, base+"/tasks/{id}/status")
		fill(&ep.Delete, base+"/tasks/{id}")
		fill(&ep.Get, base+"/tasks/{id}")
	}

	var missing []string
	for name, v := range map[string]string{
		"list": ep.List, "create": ep.Create, "update": ep.Update,
		"status": ep.Status, "delete": ep.Delete, "get": ep.Get,
	} {
		if v == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 6 {
		return Endpoints{}, fmt.Errorf("%w (set base_url in %s)", ErrNoEndpoints, c.ConfigPath())
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Endpoints{}, fmt.Errorf("%w: missing %s", ErrNoEndpoints, strings.Join(missing, ", "))
	}
	return ep, nil
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
