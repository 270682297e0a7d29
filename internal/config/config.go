package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/docker/go-units"
	"github.com/goccy/go-yaml"

	pErrors "github.com/zhubert/agentdeck/internal/errors"
)

// DefaultAPIURL is used when neither the config file nor the environment
// names a backend.
const DefaultAPIURL = "http://localhost:8000/api"

// DefaultTheme is the theme used when none is configured.
const DefaultTheme = "dark-purple"

// Environment variables that override the config file.
const (
	EnvAPIURL        = "AGENTDECK_API_URL"
	EnvLegacyAPIURL  = "VITE_API_URL"
	EnvTheme         = "AGENTDECK_THEME"
	EnvMaxAttachment = "AGENTDECK_MAX_ATTACHMENT"
	EnvOTelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// AgentRef names an agent whose configuration can be fetched from the
// backend. The sidebar lists these in order.
type AgentRef struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Main        bool   `yaml:"main,omitempty"`
}

// DefaultAgents is the agent list used when the config file has none.
func DefaultAgents() []AgentRef {
	return []AgentRef{
		{ID: "main", Name: "Prometheus", Description: "Main orchestrator agent", Main: true},
		{ID: "planner", Name: "Planner Agent", Description: "Creates execution plans and breaks down tasks"},
		{ID: "executor", Name: "Executor Agent", Description: "Executes planned actions and operations"},
		{ID: "reflector", Name: "Reflector Agent", Description: "Reviews and improves execution results"},
	}
}

// Config holds the application configuration. It is read once at startup
// and never written back; the setters only change the in-memory copy.
type Config struct {
	APIURL            string     `yaml:"api_url,omitempty"`
	Theme             string     `yaml:"theme,omitempty"`
	Greeting          *bool      `yaml:"greeting,omitempty"`
	Notifications     bool       `yaml:"notifications,omitempty"`
	MaxAttachmentSize string     `yaml:"max_attachment_size,omitempty"` // e.g. "10MB"; empty means unlimited
	OTelEndpoint      string     `yaml:"otel_endpoint,omitempty"`
	Agents            []AgentRef `yaml:"agents,omitempty"`

	maxAttachmentBytes int64

	mu       sync.RWMutex
	filePath string
}

// configDir returns the path to the config directory
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".agentdeck"), nil
}

// Path returns the path of the config file.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads ~/.agentdeck/config.yaml if it exists, applies environment
// overrides and validates the result.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit file path. A missing file is not an
// error.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{filePath: path}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, pErrors.ConfigLoadFailed(path, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, pErrors.ConfigLoadFailed(path, err)
		}
	}

	cfg.applyEnv()
	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables on top of the file values.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAPIURL); v != "" {
		c.APIURL = v
	} else if v := os.Getenv(EnvLegacyAPIURL); v != "" {
		c.APIURL = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.Theme = v
	}
	if v := os.Getenv(EnvMaxAttachment); v != "" {
		c.MaxAttachmentSize = v
	}
	if v := os.Getenv(EnvOTelEndpoint); v != "" {
		c.OTelEndpoint = v
	}
}

// ensureDefaults fills in anything left empty. Only called from LoadFrom
// before the Config is shared.
func (c *Config) ensureDefaults() {
	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if len(c.Agents) == 0 {
		c.Agents = DefaultAgents()
	}
}

var themeNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// Validate checks the configuration for errors. It also caches the parsed
// attachment size limit.
func (c *Config) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return pErrors.ConfigInvalid(fmt.Sprintf("api_url %q is not an absolute URL", c.APIURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return pErrors.ConfigInvalid(fmt.Sprintf("api_url %q must use http or https", c.APIURL))
	}

	if !themeNamePattern.MatchString(c.Theme) {
		return pErrors.ConfigInvalid(fmt.Sprintf("theme %q is not a valid theme name", c.Theme))
	}

	c.maxAttachmentBytes = 0
	if c.MaxAttachmentSize != "" {
		n, err := units.RAMInBytes(c.MaxAttachmentSize)
		if err != nil || n < 0 {
			return pErrors.ConfigInvalid(fmt.Sprintf("max_attachment_size %q is not a size", c.MaxAttachmentSize))
		}
		c.maxAttachmentBytes = n
	}

	seen := make(map[string]bool, len(c.Agents))
	for _, a := range c.Agents {
		if a.ID == "" {
			return pErrors.ConfigInvalid("agent with empty id")
		}
		if seen[a.ID] {
			return pErrors.ConfigInvalid(fmt.Sprintf("duplicate agent id: %s", a.ID))
		}
		seen[a.ID] = true
	}

	return nil
}

// FilePath returns the file this config was loaded from.
func (c *Config) FilePath() string {
	return c.filePath
}

// GetAPIURL returns the backend base URL without a trailing slash.
func (c *Config) GetAPIURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.APIURL
}

// SetAPIURL overrides the backend base URL for this run.
func (c *Config) SetAPIURL(u string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.APIURL = strings.TrimRight(u, "/")
}

// GetTheme returns the current theme name.
func (c *Config) GetTheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Theme
}

// SetTheme changes the theme for this run.
func (c *Config) SetTheme(theme string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Theme = theme
}

// GetGreetingEnabled reports whether the chat opens with a greeting turn.
// Defaults to true.
func (c *Config) GetGreetingEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Greeting == nil || *c.Greeting
}

// GetNotificationsEnabled reports whether desktop notifications are on.
func (c *Config) GetNotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Notifications
}

// SetNotificationsEnabled turns desktop notifications on or off for this run.
func (c *Config) SetNotificationsEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Notifications = enabled
}

// GetMaxAttachmentBytes returns the attachment size limit, 0 if unlimited.
func (c *Config) GetMaxAttachmentBytes() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxAttachmentBytes
}

// GetOTelEndpoint returns the OTLP endpoint, empty when tracing is off.
func (c *Config) GetOTelEndpoint() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.OTelEndpoint
}

// GetAgents returns a copy of the configured agent list.
func (c *Config) GetAgents() []AgentRef {
	c.mu.RLock()
	defer c.mu.RUnlock()
	agents := make([]AgentRef, len(c.Agents))
	copy(agents, c.Agents)
	return agents
}
