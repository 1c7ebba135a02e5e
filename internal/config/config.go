package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stratum-ui/stratum/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "stratum.json"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"
)

// Config represents the complete stratum.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Host is the host to bind the server to.
	Host string `json:"host,omitempty"`

	// Port is the server port.
	Port int `json:"port,omitempty"`

	// Document is the path to the initial host document (HTML).
	Document string `json:"document,omitempty"`

	// Static is the directory served for static assets and fragments.
	// Empty disables static serving.
	Static string `json:"static,omitempty"`

	// Source selects where fragments are fetched from.
	Source SourceConfig `json:"source,omitempty"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"logLevel,omitempty"`

	// path is where this config was loaded from (not serialized).
	path string
}

// SourceConfig selects and configures the fragment source.
type SourceConfig struct {
	// Kind is "http" or "s3".
	Kind string `json:"kind,omitempty"`

	// BaseURL is the origin fragments are fetched from (http kind).
	BaseURL string `json:"baseUrl,omitempty"`

	// Bucket and Prefix locate pre-rendered fragments (s3 kind).
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region for the s3 kind. Empty uses the SDK default
	// resolution chain.
	Region string `json:"region,omitempty"`
}

// New returns a config with defaults applied.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads stratum.json from the given directory. A missing file yields
// the defaults.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads the configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := New()
			c.path = path
			return c, nil
		}
		return nil, errors.Wrap("E201", err)
	}

	c := &Config{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap("E202", err)
	}
	c.path = path
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns where this config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// applyDefaults fills zero values with defaults.
func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Source.Kind == "" {
		c.Source.Kind = "http"
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.Newf("E203", "port %d out of range", c.Port)
	}
	switch c.Source.Kind {
	case "http":
		// BaseURL may be empty; the server then resolves fragment URLs
		// against its own static mount.
	case "s3":
		if c.Source.Bucket == "" {
			return errors.Newf("E203", "s3 source needs a bucket")
		}
	default:
		return errors.Newf("E203", "unknown source kind %q", c.Source.Kind)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf("E203", "unknown log level %q", c.LogLevel)
	}
	return nil
}

// Address returns the host:port the server binds to.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
