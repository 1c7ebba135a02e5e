package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stratum-ui/stratum/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Host != DefaultHost || c.Port != DefaultPort {
		t.Errorf("defaults = %s:%d", c.Host, c.Port)
	}
	if c.LogLevel != "info" || c.Source.Kind != "http" {
		t.Errorf("defaults = %q %q", c.LogLevel, c.Source.Kind)
	}
}

func TestLoadFileAppliesValues(t *testing.T) {
	path := writeConfig(t, `{
		"name": "demo",
		"port": 8080,
		"logLevel": "debug",
		"source": {"kind": "s3", "bucket": "frags", "prefix": "v1/"}
	}`)

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if c.Name != "demo" || c.Port != 8080 {
		t.Errorf("config = %+v", c)
	}
	if c.Host != DefaultHost {
		t.Error("unset fields must keep their defaults")
	}
	if c.Source.Bucket != "frags" || c.Source.Prefix != "v1/" {
		t.Errorf("source = %+v", c.Source)
	}
	if c.Path() != path {
		t.Errorf("path = %q", c.Path())
	}
}

func TestLoadFileRejectsBadJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)

	_, err := LoadFile(path)
	if !stderrors.Is(err, errors.New("E202")) {
		t.Errorf("err = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"port too low", func(c *Config) { c.Port = 0 }, false},
		{"port too high", func(c *Config) { c.Port = 70000 }, false},
		{"s3 without bucket", func(c *Config) { c.Source = SourceConfig{Kind: "s3"} }, false},
		{"s3 with bucket", func(c *Config) { c.Source = SourceConfig{Kind: "s3", Bucket: "b"} }, true},
		{"unknown kind", func(c *Config) { c.Source.Kind = "ftp" }, false},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.mutate(c)
			err := c.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !tt.ok {
				if !stderrors.Is(err, errors.New("E203")) {
					t.Errorf("err = %v, want E203", err)
				}
			}
		})
	}
}

func TestAddress(t *testing.T) {
	c := New()
	c.Host = "0.0.0.0"
	c.Port = 8080
	if got := c.Address(); got != "0.0.0.0:8080" {
		t.Errorf("Address = %q", got)
	}
}
