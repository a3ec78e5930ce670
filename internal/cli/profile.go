package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"imagestudio/internal/domain"
)

// Duration is a time.Duration that reads and writes as "3s" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Profile holds the studio's persisted settings.
type Profile struct {
	ServerURL    string   `yaml:"server_url"`
	OutputDir    string   `yaml:"output_dir"`
	PollInterval Duration `yaml:"poll_interval"`
	DefaultScale string   `yaml:"default_scale"`
	LogLevel     string   `yaml:"log_level"`
}

// DefaultProfile returns the settings used when no file exists.
func DefaultProfile() *Profile {
	out := "."
	if home, err := os.UserHomeDir(); err == nil {
		out = filepath.Join(home, "Downloads")
	}
	return &Profile{
		ServerURL:    "http://localhost:5000",
		OutputDir:    out,
		PollInterval: Duration(3 * time.Second),
		DefaultScale: domain.DefaultScale,
		LogLevel:     "info",
	}
}

// DefaultProfilePath is $XDG_CONFIG_HOME/imagestudio/config.yaml, falling
// back to the platform config dir.
func DefaultProfilePath(getenv func(string) string) string {
	base := getenv("XDG_CONFIG_HOME")
	if base == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "config.yaml"
		}
		base = dir
	}
	return filepath.Join(base, "imagestudio", "config.yaml")
}

// LoadProfile reads path over the defaults. A missing file is not an error.
// STUDIO_SERVER_URL and STUDIO_OUTPUT_DIR override the file.
func LoadProfile(path string, getenv func(string) string) (*Profile, error) {
	p := DefaultProfile()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, p); err != nil {
				return nil, fmt.Errorf("failed to parse profile: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to read profile: %w", err)
		}
	}

	if v := getenv("STUDIO_SERVER_URL"); v != "" {
		p.ServerURL = v
	}
	if v := getenv("STUDIO_OUTPUT_DIR"); v != "" {
		p.OutputDir = v
	}
	return p, p.Validate()
}

// Validate rejects settings the studio cannot run with.
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.ServerURL) == "" {
		return fmt.Errorf("server_url is required")
	}
	if p.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if !domain.ValidScale(p.DefaultScale) {
		return fmt.Errorf("unsupported default_scale %q", p.DefaultScale)
	}
	return nil
}
