package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MANUALSITE_*). Nested keys use a double
// underscore: MANUALSITE_SERVER__PORT -> server.port.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("MANUALSITE_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "MANUALSITE_"))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	// A configured manual list replaces the built-in one instead of merging into it.
	if k.Exists("manuals") {
		cfg.Manuals = nil
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.applyManualDefaults()
	return cfg, nil
}

// applyManualDefaults fills fields a manual entry left blank from the
// built-in defaults, so a config only has to name what differs.
func (c *Config) applyManualDefaults() {
	def := DefaultManual()
	for i := range c.Manuals {
		m := &c.Manuals[i]
		if m.Title == "" {
			m.Title = m.Name
		}
		if m.DefaultBranch == "" {
			m.DefaultBranch = def.DefaultBranch
		}
		if m.DefaultPath == "" {
			m.DefaultPath = def.DefaultPath
		}
	}
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validLogFormats is the set of recognized log format values.
var validLogFormats = map[LogFormat]bool{
	LogFormatText: true,
	LogFormatJSON: true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if len(c.Manuals) == 0 {
		return fmt.Errorf("at least one manual is required")
	}

	seen := make(map[string]bool)
	for i, m := range c.Manuals {
		if m.Name == "" {
			return fmt.Errorf("manuals[%d]: name is required", i)
		}
		if strings.ContainsAny(m.Name, "@/") {
			return fmt.Errorf("manuals[%d]: name %q must not contain '@' or '/'", i, m.Name)
		}
		if seen[m.Name] {
			return fmt.Errorf("manuals[%d]: duplicate name %q", i, m.Name)
		}
		seen[m.Name] = true
		if m.RawBaseURL == "" {
			return fmt.Errorf("manuals[%d]: raw_base_url is required", i)
		}
	}

	if c.GitHub.RequestsPerHour < 0 {
		return fmt.Errorf("github.requests_per_hour must be non-negative")
	}
	if c.Cache.BranchTTL < 0 || c.Cache.MaxAge < 0 {
		return fmt.Errorf("cache durations must be non-negative")
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must be non-negative")
	}
	if c.Log.Format != "" && !validLogFormats[c.Log.Format] {
		return fmt.Errorf("invalid log.format %q: must be one of text, json", c.Log.Format)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	return nil
}

// ParseLevel maps a config level name onto a slog level. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return lvl, nil
}

// GitHubToken returns the token named by github.token_env, or "" when unset.
func (c *Config) GitHubToken() string {
	if c.GitHub.TokenEnv == "" {
		return ""
	}
	return os.Getenv(c.GitHub.TokenEnv)
}
