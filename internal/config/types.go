package config

import "time"

// LogFormat selects the slog handler used by the CLI.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config is the top-level manualsite configuration, corresponding to .manualsite.yml.
type Config struct {
	DataDir string         `yaml:"data_dir" koanf:"data_dir"`
	Server  ServerConfig   `yaml:"server" koanf:"server"`
	Manuals []ManualConfig `yaml:"manuals" koanf:"manuals"`
	GitHub  GitHubConfig   `yaml:"github" koanf:"github"`
	Cache   CacheConfig    `yaml:"cache" koanf:"cache"`
	HTTP    HTTPConfig     `yaml:"http" koanf:"http"`
	Log     LogConfig      `yaml:"log" koanf:"log"`
}

// ServerConfig holds settings for `manualsite serve`.
type ServerConfig struct {
	Port            int    `yaml:"port" koanf:"port"`
	PublicURL       string `yaml:"public_url" koanf:"public_url"`
	AllowAllOrigins bool   `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ManualConfig describes one versioned manual and where its sources live.
//
// RawBaseURL and ViewBaseURL may contain the {version} placeholder, which is
// replaced with the requested version or DefaultBranch.
type ManualConfig struct {
	Name             string   `yaml:"name" koanf:"name"`
	Title            string   `yaml:"title" koanf:"title"`
	Owner            string   `yaml:"owner" koanf:"owner"`
	Repo             string   `yaml:"repo" koanf:"repo"`
	RawBaseURL       string   `yaml:"raw_base_url" koanf:"raw_base_url"`
	ViewBaseURL      string   `yaml:"view_base_url" koanf:"view_base_url"`
	DefaultBranch    string   `yaml:"default_branch" koanf:"default_branch"`
	DefaultPath      string   `yaml:"default_path" koanf:"default_path"`
	VersionPrefix    string   `yaml:"version_prefix" koanf:"version_prefix"`
	ExcludedVersions []string `yaml:"excluded_versions" koanf:"excluded_versions"`
}

// GitHubConfig controls access to the tag listing API used for version catalogs.
type GitHubConfig struct {
	BaseURL         string `yaml:"base_url" koanf:"base_url"`
	TokenEnv        string `yaml:"token_env" koanf:"token_env"`
	RequestsPerHour int    `yaml:"requests_per_hour" koanf:"requests_per_hour"`
}

// CacheConfig controls the sqlite fetch cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" koanf:"enabled"`
	BranchTTL time.Duration `yaml:"branch_ttl" koanf:"branch_ttl"`
	MaxAge    time.Duration `yaml:"max_age" koanf:"max_age"`
}

// HTTPConfig holds outbound HTTP client settings.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout" koanf:"timeout"`
	UserAgent string        `yaml:"user_agent" koanf:"user_agent"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}
