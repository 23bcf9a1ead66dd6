package config

import "time"

// DefaultManualName is the route prefix of the built-in manual.
const DefaultManualName = "manual"

// DefaultManual returns the manual entry used when the config file names none.
func DefaultManual() ManualConfig {
	return ManualConfig{
		Name:             DefaultManualName,
		Title:            "The Deno Manual",
		Owner:            "denoland",
		Repo:             "deno",
		RawBaseURL:       "https://cdn.jsdelivr.net/gh/denoland/deno@{version}/docs",
		ViewBaseURL:      "https://github.com/denoland/deno/blob/{version}/docs",
		DefaultBranch:    "master",
		DefaultPath:      "/introduction",
		VersionPrefix:    "v1",
		ExcludedVersions: []string{"v1.0.0-rc1"},
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".manualsite",
		Server: ServerConfig{
			Port:      8080,
			PublicURL: "http://localhost:8080",
		},
		Manuals: []ManualConfig{DefaultManual()},
		GitHub: GitHubConfig{
			TokenEnv:        "GITHUB_TOKEN",
			RequestsPerHour: 60,
		},
		Cache: CacheConfig{
			Enabled:   true,
			BranchTTL: 10 * time.Minute,
			MaxAge:    7 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:   15 * time.Second,
			UserAgent: "manualsite",
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}
