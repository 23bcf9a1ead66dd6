package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/ziadkadry99/manualsite/internal/cache"
	"github.com/ziadkadry99/manualsite/internal/config"
	"github.com/ziadkadry99/manualsite/internal/db"
	"github.com/ziadkadry99/manualsite/internal/github"
	"github.com/ziadkadry99/manualsite/internal/logfields"
	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/metrics"
	"github.com/ziadkadry99/manualsite/internal/registry"
	"github.com/ziadkadry99/manualsite/internal/site"
)

// versionCatalogTTL is how long a listed version catalog is reused.
const versionCatalogTTL = 15 * time.Minute

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `manualsite init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger from config; --verbose forces debug.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}
	return logfields.NewLogger(w, string(cfg.Log.Format), level), nil
}

// openCache opens the fetch cache database under the data dir. It returns
// nil when caching is disabled.
func openCache(cfg *config.Config) (*db.DB, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}
	path := filepath.Join(cfg.DataDir, "manualsite.db")
	database, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database %s: %w", path, err)
	}
	return database, nil
}

// newSource builds the loader source of one manual. database may be nil.
func newSource(cfg *config.Config, entry registry.Entry, database *db.DB, logger *slog.Logger, rec metrics.Recorder) *manual.Source {
	src := &manual.Source{
		Entry:     entry,
		Client:    &http.Client{Timeout: cfg.HTTP.Timeout},
		BranchTTL: cfg.Cache.BranchTTL,
		Metrics:   rec,
		Logger:    logger.With(logfields.Manual(entry.Name)),
		UserAgent: cfg.HTTP.UserAgent,
	}
	if database != nil {
		src.Cache = cache.NewStore(database)
	}
	return src
}

// newTagClient creates the GitHub client listing version tags.
func newTagClient(cfg *config.Config) (*github.Client, error) {
	client, err := github.NewClient(github.Options{
		Token:           cfg.GitHubToken(),
		BaseURL:         cfg.GitHub.BaseURL,
		RequestsPerHour: cfg.GitHub.RequestsPerHour,
		HTTPClient:      &http.Client{Timeout: cfg.HTTP.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("creating github client: %w", err)
	}
	return client, nil
}

// buildManuals wires the loaders of every registered manual.
func buildManuals(cfg *config.Config, reg *registry.Registry, database *db.DB, logger *slog.Logger, rec metrics.Recorder) ([]*site.Manual, error) {
	tags, err := newTagClient(cfg)
	if err != nil {
		return nil, err
	}
	var manuals []*site.Manual
	for _, name := range reg.Names() {
		entry, err := reg.Find(name)
		if err != nil {
			return nil, err
		}
		src := newSource(cfg, entry, database, logger, rec)
		manuals = append(manuals, site.NewManual(src, tags, versionCatalogTTL))
	}
	return manuals, nil
}

// findManual returns the manual named by an identifier token, or the first
// registered manual when the token is empty.
func findManual(reg *registry.Registry, token string) (registry.Entry, error) {
	if token == "" {
		return reg.Find(reg.Names()[0])
	}
	id, err := manual.ParseIdentifier(token)
	if err != nil {
		return registry.Entry{}, err
	}
	return reg.Find(id.Name)
}
