package cmd

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/prefetch"
	"github.com/ziadkadry99/manualsite/internal/progress"
	"github.com/ziadkadry99/manualsite/internal/registry"
)

var warmConcurrency int

var warmCmd = &cobra.Command{
	Use:   "warm [identifier]",
	Short: "Prefetch every page of a manual version into the cache",
	Long: `Loads the table of contents of a manual version and fetches every page
it lists, filling the fetch cache so the site serves them without a
round trip. Missing pages are reported.`,
	Example: `  manualsite warm manual@v1.0.0`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Cache.Enabled {
			return fmt.Errorf("cache is disabled; set cache.enabled to warm it")
		}
		logger, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		reg, err := registry.FromConfig(cfg.Manuals)
		if err != nil {
			return fmt.Errorf("building manual registry: %w", err)
		}
		var token string
		if len(args) > 0 {
			token = args[0]
		}
		entry, err := findManual(reg, token)
		if err != nil {
			return err
		}
		id := manual.Identifier{Name: entry.Name}
		if token != "" {
			if id, err = manual.ParseIdentifier(token); err != nil {
				return err
			}
		}

		database, err := openCache(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		src := newSource(cfg, entry, database, logger, nil)
		reporter := progress.NewReporter()
		var mu sync.Mutex
		warmer := prefetch.NewWarmer(entry.Name, manual.NewTOCLoader(src), manual.NewContentFetcher(src), warmConcurrency,
			func(done, total int, path string) {
				mu.Lock()
				defer mu.Unlock()
				reporter.Update(done, path)
			}, logger)

		pages, err := warmer.Pages(cmd.Context(), id.Version)
		if err != nil {
			return fmt.Errorf("warming %s: %w", id, err)
		}
		reporter.Start(pages.Len(), "Warming "+id.String())
		res, err := warmer.Warm(cmd.Context(), id.Version)
		reporter.Finish()
		if err != nil {
			return fmt.Errorf("warming %s: %w", id, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Cached %d pages of %s\n", len(res.Pages)-len(res.Missing), id)
		for _, p := range res.Missing {
			fmt.Fprintf(cmd.OutOrStdout(), "  missing: %s\n", p)
		}
		return nil
	},
}

func init() {
	warmCmd.Flags().IntVarP(&warmConcurrency, "concurrency", "c", 4, "pages fetched in parallel")
	rootCmd.AddCommand(warmCmd)
}
