package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/manualsite/internal/navigation"
	"github.com/ziadkadry99/manualsite/internal/registry"
	"github.com/ziadkadry99/manualsite/internal/site"
	"github.com/ziadkadry99/manualsite/internal/tui"
)

var readLogFile string

var readCmd = &cobra.Command{
	Use:   "read [identifier] [path...]",
	Short: "Read a manual in the terminal",
	Long: `Opens a manual in an interactive terminal reader. The identifier is a
manual name, optionally pinned to a version (manual@v1.2.0); the path
names the document (e.g. getting_started/installation).`,
	Example: `  manualsite read
  manualsite read manual@v1.0.0 getting_started`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// The reader owns the terminal, so logs go to a file or nowhere.
		var logOut io.Writer = io.Discard
		if readLogFile != "" {
			if err := os.MkdirAll(filepath.Dir(readLogFile), 0o755); err != nil {
				return fmt.Errorf("creating log directory: %w", err)
			}
			f, err := os.OpenFile(readLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("opening log file: %w", err)
			}
			defer f.Close()
			logOut = f
		}
		logger, err := newLogger(cfg, logOut)
		if err != nil {
			return err
		}

		reg, err := registry.FromConfig(cfg.Manuals)
		if err != nil {
			return fmt.Errorf("building manual registry: %w", err)
		}
		var token string
		var segments []string
		if len(args) > 0 {
			token, segments = args[0], args[1:]
		}
		entry, err := findManual(reg, token)
		if err != nil {
			return err
		}
		if token == "" {
			token = entry.Name
		}
		route, err := tui.RouteFor(token, segments, entry.DefaultPath)
		if err != nil {
			return err
		}

		database, err := openCache(cfg)
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
		}
		tags, err := newTagClient(cfg)
		if err != nil {
			return err
		}
		m := site.NewManual(newSource(cfg, entry, database, logger, nil), tags, versionCatalogTTL)

		return tui.Run(cmd.Context(), navigation.Deps{
			Entry:    m.Entry,
			TOC:      m.TOC,
			Content:  m.Content,
			Versions: m.Versions,
			Logger:   logger,
		}, route)
	},
}

func init() {
	readCmd.Flags().StringVar(&readLogFile, "log-file", "", "write logs to this file while reading")
	rootCmd.AddCommand(readCmd)
}
