package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/registry"
)

var pagesJSON bool

var pagesCmd = &cobra.Command{
	Use:   "pages [identifier]",
	Short: "Print the page sequence of a manual",
	Long: `Loads the table of contents of a manual version and prints its pages
in navigation order. Child pages are indented under their section.`,
	Example: `  manualsite pages manual@v1.0.0`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
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
		var version string
		if token != "" {
			id, err := manual.ParseIdentifier(token)
			if err != nil {
				return err
			}
			version = id.Version
		}

		database, err := openCache(cfg)
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
		}

		src := newSource(cfg, entry, database, logger, nil)
		toc, err := manual.NewTOCLoader(src).Load(cmd.Context(), version)
		if err != nil {
			return fmt.Errorf("loading table of contents: %w", err)
		}
		pages := manual.Flatten(entry.Name, toc)

		out := cmd.OutOrStdout()
		if pagesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(pages)
		}
		for _, p := range pages.Pages {
			indent := ""
			if strings.Count(p.DocPath, "/") > 1 {
				indent = "  "
			}
			fmt.Fprintf(out, "%s%-32s %s\n", indent, p.Name, pages.Href(p, version))
		}
		return nil
	},
}

func init() {
	pagesCmd.Flags().BoolVar(&pagesJSON, "json", false, "print the page list as JSON")
	rootCmd.AddCommand(pagesCmd)
}
