package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/manualsite/internal/manual"
	"github.com/ziadkadry99/manualsite/internal/registry"
)

var versionsCmd = &cobra.Command{
	Use:   "versions [manual]",
	Short: "List the supported versions of a manual",
	Long:  `Lists the repository tags of a manual, filtered to the versions the site offers.`,
	Args:  cobra.MaximumNArgs(1),
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
		if !entry.HasSource() {
			return fmt.Errorf("manual %q has no source repository configured", entry.Name)
		}

		tags, err := newTagClient(cfg)
		if err != nil {
			return err
		}
		logger.Debug("Listing versions", "owner", entry.Owner, "repo", entry.Repo)
		versions, err := manual.NewVersionListLoader(entry, tags, nil).Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading versions: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (default)\n", entry.DefaultBranch)
		for _, v := range versions {
			fmt.Fprintln(out, v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}
