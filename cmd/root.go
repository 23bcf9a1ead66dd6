package cmd

import "github.com/spf13/cobra"

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "manualsite",
	Short: "Versioned manual site and terminal reader",
	Long: `manualsite serves versioned technical manuals whose markdown sources
live in a remote repository. It resolves the requested version and
page, builds the table of contents and drives navigation, either in
the browser (serve) or in the terminal (read).`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".manualsite.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
