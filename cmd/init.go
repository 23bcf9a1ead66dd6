package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/manualsite/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize manualsite configuration with an interactive wizard",
	Long:  `Runs an interactive wizard describing the manual to serve and writes a .manualsite.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			fmt.Fprintf(os.Stderr, "Overwriting existing %s\n", cfgFile)
		}
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
