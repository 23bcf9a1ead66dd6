package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/manualsite/internal/mcp"
	"github.com/ziadkadry99/manualsite/internal/registry"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing tools that list manuals and versions, and read tables of contents and pages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// Stdout carries the protocol; logs go to stderr.
		logger, err := newLogger(cfg, os.Stderr)
		if err != nil {
			return err
		}
		reg, err := registry.FromConfig(cfg.Manuals)
		if err != nil {
			return fmt.Errorf("building manual registry: %w", err)
		}

		database, err := openCache(cfg)
		if err != nil {
			return err
		}
		if database != nil {
			defer database.Close()
		}
		manuals, err := buildManuals(cfg, reg, database, logger, nil)
		if err != nil {
			return err
		}

		mcpserver.Version = Version
		logger.Info("manualsite MCP server started on stdio", "manuals", reg.Names())

		return mcpserver.NewServer(manuals).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
