package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set via ldflags at build time
var Version = "dev"

// @title Multiversion API
// @version 1.0
// @description Workspace add and edit forms
// @host localhost:8470
// @BasePath /api/v1

var configFile string

var rootCmd = &cobra.Command{
	Use:   "multiversion",
	Short: "multiversion - manage content workspaces",
	Long:  `multiversion creates, edits and serves the workspaces content versions are tracked in.`,
	Example: `  # Create a workspace and list all of them
  multiversion workspace add "Staging"
  multiversion workspace list

  # Run the HTTP API
  multiversion serve --port 8470`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default: ./config.yaml or /etc/multiversion/config.yaml)")

	rootCmd.AddCommand(workspaceCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
