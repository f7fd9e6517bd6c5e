package main

import (
	"github.com/nebari-dev/multiversion/internal/server"
	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the workspace API server",
	Long: `Start the HTTP API for adding, editing and deleting workspaces.

Examples:
  multiversion serve                  # Use config defaults
  multiversion serve --port 8080      # Override port

Environment variables:
  MULTIVERSION_SERVER_PORT         Server port (default: 8470)
  MULTIVERSION_DATABASE_DRIVER     Database driver: sqlite, postgres
  MULTIVERSION_DATABASE_DSN        Database connection string
  MULTIVERSION_FLASH_TYPE          Flash message store: memory, valkey
  MULTIVERSION_FLASH_VALKEY_ADDR   Valkey address for the flash store`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run server on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	return server.RunWithSignalHandling(server.Config{
		Port:       servePort,
		ConfigFile: configFile,
		Version:    Version,
	})
}
