package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/circle-ransac/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdin/stdout",
	Long: `Run a JSON-RPC 2.0 MCP server over stdio, one request per line.
Configure it in an MCP client; set CIRCLE_RANSAC_LOG_LEVEL=debug for
detector progress on stderr.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	server.Version = Version

	srv := server.New()
	srv.Logger = debugLogger()
	return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
}
