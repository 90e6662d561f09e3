package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anvithk/KnowledgeAPI/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default the server communicates over stdio using JSON-RPC. Use
--port to serve HTTP instead, which enables testing with the MCP
Inspector web UI and remote access.

Examples:
  # Stdio mode (default)
  assistant mcp serve

  # HTTP mode
  assistant mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx := cmd.Context()

	idx, err := newIndexer(ctx)
	if err != nil {
		return err
	}
	qa, err := newResponder(ctx)
	if err != nil {
		return err
	}

	server, err := mcpserver.NewServer(&mcpserver.Ports{
		Indexer:   idx,
		Responder: qa,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
