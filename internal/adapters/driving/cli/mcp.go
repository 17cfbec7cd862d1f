package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scrutiny/internal/adapters/driving/mcp"
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

Tools:
  load_corpus         ingest a syllabus and optional textbooks
  search_corpus       nearest chunks for a query
  validate_questions  scrutinise questions against the loaded corpus

By default, the server communicates over stdio using JSON-RPC. Use --port
to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  scrutiny mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  scrutiny mcp serve --port 8080

Desktop assistant configuration:
  {
    "mcpServers": {
      "scrutiny": {
        "command": "/path/to/scrutiny",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Annotations: aiAnnotation(),
	RunE:        runMCPServe,
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
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	server, err := mcp.NewServer(&mcp.Ports{Session: sessionService})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
