package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/descheck/internal/adapters/driving/mcp"
	"github.com/custodia-labs/descheck/internal/logger"
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

The server offers the verify_description, generate_description and
list_files tools, and the descheck://history resources when run history
is enabled. Tool calls use the stored login session.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve streamable HTTP instead, and --metrics-port to expose Prometheus
metrics for the pipeline.

Examples:
  # Stdio mode (default)
  descheck mcp serve

  # HTTP mode with metrics
  descheck mcp serve --port 8080 --metrics-port 9090

MCP client configuration:
  {
    "mcpServers": {
      "descheck": {
        "command": "/path/to/descheck",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Int("metrics-port", 0, "serve Prometheus metrics on this port (0 = off)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	metricsPort, err := cmd.Flags().GetInt("metrics-port")
	if err != nil {
		return fmt.Errorf("getting metrics-port flag: %w", err)
	}

	ports := &mcp.Ports{
		Pipeline: pipelineService,
		Files:    fileService,
		History:  historyService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)

	if metricsPort > 0 {
		if metricsHandler == nil {
			return fmt.Errorf("metrics: %w", ErrNotConfigured)
		}
		addr := fmt.Sprintf(":%d", metricsPort)
		go func() {
			if err := mcp.ServeMetrics(ctx, addr, metricsHandler); err != nil {
				logger.Warn("metrics server stopped: %v", err)
			}
		}()
		logger.Info("metrics listening on http://localhost%s/metrics", addr)
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
