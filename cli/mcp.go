// ABOUTME: MCP server subcommand
// ABOUTME: Serves the CRM tools, resources, and prompts over stdio
package cli

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/yongu/app"
	"github.com/harperreed/yongu/handlers"
)

// MCPCommand starts the MCP server on stdio. Logs must stay off stdout.
func MCPCommand(ctx context.Context, ctrl *app.Controller, logger *log.Logger, version string) error {
	logger.Info("starting MCP server", "store", ctrl.Store().Describe())
	server := handlers.NewServer(ctrl, version)
	return server.Run(ctx, &mcp.StdioTransport{})
}
