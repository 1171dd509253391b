package cmd

import (
	"github.com/huangsam/cigate/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the cigate MCP server",
	Long:  `Launch an MCP server that allows AI agents to scan CI artifacts and evaluate the gate via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdio carries the protocol, so nothing may be printed during setup
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}
