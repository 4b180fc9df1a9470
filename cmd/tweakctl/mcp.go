// Package main provides the mcp command.
package main

import (
	"github.com/spf13/cobra"

	"github.com/javapro/tweakctl/internal/mcp"
)

// mcpCmd serves the tweak and device tools over MCP on stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve tweakctl tools to an MCP client over stdio",
	Long: `Serve tweakctl tools to an MCP client over stdio.

Point an MCP-capable assistant at 'tweakctl mcp' to let it list and toggle
tweaks, manage per-app profiles and the game list, read the frame rate and
run root shell commands.

Logs go to stderr; stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	return mcp.NewServer(a, version).Run(cmd.Context())
}
