package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tanpawarit/weather-insights-advisor/agent/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve run_pipeline and list_pipelines as MCP tools over stdio",
	Long: `Starts an MCP server over stdin/stdout. Logs go to stderr so they never
corrupt the protocol stream.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	svc, err := mcptools.NewService(a.router)
	if err != nil {
		return err
	}
	a.logger.Info().Msg("starting MCP server over stdio")
	return mcptools.RunStdio(cmd.Context(), mcptools.NewServer(svc, version))
}
