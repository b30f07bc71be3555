package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	configx "github.com/tanpawarit/weather-insights-advisor/pkg/config"
)

// version is set at build time via -ldflags.
var version = "dev"

var envFile string

var rootCmd = &cobra.Command{
	Use:   "weatherctl",
	Short: "Weather insights pipelines over NWS, Google Maps and public data",
	Long: "weatherctl runs weather insight pipelines (forecast, alerts, risk analysis,\n" +
		"emergency resources and hurricane analysis) from the command line, over HTTP or as an MCP server.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		configx.SetEnvFile(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file (default: ./.env when present)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(pipelinesCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
