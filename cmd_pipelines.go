package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

var pipelinesCmd = &cobra.Command{
	Use:   "pipelines",
	Short: "List the available pipelines, their intents and stages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := buildApp(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer a.Close()
		return printPipelines(cmd.OutOrStdout(), a.router.Pipelines())
	},
}

func printPipelines(w io.Writer, infos []contractx.PipelineInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tINTENT\tSTAGES")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.Name, info.Intent, strings.Join(info.Stages, " -> "))
	}
	return tw.Flush()
}
