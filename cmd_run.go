package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	routerx "github.com/tanpawarit/weather-insights-advisor/agent/agents/router"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

var runFlags struct {
	pipeline string
	radius   int
	state    string
	county   string
	location string
	category int
	debug    bool
}

var runCmd = &cobra.Command{
	Use:   "run [flags] <request text>",
	Short: "Run one request through a pipeline and print the result as JSON",
	Example: `  weatherctl run "What's the weather forecast for Miami, FL?"
  weatherctl run --pipeline emergency_resources_pipeline --radius 8000 "Find shelters near Tampa, FL"
  weatherctl run --state FL --category 4 "Hurricane approaching"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runFlags.pipeline, "pipeline", routerx.Auto, "pipeline name or intent; auto routes by intent")
	f.IntVar(&runFlags.radius, "radius", 0, "search radius in meters for emergency resources")
	f.StringVar(&runFlags.state, "state", "", "two-letter state code hint")
	f.StringVar(&runFlags.county, "county", "", "county name hint")
	f.StringVar(&runFlags.location, "location", "", "location hint, for example \"Tampa, FL\"")
	f.IntVar(&runFlags.category, "category", 0, "hurricane category hint (1-5)")
	f.BoolVar(&runFlags.debug, "debug", false, "include the shared state in the output")
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := buildApp(cmd.Context(), os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	hints := contractx.Hints{
		Location:          runFlags.location,
		StateCode:         strings.ToUpper(strings.TrimSpace(runFlags.state)),
		County:            runFlags.county,
		RadiusMeters:      runFlags.radius,
		HurricaneCategory: runFlags.category,
	}
	if hints.StateCode != "" {
		hints.AffectedStates = []string{hints.StateCode}
	}

	ctx := cmd.Context()
	if a.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.RunTimeout)
		defer cancel()
	}

	res := a.router.RunPipeline(ctx, runFlags.pipeline, strings.Join(args, " "), hints)
	if !runFlags.debug {
		res.State = nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("%s: %s", res.Kind, res.Message)
	}
	return nil
}
