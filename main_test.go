package main

import (
	"bytes"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

func TestPrintPipelines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := printPipelines(&buf, []contractx.PipelineInfo{
		{Name: "forecast_pipeline", Intent: contractx.IntentForecast, Stages: []string{"geocoding_agent", "forecast_retriever", "forecast_formatter"}},
	})
	if err != nil {
		t.Fatalf("printPipelines() error = %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "NAME") {
		t.Fatalf("missing header: %q", out)
	}
	if !strings.Contains(out, "geocoding_agent -> forecast_retriever -> forecast_formatter") {
		t.Fatalf("stages not listed: %q", out)
	}
}

func TestRootRegistersCommands(t *testing.T) {
	t.Parallel()

	want := map[string]bool{"run": false, "serve": false, "mcp": false, "pipelines": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("command %s is not registered", name)
		}
	}
	if rootCmd.PersistentFlags().Lookup("env") == nil {
		t.Fatal("--env flag is not registered")
	}
}
