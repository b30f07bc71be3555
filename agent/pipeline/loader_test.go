package pipeline

import (
	"context"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	schemax "github.com/tanpawarit/weather-insights-advisor/agent/schema"
)

const sampleYAML = `
pipelines:
  - name: demo_pipeline
    description: Demo.
    intent: forecast
    stages:
      - name: locate
        instruction: Find the place.
        tools: [geocode_address]
        output_key: location_data
        output_schema: Location
        task: locate
      - name: summarize
        output_key: summary
        task: summarize
`

func stubFactory(spec StageSpec) (Task, error) {
	return TaskFunc(func(context.Context, *Env) (any, error) { return spec.Task, nil }), nil
}

func TestLoadBuildsDefinitions(t *testing.T) {
	t.Parallel()

	schemas := schemax.NewSet(schemax.New("Location", "", schemax.Number("latitude", "")))
	defs, err := Load([]byte(sampleYAML), stubFactory, schemas)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(defs) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(defs))
	}
	def := defs[0]
	if def.Intent != contractx.IntentForecast || strings.Join(def.StageNames(), ",") != "locate,summarize" {
		t.Fatalf("unexpected definition: %+v", def.Info())
	}
	if def.Stages[0].OutputSchema == nil || def.Stages[0].OutputSchema.Name != "Location" {
		t.Fatal("schema not resolved")
	}
	if def.Stages[0].Tools[0] != "geocode_address" {
		t.Fatalf("unexpected tools: %v", def.Stages[0].Tools)
	}
}

func TestLoadRejectsUnknownSchemaAndFields(t *testing.T) {
	t.Parallel()

	if _, err := Load([]byte(sampleYAML), stubFactory, schemax.NewSet()); err == nil {
		t.Fatal("expected unknown schema error")
	}
	bad := strings.Replace(sampleYAML, "task: summarize", "task: summarize\n        retries: 3", 1)
	if _, err := Load([]byte(bad), stubFactory, schemax.NewSet(schemax.New("Location", ""))); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestLoadRejectsUnknownIntent(t *testing.T) {
	t.Parallel()

	bad := strings.Replace(sampleYAML, "intent: forecast", "intent: astrology", 1)
	if _, err := Load([]byte(bad), stubFactory, schemax.NewSet(schemax.New("Location", ""))); err == nil {
		t.Fatal("expected unknown intent error")
	}
}
