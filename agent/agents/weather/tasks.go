package weather

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
)

// Stage output keys shared between the YAML definitions and the tasks that
// read earlier results.
const (
	KeyLocationData        = "location_data"
	KeyForecastBundle      = "forecast_bundle"
	KeyForecastSummary     = "forecast_summary"
	KeyAlertsData          = "alerts_data"
	KeyFormattedAlerts     = "formatted_alerts"
	KeyAlertMap            = "alert_map"
	KeyFinalSummary        = "final_summary"
	KeyAlertData           = "alert_data"
	KeyCensusData          = "census_data"
	KeyRiskScores          = "risk_scores"
	KeyRiskAnalysisSummary = "risk_analysis_summary"
	KeyFacilities          = "facilities"
	KeyRoutes              = "routes"
	KeyResourcesSummary    = "resources_summary"
	KeyHurricaneData       = "hurricane_data"
	KeyEvacuationPlan      = "evacuation_plan"
	KeyStationData         = "station_data"
	KeyHistoryBundle       = "history_bundle"
	KeyHistorySummary      = "history_summary"
)

type taskFn func(ctx context.Context, env *pipelinex.Env) (any, error)

// Tasks are the scripted stage implementations. Insight prose comes from the
// generator when one is configured and from fixed templates otherwise.
type Tasks struct {
	insights contractx.Generator
}

func NewTasks(insights contractx.Generator) *Tasks {
	return &Tasks{insights: insights}
}

func (t *Tasks) registry() map[string]taskFn {
	return map[string]taskFn{
		"geocode_location":         t.geocodeLocation,
		"retrieve_forecast":        t.retrieveForecast,
		"format_forecast":          t.formatForecast,
		"retrieve_alerts":          t.retrieveAlerts,
		"format_alerts":            t.formatAlerts,
		"generate_alert_map":       t.generateAlertMap,
		"synthesize_alerts":        t.synthesizeAlerts,
		"retrieve_risk_alerts":     t.retrieveRiskAlerts,
		"retrieve_census":          t.retrieveCensus,
		"calculate_risk":           t.calculateRisk,
		"generate_recommendations": t.generateRecommendations,
		"find_resources":           t.findResources,
		"calculate_routes":         t.calculateRoutes,
		"format_resources":         t.formatResources,
		"profile_hurricane":        t.profileHurricane,
		"coordinate_evacuation":    t.coordinateEvacuation,
		"find_stations":            t.findStations,
		"retrieve_history":         t.retrieveHistory,
		"format_history":           t.formatHistory,
	}
}

// Names lists the task identifiers the factory understands.
func (t *Tasks) Names() []string {
	out := make([]string, 0, len(t.registry()))
	for name := range t.registry() {
		out = append(out, name)
	}
	return out
}

func (t *Tasks) Factory() pipelinex.TaskFactory {
	registry := t.registry()
	return func(spec pipelinex.StageSpec) (pipelinex.Task, error) {
		fn, ok := registry[spec.Task]
		if !ok {
			return nil, fmt.Errorf("unknown task %q", spec.Task)
		}
		return pipelinex.TaskFunc(fn), nil
	}
}

// insight asks the generator for prose about payload and falls back to the
// template text when no generator is configured or it fails.
func (t *Tasks) insight(ctx context.Context, env *pipelinex.Env, payload any, fallback string) string {
	if t.insights == nil {
		return fallback
	}
	text, err := t.insights.Generate(ctx, env.Stage.Instruction, payload)
	if err != nil {
		logger := env.Logger()
		logger.Warn().Err(err).Msg("insight generation failed, using template")
		return fallback
	}
	if text = strings.TrimSpace(text); text == "" {
		return fallback
	}
	return text
}

func callAs[T any](ctx context.Context, env *pipelinex.Env, tool string, args map[string]any) (T, error) {
	out, err := env.CallTool(ctx, tool, args)
	if err != nil {
		var zero T
		return zero, err
	}
	return statex.Convert[T](out)
}

func tryAs[T any](ctx context.Context, env *pipelinex.Env, tool string, args map[string]any) (T, bool) {
	var zero T
	out, ok := env.TryTool(ctx, tool, args)
	if !ok {
		return zero, false
	}
	v, err := statex.Convert[T](out)
	if err != nil {
		return zero, false
	}
	return v, true
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", contractx.ErrValidation, fmt.Sprintf(format, args...))
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func appendUnique(list []string, seen map[string]bool, values ...string) []string {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		list = append(list, v)
	}
	return list
}
