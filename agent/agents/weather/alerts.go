package weather

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	toolx "github.com/tanpawarit/weather-insights-advisor/agent/tool"
	"github.com/tanpawarit/weather-insights-advisor/pkg/usgeo"
)

const (
	shortDescriptionLimit = 150
	maxMapZones           = 10
)

var severityRank = map[string]int{
	"extreme":  4,
	"severe":   3,
	"moderate": 2,
	"minor":    1,
}

func rankOf(severity string) int {
	return severityRank[strings.ToLower(severity)]
}

// retrieveAlerts scopes the query to a state when one is named, to the
// caller's point when coordinates are hinted, and to the whole country
// otherwise.
func (t *Tasks) retrieveAlerts(ctx context.Context, env *pipelinex.Env) (any, error) {
	req := env.Request
	args := map[string]any{}
	if code := StateCode(req); code != "" {
		args["state"] = code
	} else if lat, lng, ok := req.Hints.Coordinates(); ok {
		args["latitude"] = lat
		args["longitude"] = lng
	}
	if req.Hints.Severity != "" {
		args["severity"] = req.Hints.Severity
	}
	return callAs[toolx.AlertsData](ctx, env, toolx.ToolGetAlerts, args)
}

func (t *Tasks) formatAlerts(ctx context.Context, env *pipelinex.Env) (any, error) {
	data, err := statex.Decode[toolx.AlertsData](env.State, KeyAlertsData)
	if err != nil {
		return nil, err
	}
	out := FormatAlerts(data.Alerts)
	out.Insights = t.insight(ctx, env, out, alertsInsight(data, out))
	return out, nil
}

// FormatAlerts orders alerts most severe first and derives the counts and
// location list. Insights are left for the caller.
func FormatAlerts(alerts []toolx.AlertItem) AlertsFormatterOutput {
	sorted := append([]toolx.AlertItem(nil), alerts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rankOf(sorted[i].Severity) > rankOf(sorted[j].Severity)
	})

	out := AlertsFormatterOutput{
		Alerts:    make([]AlertDetail, 0, len(sorted)),
		Locations: []string{},
	}
	seen := map[string]bool{}
	for _, a := range sorted {
		out.Alerts = append(out.Alerts, AlertDetail{
			Event:            a.Event,
			Severity:         a.Severity,
			Headline:         a.Headline,
			Description:      a.Description,
			DescriptionShort: shorten(a.Description, shortDescriptionLimit),
			AffectedZones:    nonNil(a.AffectedZones),
			StartTime:        formatTime(a.Onset),
			EndTime:          formatTime(a.Expires),
		})
		if rankOf(a.Severity) >= severityRank["severe"] {
			out.SevereCount++
		}
		out.Locations = appendUnique(out.Locations, seen, strings.Split(a.AreaDesc, ";")...)
	}
	out.TotalCount = len(out.Alerts)
	return out
}

func shorten(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func alertsInsight(data toolx.AlertsData, out AlertsFormatterOutput) string {
	area := "the United States"
	if data.StateCode != "" {
		area = data.StateCode
		if s, ok := usgeo.LookupState(data.StateCode); ok {
			area = s.Name
		}
	}
	if out.TotalCount == 0 {
		return fmt.Sprintf("No active weather alerts for %s. Conditions are quiet; keep monitoring local forecasts.", area)
	}
	top := out.Alerts[0]
	msg := fmt.Sprintf("%d active alert(s) for %s, %d severe or extreme. Most serious: %s (%s).",
		out.TotalCount, area, out.SevereCount, top.Event, top.Severity)
	if out.SevereCount > 0 {
		msg += " Follow instructions from local officials and be ready to act quickly."
	} else {
		msg += " Stay informed and review your plans if conditions change."
	}
	return msg
}

// generateAlertMap places one marker per resolvable alert zone. Zone
// lookups are best effort; with no markers the map centers on the state,
// or on the contiguous US for national queries.
func (t *Tasks) generateAlertMap(ctx context.Context, env *pipelinex.Env) (any, error) {
	formatted, err := statex.Decode[AlertsFormatterOutput](env.State, KeyFormattedAlerts)
	if err != nil {
		return nil, err
	}
	data, err := statex.Decode[toolx.AlertsData](env.State, KeyAlertsData)
	if err != nil {
		return nil, err
	}

	markers := []toolx.MapMarker{}
	seen := map[string]bool{}
	for _, a := range formatted.Alerts {
		for _, zone := range a.AffectedZones {
			if seen[zone] || len(seen) >= maxMapZones {
				continue
			}
			seen[zone] = true
			z, ok := tryAs[toolx.ZoneCoordinates](ctx, env, toolx.ToolGetZoneCoordinates, map[string]any{"zone_id": zone})
			if !ok {
				continue
			}
			markers = append(markers, toolx.MapMarker{
				Lat:   z.Latitude,
				Lng:   z.Longitude,
				Title: fmt.Sprintf("%s: %s", a.Event, z.Name),
			})
		}
	}

	title := "Active weather alerts"
	args := map[string]any{"markers": markers, "title": title}
	if len(markers) == 0 {
		center, zoom := usgeo.ContiguousCenter, 4
		if s, ok := usgeo.LookupState(data.StateCode); ok {
			center, zoom = s.Center, 6
			args["title"] = title + " in " + s.Name
		}
		args["center_lat"] = center.Lat
		args["center_lng"] = center.Lng
		args["zoom"] = zoom
	} else {
		args["zoom"] = zoomForSpread(markers)
	}
	return callAs[toolx.MapData](ctx, env, toolx.ToolGenerateMap, args)
}

// zoomForSpread picks a zoom level that keeps every marker in view.
func zoomForSpread(markers []toolx.MapMarker) int {
	minLat, maxLat := markers[0].Lat, markers[0].Lat
	minLng, maxLng := markers[0].Lng, markers[0].Lng
	for _, m := range markers[1:] {
		minLat, maxLat = math.Min(minLat, m.Lat), math.Max(maxLat, m.Lat)
		minLng, maxLng = math.Min(minLng, m.Lng), math.Max(maxLng, m.Lng)
	}
	spread := math.Max(maxLat-minLat, maxLng-minLng)
	switch {
	case spread > 20:
		return 4
	case spread > 10:
		return 5
	case spread > 5:
		return 6
	case spread > 2:
		return 7
	case spread > 1:
		return 8
	case spread > 0.5:
		return 9
	default:
		return 10
	}
}

func (t *Tasks) synthesizeAlerts(ctx context.Context, env *pipelinex.Env) (any, error) {
	formatted, err := statex.Decode[AlertsFormatterOutput](env.State, KeyFormattedAlerts)
	if err != nil {
		return nil, err
	}
	out := AlertsSummary{AlertsFormatterOutput: formatted}
	out.Alerts = nonNil(out.Alerts)
	out.Locations = nonNil(out.Locations)
	if m, err := statex.Decode[toolx.MapData](env.State, KeyAlertMap); err == nil {
		out.MapData = &m
		if out.Insights != "" && m.MapURL != "" {
			out.Insights += " Map: " + m.MapURL
		}
	}
	return out, nil
}
