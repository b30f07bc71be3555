package weather

import (
	"context"
	"fmt"
	"sort"
	"strings"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	toolx "github.com/tanpawarit/weather-insights-advisor/agent/tool"
	"github.com/tanpawarit/weather-insights-advisor/pkg/usgeo"
)

const (
	severityNone   = "None"
	topTractCount  = 5
	maxVulnerable  = 10
	elderlyConcern = 20.0
	povertyConcern = 15.0
)

func areaArgs(req contractx.Request) (map[string]any, error) {
	code := StateCode(req)
	if code == "" {
		return nil, invalid("risk analysis needs a US state, e.g. \"flood risk in Harris County, TX\"")
	}
	if !usgeo.IsStateCode(code) {
		return nil, invalid("unknown state code %q", code)
	}
	args := map[string]any{"state": code}
	if c := county(req); c != "" {
		args["county"] = c
	}
	return args, nil
}

// retrieveRiskAlerts summarizes the alerts active in the requested state,
// narrowed to the county when one is named.
func (t *Tasks) retrieveRiskAlerts(ctx context.Context, env *pipelinex.Env) (any, error) {
	args, err := areaArgs(env.Request)
	if err != nil {
		return nil, err
	}
	data, err := callAs[toolx.AlertsData](ctx, env, toolx.ToolGetAlerts, map[string]any{"state": args["state"]})
	if err != nil {
		return nil, err
	}
	countyName, _ := args["county"].(string)
	return SummarizeAlerts(data, countyName), nil
}

// SummarizeAlerts reduces alerts to the fields the risk score needs. When
// county is set only alerts whose area mentions it are counted.
func SummarizeAlerts(data toolx.AlertsData, county string) AlertData {
	out := AlertData{
		StateCode:       data.StateCode,
		County:          county,
		HighestSeverity: severityNone,
		Events:          []string{},
		AffectedAreas:   []string{},
	}
	needle := strings.ToLower(county)
	events, areas := map[string]bool{}, map[string]bool{}
	best := -1
	for _, a := range data.Alerts {
		if needle != "" && !strings.Contains(strings.ToLower(a.AreaDesc), needle) {
			continue
		}
		out.AlertCount++
		out.Events = appendUnique(out.Events, events, a.Event)
		out.AffectedAreas = appendUnique(out.AffectedAreas, areas, strings.Split(a.AreaDesc, ";")...)
		if r := rankOf(a.Severity); r > best {
			best = r
			out.HighestSeverity = a.Severity
			out.Headline = a.Headline
		}
	}
	if out.HighestSeverity == "" {
		out.HighestSeverity = "Unknown"
	}
	return out
}

func (t *Tasks) retrieveCensus(ctx context.Context, env *pipelinex.Env) (any, error) {
	args, err := areaArgs(env.Request)
	if err != nil {
		return nil, err
	}
	demo, err := callAs[toolx.CensusDemographics](ctx, env, toolx.ToolCensusDemographics, args)
	if err != nil {
		return nil, err
	}
	flood, err := callAs[toolx.FloodRisk](ctx, env, toolx.ToolFloodRiskData, args)
	if err != nil {
		return nil, err
	}

	out := CensusData{
		StateCode:       demo.StateCode,
		County:          demo.County,
		TotalPopulation: demo.TotalPopulation,
		ElderlyShare:    demo.ElderlyShare,
		PovertyRate:     demo.PovertyRate,
		MedianIncome:    demo.MedianIncome,
		TopTracts:       []TractSummary{},
		FloodRisk:       flood.OverallRisk,
		HighRiskZones:   []string{},
	}

	tractArgs := map[string]any{"limit": topTractCount}
	for k, v := range args {
		tractArgs[k] = v
	}
	if tracts, ok := tryAs[toolx.CensusTracts](ctx, env, toolx.ToolCensusTracts, tractArgs); ok {
		sort.SliceStable(tracts.Tracts, func(i, j int) bool {
			return tracts.Tracts[i].Population > tracts.Tracts[j].Population
		})
		for i, tr := range tracts.Tracts {
			if i == topTractCount {
				break
			}
			out.TopTracts = append(out.TopTracts, TractSummary{Name: tr.Name, Population: tr.Population})
		}
	}
	for _, z := range flood.Zones {
		if z.RiskLevel == toolx.FloodHigh && len(out.HighRiskZones) < maxVulnerable {
			out.HighRiskZones = append(out.HighRiskZones, z.ZoneID)
		}
	}
	return out, nil
}

func (t *Tasks) calculateRisk(ctx context.Context, env *pipelinex.Env) (any, error) {
	alerts, err := statex.Decode[AlertData](env.State, KeyAlertData)
	if err != nil {
		return nil, err
	}
	census, err := statex.Decode[CensusData](env.State, KeyCensusData)
	if err != nil {
		return nil, err
	}
	return callAs[toolx.RiskAssessment](ctx, env, toolx.ToolCalculateRiskScore, map[string]any{
		"severity":   alerts.HighestSeverity,
		"population": census.TotalPopulation,
		"flood_risk": census.FloodRisk,
	})
}

func (t *Tasks) generateRecommendations(ctx context.Context, env *pipelinex.Env) (any, error) {
	alerts, err := statex.Decode[AlertData](env.State, KeyAlertData)
	if err != nil {
		return nil, err
	}
	census, err := statex.Decode[CensusData](env.State, KeyCensusData)
	if err != nil {
		return nil, err
	}
	risk, err := statex.Decode[toolx.RiskAssessment](env.State, KeyRiskScores)
	if err != nil {
		return nil, err
	}

	out := RiskAnalysisSummary{
		AlertSummary:     alertSummary(alerts),
		RiskScore:        risk.RiskScore,
		RiskLevel:        risk.RiskLevel,
		VulnerableAreas:  nonNil(census.HighRiskZones),
		Recommendations:  Recommendations(risk.RiskLevel, census),
		EvacuationNeeded: EvacuationNeeded(risk.RiskLevel, census.FloodRisk),
	}
	if alerts.AlertCount > 0 {
		out.PopulationAtRisk = census.TotalPopulation
	}
	out.Insights = t.insight(ctx, env, out, riskInsight(alerts, census, out))
	return out, nil
}

func alertSummary(a AlertData) string {
	area := a.StateCode
	if a.County != "" {
		area = a.County + " County, " + a.StateCode
	}
	if a.AlertCount == 0 {
		return fmt.Sprintf("No active weather alerts for %s.", area)
	}
	return fmt.Sprintf("%d active alert(s) for %s; highest severity %s: %s.",
		a.AlertCount, area, a.HighestSeverity, strings.Join(a.Events, ", "))
}

// EvacuationNeeded is true for Severe risk, or High risk in a high flood area.
func EvacuationNeeded(level, floodRisk string) bool {
	return level == "Severe" || (level == "High" && floodRisk == toolx.FloodHigh)
}

// Recommendations returns action items tiered by risk level, with extra
// items for high flood exposure and large elderly or low-income groups.
func Recommendations(level string, census CensusData) []string {
	var out []string
	switch level {
	case "Severe":
		out = append(out,
			"Follow evacuation orders from local officials immediately",
			"Open emergency shelters and coordinate transport for residents without vehicles",
			"Pre-position medical teams and supplies near high-risk zones",
		)
	case "High":
		out = append(out,
			"Prepare to evacuate and review routes to the nearest shelter",
			"Secure property and move valuables above expected flood levels",
			"Keep a 72-hour emergency kit ready",
		)
	case "Medium":
		out = append(out,
			"Monitor official alerts and local news closely",
			"Check emergency kits and family communication plans",
		)
	default:
		out = append(out,
			"Stay informed through NWS updates",
			"Review household emergency plans",
		)
	}
	if census.FloodRisk == toolx.FloodHigh {
		out = append(out, "Avoid driving through flooded roads; turn around, don't drown")
	}
	if census.ElderlyShare >= elderlyConcern {
		out = append(out, "Check on elderly neighbors and residents with limited mobility")
	}
	if census.PovertyRate >= povertyConcern {
		out = append(out, "Coordinate assistance for low-income households that may lack transport or supplies")
	}
	return out
}

func riskInsight(a AlertData, c CensusData, s RiskAnalysisSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Risk level %s (score %.1f). %s", s.RiskLevel, s.RiskScore, alertSummary(a))
	fmt.Fprintf(&b, " Population %d with %s flood risk", c.TotalPopulation, strings.ToLower(c.FloodRisk))
	if len(c.HighRiskZones) > 0 {
		fmt.Fprintf(&b, " across %d high-risk zone(s)", len(c.HighRiskZones))
	}
	b.WriteString(".")
	if s.EvacuationNeeded {
		b.WriteString(" Evacuation is recommended for vulnerable areas.")
	}
	return b.String()
}
