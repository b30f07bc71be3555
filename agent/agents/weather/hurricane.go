package weather

import (
	"context"
	"fmt"

	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	toolx "github.com/tanpawarit/weather-insights-advisor/agent/tool"
	"github.com/tanpawarit/weather-insights-advisor/pkg/usgeo"
)

// Evacuation scores at or above this are counted as high risk.
const highRiskScore = 70

func (t *Tasks) profileHurricane(_ context.Context, env *pipelinex.Env) (any, error) {
	req := env.Request
	category := req.Hints.HurricaneCategory
	if category == 0 {
		category = ExtractCategory(req.Text)
	}
	if category < 1 || category > 5 {
		return nil, invalid("hurricane category 1 to 5 is required, e.g. \"category 4 hurricane hitting Florida\"")
	}

	codes := StateCodes(req)
	if len(codes) == 0 {
		return nil, invalid("no affected states found in the request")
	}
	boxes := make([]usgeo.Bounds, 0, len(codes))
	for _, code := range codes {
		s, ok := usgeo.LookupState(code)
		if !ok {
			return nil, invalid("unknown state code %q", code)
		}
		boxes = append(boxes, s.Bounds)
	}
	box := usgeo.Union(boxes...)
	return HurricaneData{
		Category: category,
		States:   codes,
		MinLat:   box.MinLat,
		MaxLat:   box.MaxLat,
		MinLng:   box.MinLng,
		MaxLng:   box.MaxLng,
	}, nil
}

// coordinateEvacuation gathers flood zones for every affected state and
// ranks them inside the hurricane's bounding box.
func (t *Tasks) coordinateEvacuation(ctx context.Context, env *pipelinex.Env) (any, error) {
	h, err := statex.Decode[HurricaneData](env.State, KeyHurricaneData)
	if err != nil {
		return nil, err
	}

	var candidates []toolx.EvacuationCandidate
	for _, code := range h.States {
		flood, err := callAs[toolx.FloodRisk](ctx, env, toolx.ToolFloodRiskData, map[string]any{"state": code})
		if err != nil {
			return nil, err
		}
		for _, z := range flood.Zones {
			candidates = append(candidates, toolx.EvacuationCandidate{
				Name:       fmt.Sprintf("%s (%s, %s)", z.ZoneID, z.County, code),
				Latitude:   z.Latitude,
				Longitude:  z.Longitude,
				FloodRisk:  z.RiskLevel,
				Population: z.Population,
			})
		}
	}

	priority, err := callAs[toolx.EvacuationPriority](ctx, env, toolx.ToolEvacuationPriority, map[string]any{
		"hurricane_category": h.Category,
		"locations":          nonNil(candidates),
		"min_lat":            h.MinLat,
		"max_lat":            h.MaxLat,
		"min_lng":            h.MinLng,
		"max_lng":            h.MaxLng,
	})
	if err != nil {
		return nil, err
	}

	plan := EvacuationPlan{
		PrioritizedLocations: make([]PrioritizedLocation, 0, len(priority.Locations)),
		AffectedStates:       nonNil(h.States),
		HurricaneCategory:    h.Category,
	}
	for _, loc := range priority.Locations {
		plan.PrioritizedLocations = append(plan.PrioritizedLocations, PrioritizedLocation{
			Latitude:  loc.Latitude,
			Longitude: loc.Longitude,
			RiskScore: loc.RiskScore,
			Details: map[string]any{
				"name":       loc.Name,
				"rank":       loc.Rank,
				"flood_risk": loc.FloodRisk,
				"population": loc.Population,
			},
		})
		if loc.RiskScore >= highRiskScore {
			plan.TotalHighRiskLocations++
		}
		plan.HighestRiskScore = max(plan.HighestRiskScore, loc.RiskScore)
	}
	plan.Insights = evacuationInsights(priority, plan)
	if text := t.insight(ctx, env, plan, ""); text != "" {
		plan.Insights["narrative"] = text
	}
	return plan, nil
}

func evacuationInsights(p toolx.EvacuationPriority, plan EvacuationPlan) map[string]any {
	out := map[string]any{
		"locations_considered": p.Considered,
		"summary": fmt.Sprintf("Category %d hurricane affecting %d state(s): %d of %d locations are high risk.",
			plan.HurricaneCategory, len(plan.AffectedStates), plan.TotalHighRiskLocations, len(plan.PrioritizedLocations)),
	}
	switch {
	case plan.HurricaneCategory >= 4:
		out["guidance"] = "Begin mandatory evacuation of the top-ranked locations; major structural damage is expected."
	case plan.HurricaneCategory == 3:
		out["guidance"] = "Evacuate high flood risk zones first and stage resources for storm surge response."
	default:
		out["guidance"] = "Recommend voluntary evacuation of low-lying zones and prepare shelters."
	}
	if len(plan.PrioritizedLocations) > 0 {
		out["top_priority"] = plan.PrioritizedLocations[0].Details["name"]
	}
	return out
}
