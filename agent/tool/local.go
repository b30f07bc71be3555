package tool

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	"github.com/tanpawarit/weather-insights-advisor/pkg/usgeo"
)

const (
	DefaultZoom = 12
	MinZoom     = 1
	MaxZoom     = 20

	FloodHigh     = "High"
	FloodModerate = "Moderate"
	FloodLow      = "Low"

	// RiskFormula weights alert severity 40%, population 30% and flood
	// exposure 30%; every component is scored 0..100.
	RiskFormula = "severity_score * 0.4 + population_score * 0.3 + flood_score * 0.3"

	maxEvacuationLocations = 10
)

func normalizeFloodLevel(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "high", "very high", "a", "ae", "v", "ve":
		return FloodHigh
	case "moderate", "medium", "b", "x500", "shaded x":
		return FloodModerate
	default:
		return FloodLow
	}
}

// NewMapAdapter builds map data from markers. The center defaults to the
// mean of the markers; the URL carries no API key.
func NewMapAdapter() Adapter {
	return &funcAdapter{
		info: toolInfo(ToolGenerateMap, "Build a map centered on a set of markers.",
			map[string]*schema.ParameterInfo{
				"markers": {Type: schema.Array, Desc: "Markers to place", ElemInfo: &schema.ParameterInfo{
					Type: schema.Object,
					SubParams: map[string]*schema.ParameterInfo{
						"lat":   {Type: schema.Number, Required: true},
						"lng":   {Type: schema.Number, Required: true},
						"title": {Type: schema.String},
					},
				}},
				"center_lat": {Type: schema.Number, Desc: "Center latitude, defaults to the marker mean"},
				"center_lng": {Type: schema.Number, Desc: "Center longitude, defaults to the marker mean"},
				"zoom":       {Type: schema.Integer, Desc: "Zoom level 1 to 20, default 12"},
				"title":      {Type: schema.String, Desc: "Map title"},
			}),
		stateKey: statex.KeyMapData,
		invoke: func(_ context.Context, _ statex.Reader, args Args) (any, error) {
			markers, _, err := Decode[[]MapMarker](args, "markers")
			if err != nil {
				return nil, err
			}
			for i := range markers {
				m := &markers[i]
				if m.Lat < -90 || m.Lat > 90 || m.Lng < -180 || m.Lng > 180 {
					return nil, argError("markers", fmt.Sprintf("marker %d is out of range", i))
				}
				if strings.TrimSpace(m.Title) == "" {
					m.Title = fmt.Sprintf("Location %d", i+1)
				}
			}
			zoom, err := args.Int("zoom", DefaultZoom)
			if err != nil {
				return nil, err
			}

			out := MapData{Zoom: clampZoom(zoom), Title: args.String("title"), Markers: markers}
			if out.Markers == nil {
				out.Markers = []MapMarker{}
			}
			lat, hasLat, err := args.Float("center_lat")
			if err != nil {
				return nil, err
			}
			lng, hasLng, err := args.Float("center_lng")
			if err != nil {
				return nil, err
			}
			switch {
			case hasLat && hasLng:
				out.CenterLat, out.CenterLng = lat, lng
			case len(markers) > 0:
				out.CenterLat, out.CenterLng = MeanCenter(markers)
			default:
				return nil, argError("markers", "markers or center_lat/center_lng are required")
			}
			out.MapURL = fmt.Sprintf("https://www.google.com/maps/@?api=1&map_action=map&center=%.6f,%.6f&zoom=%d",
				out.CenterLat, out.CenterLng, out.Zoom)
			return out, nil
		},
	}
}

func MeanCenter(markers []MapMarker) (float64, float64) {
	if len(markers) == 0 {
		return 0, 0
	}
	var lat, lng float64
	for _, m := range markers {
		lat += m.Lat
		lng += m.Lng
	}
	n := float64(len(markers))
	return lat / n, lng / n
}

func clampZoom(z int) int {
	switch {
	case z < MinZoom:
		return MinZoom
	case z > MaxZoom:
		return MaxZoom
	default:
		return z
	}
}

var severityPoints = map[string]float64{
	"extreme":  100,
	"severe":   75,
	"moderate": 50,
	"minor":    25,
	"unknown":  25,
	"none":     0,
}

var floodPoints = map[string]float64{
	FloodHigh:     100,
	FloodModerate: 50,
	FloodLow:      25,
}

func populationPoints(population int64) float64 {
	switch {
	case population > 100_000:
		return 100
	case population > 50_000:
		return 75
	case population > 10_000:
		return 50
	default:
		return 25
	}
}

// RiskLevel buckets a 0..100 score.
func RiskLevel(score float64) string {
	switch {
	case score <= 25:
		return "Low"
	case score <= 50:
		return "Medium"
	case score <= 75:
		return "High"
	default:
		return "Severe"
	}
}

func NewRiskScoreAdapter() Adapter {
	expr, err := govaluate.NewEvaluableExpression(RiskFormula)
	if err != nil {
		panic(fmt.Sprintf("risk formula: %v", err))
	}
	return &funcAdapter{
		info: toolInfo(ToolCalculateRiskScore, "Combine alert severity, population and flood exposure into a 0-100 risk score.",
			map[string]*schema.ParameterInfo{
				"severity":   {Type: schema.String, Desc: "Highest alert severity: Extreme, Severe, Moderate, Minor or None", Required: true},
				"population": {Type: schema.Integer, Desc: "Population of the area", Required: true},
				"flood_risk": {Type: schema.String, Desc: "High, Moderate or Low, default Low"},
			}),
		stateKey: statex.KeyRiskAssessment,
		invoke: func(_ context.Context, _ statex.Reader, args Args) (any, error) {
			severity, err := args.RequireString("severity")
			if err != nil {
				return nil, err
			}
			sevScore, ok := severityPoints[strings.ToLower(severity)]
			if !ok {
				return nil, argError("severity", fmt.Sprintf("unknown severity %q", severity))
			}
			population, err := args.Int("population", -1)
			if err != nil {
				return nil, err
			}
			if population < 0 {
				return nil, argError("population", "is required and must not be negative")
			}
			flood := FloodLow
			if raw := args.String("flood_risk"); raw != "" {
				flood = normalizeFloodLevel(raw)
			}

			a := RiskAssessment{
				Severity:        severity,
				Population:      int64(population),
				FloodRisk:       flood,
				SeverityScore:   sevScore,
				PopulationScore: populationPoints(int64(population)),
				FloodScore:      floodPoints[flood],
			}
			raw, err := expr.Evaluate(map[string]interface{}{
				"severity_score":   a.SeverityScore,
				"population_score": a.PopulationScore,
				"flood_score":      a.FloodScore,
			})
			if err != nil {
				return nil, fmt.Errorf("risk formula: %w", err)
			}
			score, ok := raw.(float64)
			if !ok {
				return nil, fmt.Errorf("risk formula returned %T", raw)
			}
			a.RiskScore = round1(score)
			a.RiskLevel = RiskLevel(a.RiskScore)
			return a, nil
		},
	}
}

// EvacuationCandidate is one location handed to the evacuation tool.
type EvacuationCandidate struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	FloodRisk  string  `json:"flood_risk"`
	Population int64   `json:"population"`
}

var evacuationFloodPoints = map[string]float64{FloodHigh: 30, FloodModerate: 20, FloodLow: 10}

func evacuationPopulationPoints(population int64) float64 {
	switch {
	case population > 100_000:
		return 30
	case population > 50_000:
		return 20
	case population > 10_000:
		return 10
	default:
		return 5
	}
}

// EvacuationScore is min(100, category*12 + flood points + population points).
func EvacuationScore(category int, c EvacuationCandidate) float64 {
	score := float64(category)*12 + evacuationFloodPoints[normalizeFloodLevel(c.FloodRisk)] + evacuationPopulationPoints(c.Population)
	return math.Min(100, score)
}

func NewEvacuationPriorityAdapter() Adapter {
	return &funcAdapter{
		info: toolInfo(ToolEvacuationPriority, "Rank flood-exposed locations for evacuation given a hurricane category.",
			map[string]*schema.ParameterInfo{
				"hurricane_category": {Type: schema.Integer, Desc: "Saffir-Simpson category 1 to 5", Required: true},
				"locations": {Type: schema.Array, Desc: "Candidate locations; defaults to the flood zones already retrieved", ElemInfo: &schema.ParameterInfo{
					Type: schema.Object,
					SubParams: map[string]*schema.ParameterInfo{
						"name":       {Type: schema.String},
						"latitude":   {Type: schema.Number, Required: true},
						"longitude":  {Type: schema.Number, Required: true},
						"flood_risk": {Type: schema.String},
						"population": {Type: schema.Integer},
					},
				}},
				"min_lat": {Type: schema.Number, Desc: "Bounding box south edge"},
				"max_lat": {Type: schema.Number, Desc: "Bounding box north edge"},
				"min_lng": {Type: schema.Number, Desc: "Bounding box west edge"},
				"max_lng": {Type: schema.Number, Desc: "Bounding box east edge"},
			}),
		stateKey: statex.KeyEvacuationPriority,
		invoke: func(_ context.Context, view statex.Reader, args Args) (any, error) {
			category, err := args.Int("hurricane_category", 0)
			if err != nil {
				return nil, err
			}
			if category < 1 || category > 5 {
				return nil, argError("hurricane_category", "must be within 1..5")
			}
			candidates, ok, err := Decode[[]EvacuationCandidate](args, "locations")
			if err != nil {
				return nil, err
			}
			if !ok {
				candidates, err = candidatesFromView(view)
				if err != nil {
					return nil, err
				}
			}
			bounds, hasBounds, err := boundingBox(args)
			if err != nil {
				return nil, err
			}

			out := EvacuationPriority{HurricaneCategory: category, Locations: []EvacuationLocation{}}
			for i, c := range candidates {
				if hasBounds && !bounds.Contains(usgeo.Point{Lat: c.Latitude, Lng: c.Longitude}) {
					continue
				}
				out.Considered++
				name := c.Name
				if name == "" {
					name = fmt.Sprintf("Location %d", i+1)
				}
				out.Locations = append(out.Locations, EvacuationLocation{
					Name:       name,
					Latitude:   c.Latitude,
					Longitude:  c.Longitude,
					FloodRisk:  normalizeFloodLevel(c.FloodRisk),
					Population: c.Population,
					RiskScore:  EvacuationScore(category, c),
				})
			}
			sort.SliceStable(out.Locations, func(i, j int) bool {
				return out.Locations[i].RiskScore > out.Locations[j].RiskScore
			})
			if len(out.Locations) > maxEvacuationLocations {
				out.Locations = out.Locations[:maxEvacuationLocations]
			}
			for i := range out.Locations {
				out.Locations[i].Rank = i + 1
			}
			return out, nil
		},
	}
}

func candidatesFromView(view statex.Reader) ([]EvacuationCandidate, error) {
	flood, err := statex.Decode[FloodRisk](view, statex.KeyFloodRisk)
	if err != nil {
		return nil, argError("locations", "is required when no flood data has been retrieved")
	}
	out := make([]EvacuationCandidate, 0, len(flood.Zones))
	for _, z := range flood.Zones {
		out = append(out, EvacuationCandidate{
			Name:       z.ZoneID,
			Latitude:   z.Latitude,
			Longitude:  z.Longitude,
			FloodRisk:  z.RiskLevel,
			Population: z.Population,
		})
	}
	return out, nil
}

func boundingBox(args Args) (usgeo.Bounds, bool, error) {
	keys := []string{"min_lat", "max_lat", "min_lng", "max_lng"}
	var vals [4]float64
	present := 0
	for i, k := range keys {
		v, ok, err := args.Float(k)
		if err != nil {
			return usgeo.Bounds{}, false, err
		}
		if ok {
			vals[i] = v
			present++
		}
	}
	switch present {
	case 0:
		return usgeo.Bounds{}, false, nil
	case len(keys):
	default:
		return usgeo.Bounds{}, false, argError("min_lat", "bounding box needs all four edges")
	}
	b := usgeo.Bounds{MinLat: vals[0], MaxLat: vals[1], MinLng: vals[2], MaxLng: vals[3]}
	if b.MinLat > b.MaxLat || b.MinLng > b.MaxLng {
		return usgeo.Bounds{}, false, argError("min_lat", "bounding box edges are inverted")
	}
	return b, true, nil
}
