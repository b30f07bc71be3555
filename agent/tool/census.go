package tool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	"github.com/tanpawarit/weather-insights-advisor/pkg/usgeo"
	"github.com/tanpawarit/weather-insights-advisor/pkg/warehouse"
)

const DefaultTractLimit = 25

var areaParams = map[string]*schema.ParameterInfo{
	"state":  {Type: schema.String, Desc: "Two-letter state code", Required: true},
	"county": {Type: schema.String, Desc: "County name, optional"},
}

func areaArgs(args Args) (state, county string, err error) {
	state, err = args.RequireString("state")
	if err != nil {
		return "", "", err
	}
	state = strings.ToUpper(state)
	if !usgeo.IsStateCode(state) {
		return "", "", argError("state", fmt.Sprintf("unknown state code %q", state))
	}
	return state, args.String("county"), nil
}

func NewCensusDemographicsAdapter(wh DataWarehouse) Adapter {
	return &funcAdapter{
		info:      toolInfo(ToolCensusDemographics, "Get population, age and income figures for a state or county.", areaParams),
		stateKey:  statex.KeyCensusDemographics,
		cacheable: true,
		invoke: func(ctx context.Context, _ statex.Reader, args Args) (any, error) {
			state, county, err := areaArgs(args)
			if err != nil {
				return nil, err
			}
			d, err := wh.Demographics(ctx, state, county)
			if err != nil {
				return nil, fmt.Errorf("census lookup failed: %w", err)
			}
			out := CensusDemographics{
				StateCode:         d.StateCode,
				County:            d.County,
				Counties:          d.Counties,
				TotalPopulation:   d.TotalPopulation,
				MedianAge:         round1(d.MedianAge),
				MedianIncome:      math.Round(d.MedianIncome),
				PopulationOver65:  d.PopulationOver65,
				PopulationUnder18: d.PopulationUnder18,
				Households:        d.Households,
			}
			if d.TotalPopulation > 0 {
				out.PovertyRate = round1(100 * float64(d.PovertyCount) / float64(d.TotalPopulation))
				out.ElderlyShare = round1(100 * float64(d.PopulationOver65) / float64(d.TotalPopulation))
			}
			return out, nil
		},
	}
}

func NewCensusTractsAdapter(wh DataWarehouse) Adapter {
	params := map[string]*schema.ParameterInfo{
		"limit": {Type: schema.Integer, Desc: "Maximum tracts to return, default 25"},
	}
	for k, v := range areaParams {
		params[k] = v
	}
	return &funcAdapter{
		info:     toolInfo(ToolCensusTracts, "List the most populous census tracts in a state or county.", params),
		stateKey: statex.KeyCensusTracts,
		invoke: func(ctx context.Context, _ statex.Reader, args Args) (any, error) {
			state, county, err := areaArgs(args)
			if err != nil {
				return nil, err
			}
			limit, err := args.Int("limit", DefaultTractLimit)
			if err != nil {
				return nil, err
			}
			if limit < 1 {
				return nil, argError("limit", "must be positive")
			}
			rows, err := wh.Tracts(ctx, state, county, limit)
			if err != nil {
				return nil, fmt.Errorf("census tract lookup failed: %w", err)
			}
			out := CensusTracts{StateCode: state, County: county, Tracts: make([]CensusTract, 0, len(rows))}
			for _, r := range rows {
				out.Tracts = append(out.Tracts, CensusTract{
					GeoID:      r.GeoID,
					Name:       r.TractName,
					County:     r.CountyName,
					Population: r.TotalPopulation,
					Latitude:   r.Latitude,
					Longitude:  r.Longitude,
				})
			}
			out.Count = len(out.Tracts)
			return out, nil
		},
	}
}

// NewFloodRiskAdapter summarizes flood zones. An area with no zone rows is
// reported as low risk rather than an error: absence of mapped zones is data.
func NewFloodRiskAdapter(wh DataWarehouse) Adapter {
	return &funcAdapter{
		info:      toolInfo(ToolFloodRiskData, "Get mapped flood zones and their risk levels for a state or county.", areaParams),
		stateKey:  statex.KeyFloodRisk,
		cacheable: true,
		invoke: func(ctx context.Context, _ statex.Reader, args Args) (any, error) {
			state, county, err := areaArgs(args)
			if err != nil {
				return nil, err
			}
			rows, err := wh.FloodZones(ctx, state, county)
			if err != nil && !errors.Is(err, warehouse.ErrNoRows) {
				return nil, fmt.Errorf("flood data lookup failed: %w", err)
			}
			return summarizeFlood(state, county, rows), nil
		},
	}
}

func summarizeFlood(state, county string, rows []warehouse.FloodZone) FloodRisk {
	out := FloodRisk{StateCode: state, County: county, OverallRisk: FloodLow, Zones: make([]FloodZoneEntry, 0, len(rows))}
	for _, r := range rows {
		level := normalizeFloodLevel(r.RiskLevel)
		switch level {
		case FloodHigh:
			out.HighRiskZones++
			out.ExposedPopulation += r.Population
		case FloodModerate:
			out.ModerateRiskZones++
			out.ExposedPopulation += r.Population
		default:
			out.LowRiskZones++
		}
		out.Zones = append(out.Zones, FloodZoneEntry{
			ZoneID:     r.ZoneID,
			County:     r.CountyName,
			RiskLevel:  level,
			Population: r.Population,
			Latitude:   r.Latitude,
			Longitude:  r.Longitude,
		})
	}
	switch {
	case out.HighRiskZones > 0:
		out.OverallRisk = FloodHigh
	case out.ModerateRiskZones > 0:
		out.OverallRisk = FloodModerate
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
