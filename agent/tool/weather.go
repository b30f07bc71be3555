package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	"github.com/tanpawarit/weather-insights-advisor/pkg/nws"
	"github.com/tanpawarit/weather-insights-advisor/pkg/usgeo"
)

const (
	PeriodSevenDay = "7day"
	PeriodHourly   = "hourly"
)

var alertSeverities = map[string]string{
	"extreme":  "Extreme",
	"severe":   "Severe",
	"moderate": "Moderate",
	"minor":    "Minor",
	"unknown":  "Unknown",
}

var coordinateParams = map[string]*schema.ParameterInfo{
	"latitude":  {Type: schema.Number, Desc: "Latitude in decimal degrees", Required: true},
	"longitude": {Type: schema.Number, Desc: "Longitude in decimal degrees", Required: true},
}

func NewForecastAdapter(weather WeatherService) Adapter {
	params := map[string]*schema.ParameterInfo{
		"period": {Type: schema.String, Desc: "7day (default) or hourly", Enum: []string{PeriodSevenDay, PeriodHourly}},
	}
	for k, v := range coordinateParams {
		params[k] = v
	}
	return &funcAdapter{
		info:     toolInfo(ToolGetForecast, "Get the National Weather Service forecast for a US location.", params),
		stateKey: statex.KeyForecastData,
		invoke: func(ctx context.Context, view statex.Reader, args Args) (any, error) {
			period := strings.ToLower(args.String("period"))
			switch period {
			case "", "7-day", "daily", PeriodSevenDay:
				period = PeriodSevenDay
			case PeriodHourly:
			default:
				return nil, argError("period", "must be 7day or hourly")
			}
			return fetchForecast(ctx, weather, view, args, period)
		},
	}
}

func NewHourlyForecastAdapter(weather WeatherService) Adapter {
	return &funcAdapter{
		info:     toolInfo(ToolGetHourlyForecast, "Get the hourly National Weather Service forecast for a US location.", coordinateParams),
		stateKey: statex.KeyForecastData,
		invoke: func(ctx context.Context, view statex.Reader, args Args) (any, error) {
			return fetchForecast(ctx, weather, view, args, PeriodHourly)
		},
	}
}

func fetchForecast(ctx context.Context, weather WeatherService, view statex.Reader, args Args, period string) (any, error) {
	lat, lng, err := coordinatesFromView(view, args)
	if err != nil {
		return nil, err
	}
	fc, err := weather.Forecast(ctx, lat, lng, period == PeriodHourly)
	if err != nil {
		return nil, fmt.Errorf("forecast retrieval failed: %w", err)
	}
	out := ForecastData{
		Latitude:  lat,
		Longitude: lng,
		Period:    period,
		Office:    fc.Point.GridID,
		GridX:     fc.Point.GridX,
		GridY:     fc.Point.GridY,
		City:      fc.Point.City,
		State:     fc.Point.State,
		TimeZone:  fc.Point.TimeZone,
		Updated:   fc.Updated,
		Periods:   make([]ForecastPeriod, 0, len(fc.Periods)),
	}
	for _, p := range fc.Periods {
		out.Periods = append(out.Periods, ForecastPeriod{
			Name:                p.Name,
			StartTime:           p.StartTime,
			EndTime:             p.EndTime,
			IsDaytime:           p.IsDaytime,
			Temperature:         p.Temperature,
			TemperatureUnit:     p.TemperatureUnit,
			WindSpeed:           p.WindSpeed,
			WindDirection:       p.WindDirection,
			ShortForecast:       p.ShortForecast,
			DetailedForecast:    p.DetailedForecast,
			PrecipitationChance: p.PrecipitationChance,
		})
	}
	return out, nil
}

// NewAlertsAdapter queries active alerts. A state code is checked against
// the known US codes before any request is made, so a bad code is a tool
// error rather than an empty national-looking result.
func NewAlertsAdapter(weather WeatherService) Adapter {
	return &funcAdapter{
		info: toolInfo(ToolGetAlerts, "Get active weather alerts for a state, a point, or the whole US.",
			map[string]*schema.ParameterInfo{
				"state":     {Type: schema.String, Desc: "Two-letter state code, e.g. FL"},
				"latitude":  {Type: schema.Number, Desc: "Latitude for a point query"},
				"longitude": {Type: schema.Number, Desc: "Longitude for a point query"},
				"severity":  {Type: schema.String, Desc: "Comma separated severities: Extreme, Severe, Moderate, Minor"},
			}),
		stateKey: statex.KeyAlerts,
		invoke: func(ctx context.Context, _ statex.Reader, args Args) (any, error) {
			severities, err := parseSeverities(args)
			if err != nil {
				return nil, err
			}
			q := nws.AlertQuery{Severity: severities}
			out := AlertsData{Scope: "national", Severity: severities}

			state := strings.ToUpper(args.String("state"))
			_, hasLat := args["latitude"]
			_, hasLng := args["longitude"]
			switch {
			case state != "":
				if !usgeo.IsStateCode(state) {
					return nil, fmt.Errorf("alert retrieval failed: unknown state code %q", state)
				}
				q.Area = state
				out.Scope = "state:" + state
				out.StateCode = state
			case hasLat || hasLng:
				lat, lng, err := args.Coordinates()
				if err != nil {
					return nil, err
				}
				q.Lat, q.Lng = &lat, &lng
				out.Scope = fmt.Sprintf("point:%.4f,%.4f", lat, lng)
			}

			alerts, err := weather.ActiveAlerts(ctx, q)
			if err != nil {
				return nil, fmt.Errorf("alert retrieval failed: %w", err)
			}
			out.Alerts = make([]AlertItem, 0, len(alerts))
			for _, a := range alerts {
				zones := a.AffectedZones
				if zones == nil {
					zones = []string{}
				}
				out.Alerts = append(out.Alerts, AlertItem{
					ID:            a.ID,
					Event:         a.Event,
					Severity:      a.Severity,
					Certainty:     a.Certainty,
					Urgency:       a.Urgency,
					Headline:      a.Headline,
					Description:   a.Description,
					Instruction:   a.Instruction,
					AreaDesc:      a.AreaDesc,
					AffectedZones: zones,
					Onset:         a.Onset,
					Expires:       a.Expires,
				})
			}
			out.Count = len(out.Alerts)
			return out, nil
		},
	}
}

func parseSeverities(args Args) ([]string, error) {
	var raw []string
	switch v := args["severity"].(type) {
	case nil:
		return nil, nil
	case string:
		raw = strings.Split(v, ",")
	case []string:
		raw = v
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, argError("severity", "must be a list of strings")
			}
			raw = append(raw, s)
		}
	default:
		return nil, argError("severity", "must be a string or list of strings")
	}
	var out []string
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		canonical, ok := alertSeverities[s]
		if !ok {
			return nil, argError("severity", fmt.Sprintf("unknown severity %q", s))
		}
		out = append(out, canonical)
	}
	return out, nil
}

func NewCurrentConditionsAdapter(weather WeatherService) Adapter {
	return &funcAdapter{
		info: toolInfo(ToolGetCurrentConditions, "Get the latest observation from a station, or from the station nearest a point.",
			map[string]*schema.ParameterInfo{
				"station_id": {Type: schema.String, Desc: "Observation station id, e.g. KMIA"},
				"latitude":   {Type: schema.Number, Desc: "Latitude, used when station_id is absent"},
				"longitude":  {Type: schema.Number, Desc: "Longitude, used when station_id is absent"},
			}),
		stateKey: statex.KeyCurrentConditions,
		invoke: func(ctx context.Context, view statex.Reader, args Args) (any, error) {
			station := strings.ToUpper(args.String("station_id"))
			if station == "" {
				lat, lng, err := coordinatesFromView(view, args)
				if err != nil {
					return nil, err
				}
				station, err = weather.NearestStation(ctx, lat, lng)
				if err != nil {
					return nil, fmt.Errorf("station lookup failed: %w", err)
				}
			}
			obs, err := weather.LatestObservation(ctx, station)
			if err != nil {
				return nil, fmt.Errorf("observation retrieval failed: %w", err)
			}
			return CurrentConditions{
				StationID:        obs.StationID,
				ObservedAt:       obs.Timestamp,
				Description:      obs.Description,
				TemperatureF:     obs.TemperatureF(),
				TemperatureC:     obs.TemperatureC,
				DewpointC:        obs.DewpointC,
				WindSpeedKmh:     obs.WindSpeedKmh,
				WindDirectionDeg: obs.WindDirectionDeg,
				HumidityPercent:  obs.HumidityPercent,
			}, nil
		},
	}
}

func NewZoneCoordinatesAdapter(weather WeatherService) Adapter {
	return &funcAdapter{
		info: toolInfo(ToolGetZoneCoordinates, "Resolve an NWS zone id such as FLZ069 to its center coordinates.",
			map[string]*schema.ParameterInfo{
				"zone_id": {Type: schema.String, Desc: "NWS forecast or county zone id", Required: true},
			}),
		stateKey:  statex.KeyZoneCoordinates,
		cacheable: true,
		invoke: func(ctx context.Context, _ statex.Reader, args Args) (any, error) {
			id, err := args.RequireString("zone_id")
			if err != nil {
				return nil, err
			}
			id = strings.ToUpper(id)
			if len(id) != 6 {
				return nil, argError("zone_id", "must look like FLZ069")
			}
			zone, err := weather.Zone(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("zone lookup failed: %w", err)
			}
			return ZoneCoordinates{
				ZoneID:    zone.ID,
				Name:      zone.Name,
				State:     zone.State,
				Latitude:  zone.Latitude,
				Longitude: zone.Longitude,
			}, nil
		},
	}
}
