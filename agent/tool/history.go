package tool

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	"github.com/tanpawarit/weather-insights-advisor/pkg/usgeo"
	"github.com/tanpawarit/weather-insights-advisor/pkg/warehouse"
)

const (
	dateLayout = "2006-01-02"

	// First year of the NOAA daily summaries.
	firstHistoryYear = 1929

	// Longest range one historical query may cover.
	maxHistorySpan = 366 * 24 * time.Hour
)

func NewNearestStationsAdapter(h WeatherHistory) Adapter {
	return &funcAdapter{
		info: toolInfo(ToolNearestStations, "Find the NOAA weather stations in a state nearest to a point.",
			map[string]*schema.ParameterInfo{
				"latitude":  {Type: schema.Number, Desc: "Latitude; defaults to the geocoded location"},
				"longitude": {Type: schema.Number, Desc: "Longitude; defaults to the geocoded location"},
				"state":     {Type: schema.String, Desc: "Two-letter state code the stations must be in", Required: true},
				"limit":     {Type: schema.Integer, Desc: "How many stations to return, default 3"},
			}),
		stateKey:  statex.KeyWeatherStations,
		cacheable: true,
		invoke: func(ctx context.Context, view statex.Reader, args Args) (any, error) {
			state, _, err := areaArgs(args)
			if err != nil {
				return nil, err
			}
			lat, lng, err := coordinatesFromView(view, args)
			if err != nil {
				return nil, err
			}
			limit, err := args.Int("limit", warehouse.DefaultStationLimit)
			if err != nil {
				return nil, err
			}
			if limit < 1 || limit > 10 {
				return nil, argError("limit", "must be within 1..10")
			}

			rows, err := h.NearestStations(ctx, state, lat, lng, limit)
			if err != nil {
				return nil, fmt.Errorf("weather station lookup failed: %w", err)
			}
			out := WeatherStations{StateCode: state, Stations: make([]WeatherStation, 0, len(rows))}
			origin := usgeo.Point{Lat: lat, Lng: lng}
			for _, r := range rows {
				out.Stations = append(out.Stations, WeatherStation{
					USAF:       r.USAF,
					WBAN:       r.WBAN,
					Name:       r.Name,
					State:      r.State,
					Latitude:   r.Latitude,
					Longitude:  r.Longitude,
					DistanceKm: round1(usgeo.DistanceKm(origin, usgeo.Point{Lat: r.Latitude, Lng: r.Longitude})),
				})
			}
			out.Count = len(out.Stations)
			return out, nil
		},
	}
}

// NewHistoricalWeatherAdapter tries each station in order and returns the
// first one that has readings for the range. Without station_ids it uses the
// stations found earlier in the run.
func NewHistoricalWeatherAdapter(h WeatherHistory) Adapter {
	return &funcAdapter{
		info: toolInfo(ToolHistoricalWeather, "Get daily NOAA weather history, falling back through a list of stations.",
			map[string]*schema.ParameterInfo{
				"station_ids": {Type: schema.Array, ElemInfo: &schema.ParameterInfo{Type: schema.String}, Desc: "USAF station ids, nearest first"},
				"start_date":  {Type: schema.String, Desc: "First day, YYYY-MM-DD", Required: true},
				"end_date":    {Type: schema.String, Desc: "Last day, YYYY-MM-DD", Required: true},
			}),
		stateKey:  statex.KeyHistoricalWeather,
		cacheable: true,
		invoke: func(ctx context.Context, view statex.Reader, args Args) (any, error) {
			from, to, err := dateRange(args)
			if err != nil {
				return nil, err
			}
			ids, err := stationIDs(view, args)
			if err != nil {
				return nil, err
			}

			var failures []string
			for i, id := range ids {
				rows, err := h.DailyObservations(ctx, id, from, to, warehouse.DefaultObservationLimit)
				if err != nil {
					if ctxErr := ctx.Err(); ctxErr != nil {
						return nil, ctxErr
					}
					failures = append(failures, id+": "+err.Error())
					continue
				}
				if len(rows) == 0 {
					continue
				}
				out := HistoricalWeather{
					StationID:     id,
					StartDate:     from.Format(dateLayout),
					EndDate:       to.Format(dateLayout),
					StationsTried: i + 1,
					TotalStations: len(ids),
					Records:       make([]DailyWeather, 0, len(rows)),
				}
				for _, r := range rows {
					out.Records = append(out.Records, DailyWeather{
						Date:          r.Date.Format(dateLayout),
						Temperature:   r.MeanTemp,
						MaxTemp:       r.MaxTemp,
						MinTemp:       r.MinTemp,
						Precipitation: r.Precipitation,
						SnowDepth:     r.SnowDepth,
						WindSpeed:     r.WindSpeed,
						MaxWindSpeed:  r.MaxWindSpeed,
					})
				}
				out.Count = len(out.Records)
				return out, nil
			}
			if len(failures) == len(ids) {
				return nil, fmt.Errorf("historical weather lookup failed: %s", strings.Join(failures, "; "))
			}
			return nil, fmt.Errorf("no readings between %s and %s from any of %d stations",
				from.Format(dateLayout), to.Format(dateLayout), len(ids))
		},
	}
}

func NewWeatherStatisticsAdapter(h WeatherHistory) Adapter {
	return &funcAdapter{
		info: toolInfo(ToolWeatherStatistics, "Get temperature, rain and wind averages and extremes for a station over a year or month.",
			map[string]*schema.ParameterInfo{
				"station_id": {Type: schema.String, Desc: "USAF station id", Required: true},
				"year":       {Type: schema.Integer, Desc: "Calendar year", Required: true},
				"month":      {Type: schema.Integer, Desc: "Month 1..12 for monthly figures"},
			}),
		stateKey:  statex.KeyWeatherStatistics,
		cacheable: true,
		invoke: func(ctx context.Context, _ statex.Reader, args Args) (any, error) {
			id, err := args.RequireString("station_id")
			if err != nil {
				return nil, err
			}
			year, err := args.Int("year", 0)
			if err != nil {
				return nil, err
			}
			if year < firstHistoryYear || year > time.Now().Year() {
				return nil, argError("year", fmt.Sprintf("must be within %d..%d", firstHistoryYear, time.Now().Year()))
			}
			month, err := args.Int("month", 0)
			if err != nil {
				return nil, err
			}
			if month < 0 || month > 12 {
				return nil, argError("month", "must be within 1..12")
			}

			stats, err := h.Statistics(ctx, id, year, month)
			if err != nil {
				return nil, fmt.Errorf("weather statistics lookup failed: %w", err)
			}
			period := fmt.Sprintf("%d", year)
			if month > 0 {
				period = fmt.Sprintf("%d-%02d", year, month)
			}
			return WeatherStatistics{
				StationID:          id,
				Period:             period,
				AvgTemperature:     round1Ptr(stats.AvgTemp),
				HighestTemperature: stats.HighestTemp,
				LowestTemperature:  stats.LowestTemp,
				AvgPrecipitation:   round2Ptr(stats.AvgPrecipitation),
				TotalPrecipitation: round2Ptr(stats.TotalPrecipitation),
				AvgWindSpeed:       round1Ptr(stats.AvgWindSpeed),
				MaxWindSpeed:       stats.MaxWindSpeed,
				DaysRecorded:       stats.DaysRecorded,
			}, nil
		},
	}
}

func dateRange(args Args) (from, to time.Time, err error) {
	parse := func(key string) (time.Time, error) {
		raw, err := args.RequireString(key)
		if err != nil {
			return time.Time{}, err
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return time.Time{}, argError(key, "must be a YYYY-MM-DD date")
		}
		return t, nil
	}
	if from, err = parse("start_date"); err != nil {
		return
	}
	if to, err = parse("end_date"); err != nil {
		return
	}
	if to.Before(from) {
		return from, to, argError("end_date", "must not be before start_date")
	}
	if to.Sub(from) > maxHistorySpan {
		return from, to, argError("end_date", "range may cover at most one year")
	}
	return from, to, nil
}

func stationIDs(view statex.Reader, args Args) ([]string, error) {
	ids, present, err := Decode[[]string](args, "station_ids")
	if err != nil {
		return nil, err
	}
	if !present && view != nil && view.Has(statex.KeyWeatherStations) {
		found, derr := statex.Decode[WeatherStations](view, statex.KeyWeatherStations)
		if derr == nil {
			for _, s := range found.Stations {
				ids = append(ids, s.USAF)
			}
		}
	}
	out := ids[:0]
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, argError("station_ids", "at least one station id is required")
	}
	return out, nil
}

func round1Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := round1(*v)
	return &r
}

func round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := math.Round(*v*100) / 100
	return &r
}
