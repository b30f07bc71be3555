package weather

import (
	"context"
	"fmt"
	"math"
	"strings"

	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	toolx "github.com/tanpawarit/weather-insights-advisor/agent/tool"
)

const maxForecastDays = 7

// geocodeLocation resolves the request location. Caller coordinates are used
// as given; otherwise the hinted or extracted place name is geocoded.
func (t *Tasks) geocodeLocation(ctx context.Context, env *pipelinex.Env) (any, error) {
	req := env.Request
	name := strings.TrimSpace(req.Hints.Location)
	if lat, lng, ok := req.Hints.Coordinates(); ok {
		if name == "" {
			name = fmt.Sprintf("%.4f,%.4f", lat, lng)
		}
		return LocationData{
			Location:  name,
			Latitude:  lat,
			Longitude: lng,
			StateCode: strings.ToUpper(req.Hints.StateCode),
			County:    req.Hints.County,
		}, nil
	}

	if name == "" {
		name = ExtractLocation(req.Text)
	}
	if name == "" {
		return nil, invalid("no location found in the request; name a city, ZIP code or address")
	}
	geo, err := callAs[toolx.GeocodeResult](ctx, env, toolx.ToolGeocodeAddress, map[string]any{"address": name})
	if err != nil {
		return nil, err
	}
	return LocationData{
		Location:         name,
		Latitude:         geo.Latitude,
		Longitude:        geo.Longitude,
		FormattedAddress: geo.FormattedAddress,
		StateCode:        geo.StateCode,
		County:           geo.County,
	}, nil
}

func (t *Tasks) retrieveForecast(ctx context.Context, env *pipelinex.Env) (any, error) {
	loc, err := statex.Decode[LocationData](env.State, KeyLocationData)
	if err != nil {
		return nil, err
	}
	period := toolx.PeriodSevenDay
	if text := strings.ToLower(env.Request.Text); strings.Contains(text, "hourly") || strings.Contains(text, "hour by hour") {
		period = toolx.PeriodHourly
	}
	coords := map[string]any{"latitude": loc.Latitude, "longitude": loc.Longitude}

	fc, err := callAs[toolx.ForecastData](ctx, env, toolx.ToolGetForecast, map[string]any{
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
		"period":    period,
	})
	if err != nil {
		return nil, err
	}
	bundle := ForecastBundle{
		Location:  loc.Location,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Forecast:  fc,
	}
	if cc, ok := tryAs[toolx.CurrentConditions](ctx, env, toolx.ToolGetCurrentConditions, coords); ok {
		bundle.CurrentConditions = &cc
	}
	return bundle, nil
}

func (t *Tasks) formatForecast(ctx context.Context, env *pipelinex.Env) (any, error) {
	bundle, err := statex.Decode[ForecastBundle](env.State, KeyForecastBundle)
	if err != nil {
		return nil, err
	}
	summary := ForecastSummary{
		Location:          bundle.Location,
		Coordinates:       Coordinates{Latitude: bundle.Latitude, Longitude: bundle.Longitude},
		CurrentConditions: describeCurrent(bundle),
		DailyForecasts:    DailyForecasts(bundle.Forecast.Periods),
	}
	summary.Insights = t.insight(ctx, env, summary, forecastInsight(summary))
	return summary, nil
}

func describeCurrent(b ForecastBundle) string {
	if cc := b.CurrentConditions; cc != nil {
		parts := []string{}
		if cc.Description != "" {
			parts = append(parts, cc.Description)
		}
		if cc.TemperatureF != nil {
			parts = append(parts, fmt.Sprintf("%.0f°F", *cc.TemperatureF))
		}
		if cc.WindSpeedKmh != nil {
			parts = append(parts, fmt.Sprintf("wind %.0f mph", *cc.WindSpeedKmh*0.621371))
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ") + " at " + cc.StationID
		}
	}
	if len(b.Forecast.Periods) > 0 {
		p := b.Forecast.Periods[0]
		return fmt.Sprintf("%s: %s, %d°%s", p.Name, p.ShortForecast, p.Temperature, p.TemperatureUnit)
	}
	return "Unavailable"
}

// DailyForecasts folds forecast periods into one entry per calendar day.
// The high and low are the extremes over the day's periods, so both the
// 7-day (day/night) and hourly shapes work.
func DailyForecasts(periods []toolx.ForecastPeriod) []DailyForecast {
	out := []DailyForecast{}
	index := map[string]int{}
	seenDay := map[string]bool{}
	for _, p := range periods {
		date := p.StartTime.Format("2006-01-02")
		temp := fahrenheit(p.Temperature, p.TemperatureUnit)
		chance := 0
		if p.PrecipitationChance != nil {
			chance = *p.PrecipitationChance
		}

		i, ok := index[date]
		if !ok {
			if len(out) == maxForecastDays {
				continue
			}
			index[date] = len(out)
			out = append(out, DailyForecast{
				Date:                date,
				DayName:             p.StartTime.Weekday().String(),
				HighTemp:            temp,
				LowTemp:             temp,
				Conditions:          p.ShortForecast,
				Wind:                strings.TrimSpace(p.WindSpeed + " " + p.WindDirection),
				PrecipitationChance: chance,
			})
			seenDay[date] = p.IsDaytime
			continue
		}

		d := &out[i]
		d.HighTemp = max(d.HighTemp, temp)
		d.LowTemp = min(d.LowTemp, temp)
		d.PrecipitationChance = max(d.PrecipitationChance, chance)
		if p.IsDaytime && !seenDay[date] {
			d.Conditions = p.ShortForecast
			d.Wind = strings.TrimSpace(p.WindSpeed + " " + p.WindDirection)
			seenDay[date] = true
		}
	}
	return out
}

func fahrenheit(temp int, unit string) int {
	if strings.EqualFold(unit, "C") {
		return int(math.Round(float64(temp)*9/5 + 32))
	}
	return temp
}

func forecastInsight(s ForecastSummary) string {
	if len(s.DailyForecasts) == 0 {
		return fmt.Sprintf("No forecast periods were available for %s; check again shortly.", s.Location)
	}
	hi, lo := s.DailyForecasts[0].HighTemp, s.DailyForecasts[0].LowTemp
	wettest := s.DailyForecasts[0]
	for _, d := range s.DailyForecasts {
		hi = max(hi, d.HighTemp)
		lo = min(lo, d.LowTemp)
		if d.PrecipitationChance > wettest.PrecipitationChance {
			wettest = d
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: temperatures range from %d°F to %d°F over the next %d days.", s.Location, lo, hi, len(s.DailyForecasts))
	if wettest.PrecipitationChance >= 40 {
		fmt.Fprintf(&b, " %s has the highest rain chance (%d%%); plan outdoor activities around it.", wettest.DayName, wettest.PrecipitationChance)
	} else {
		b.WriteString(" Rain chances stay low, good conditions for outdoor plans.")
	}
	if hi >= 95 {
		b.WriteString(" Expect dangerous heat: stay hydrated and limit midday exertion.")
	}
	if lo <= 32 {
		b.WriteString(" Freezing temperatures are likely: protect pipes and plants.")
	}
	return b.String()
}
