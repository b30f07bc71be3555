package weather

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	toolx "github.com/tanpawarit/weather-insights-advisor/agent/tool"
)

const (
	historyStationLimit = 5
	defaultHistoryDays  = 30
)

var (
	monthYearPattern = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(19[3-9]\d|20\d\d)\b`)
	isoMonthPattern  = regexp.MustCompile(`\b(19[3-9]\d|20\d\d)-(0[1-9]|1[0-2])\b`)
	yearPattern      = regexp.MustCompile(`\b(19[3-9]\d|20\d\d)\b`)
)

var monthPrefixes = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// HistoryPeriod is the date range a history request covers and the period
// its statistics are computed over. Month is 0 for a whole year.
type HistoryPeriod struct {
	Year  int
	Month int
	Start time.Time
	End   time.Time
}

func (p HistoryPeriod) Label() string {
	if p.Month > 0 {
		return fmt.Sprintf("%d-%02d", p.Year, p.Month)
	}
	return strconv.Itoa(p.Year)
}

// ParseHistoryPeriod reads "March 2024", "2024-03" or "2024" from text.
// Without one the period is the last 30 complete days. Ranges never reach
// past yesterday, since the daily summaries only cover finished days.
func ParseHistoryPeriod(text string, now time.Time) (HistoryPeriod, error) {
	now = now.UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	var p HistoryPeriod
	switch {
	case monthYearPattern.MatchString(text):
		m := monthYearPattern.FindStringSubmatch(text)
		p.Year, _ = strconv.Atoi(m[2])
		p.Month = monthIndex(m[1])
	case isoMonthPattern.MatchString(text):
		m := isoMonthPattern.FindStringSubmatch(text)
		p.Year, _ = strconv.Atoi(m[1])
		p.Month, _ = strconv.Atoi(m[2])
	case yearPattern.MatchString(text):
		p.Year, _ = strconv.Atoi(yearPattern.FindString(text))
	default:
		p.End = yesterday
		p.Start = yesterday.AddDate(0, 0, -(defaultHistoryDays - 1))
		p.Year, p.Month = yesterday.Year(), int(yesterday.Month())
		return p, nil
	}

	if p.Month > 0 {
		p.Start = time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
		p.End = p.Start.AddDate(0, 1, -1)
	} else {
		p.Start = time.Date(p.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		p.End = time.Date(p.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	if p.End.After(yesterday) {
		p.End = yesterday
	}
	if p.End.Before(p.Start) {
		return HistoryPeriod{}, invalid("no recorded days in %s yet", p.Label())
	}
	return p, nil
}

func monthIndex(name string) int {
	name = strings.ToLower(name)
	for i, prefix := range monthPrefixes {
		if strings.HasPrefix(name, prefix) {
			return i + 1
		}
	}
	return 0
}

// findStations lists the NOAA stations nearest the geocoded location. The
// stations are looked up by state, so a location without one is rejected.
func (t *Tasks) findStations(ctx context.Context, env *pipelinex.Env) (any, error) {
	loc, err := statex.Decode[LocationData](env.State, KeyLocationData)
	if err != nil {
		return nil, err
	}
	state := strings.ToUpper(loc.StateCode)
	if state == "" {
		state = StateCode(env.Request)
	}
	if state == "" {
		return nil, invalid("no state found for %s; weather stations are listed by state", loc.Location)
	}
	found, err := callAs[toolx.WeatherStations](ctx, env, toolx.ToolNearestStations, map[string]any{
		"state":     state,
		"latitude":  loc.Latitude,
		"longitude": loc.Longitude,
		"limit":     historyStationLimit,
	})
	if err != nil {
		return nil, err
	}
	return StationData{
		Location:  loc.Location,
		StateCode: found.StateCode,
		Stations:  nonNil(found.Stations),
	}, nil
}

// retrieveHistory reads daily history from the nearest station that has any
// and adds the period statistics for that station when they are available.
func (t *Tasks) retrieveHistory(ctx context.Context, env *pipelinex.Env) (any, error) {
	stations, err := statex.Decode[StationData](env.State, KeyStationData)
	if err != nil {
		return nil, err
	}
	if len(stations.Stations) == 0 {
		return nil, invalid("no weather stations found near %s", stations.Location)
	}
	period, err := ParseHistoryPeriod(env.Request.Text, time.Now())
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(stations.Stations))
	names := make(map[string]string, len(stations.Stations))
	for _, s := range stations.Stations {
		ids = append(ids, s.USAF)
		names[s.USAF] = s.Name
	}
	history, err := callAs[toolx.HistoricalWeather](ctx, env, toolx.ToolHistoricalWeather, map[string]any{
		"station_ids": ids,
		"start_date":  period.Start.Format(time.DateOnly),
		"end_date":    period.End.Format(time.DateOnly),
	})
	if err != nil {
		return nil, err
	}

	bundle := HistoryBundle{
		Location:    stations.Location,
		Period:      period.Label(),
		StationName: names[history.StationID],
		History:     history,
	}
	statsArgs := map[string]any{"station_id": history.StationID, "year": period.Year}
	if period.Month > 0 {
		statsArgs["month"] = period.Month
	}
	if stats, ok := tryAs[toolx.WeatherStatistics](ctx, env, toolx.ToolWeatherStatistics, statsArgs); ok {
		bundle.Statistics = &stats
	}
	return bundle, nil
}

func (t *Tasks) formatHistory(ctx context.Context, env *pipelinex.Env) (any, error) {
	bundle, err := statex.Decode[HistoryBundle](env.State, KeyHistoryBundle)
	if err != nil {
		return nil, err
	}
	summary := SummarizeHistory(bundle)
	summary.Insights = t.insight(ctx, env, summary, historyInsight(summary))
	return summary, nil
}

// SummarizeHistory folds daily records into the period extremes and totals.
// Days without a reading do not count towards the averages.
func SummarizeHistory(b HistoryBundle) HistorySummary {
	h := b.History
	station := b.StationName
	if station == "" {
		station = h.StationID
	}
	out := HistorySummary{
		Location:     b.Location,
		Station:      station,
		StationID:    h.StationID,
		StartDate:    h.StartDate,
		EndDate:      h.EndDate,
		DaysRecorded: len(h.Records),
		Statistics:   b.Statistics,
	}

	var tempSum float64
	var tempDays int
	var wettest float64
	for _, r := range h.Records {
		if r.Temperature != nil {
			tempSum += *r.Temperature
			tempDays++
		}
		if r.MaxTemp != nil && (out.HighestTemperature == nil || *r.MaxTemp > *out.HighestTemperature) {
			v := *r.MaxTemp
			out.HighestTemperature = &v
			out.HottestDay = r.Date
		}
		if r.MinTemp != nil && (out.LowestTemperature == nil || *r.MinTemp < *out.LowestTemperature) {
			v := *r.MinTemp
			out.LowestTemperature = &v
		}
		if r.Precipitation != nil {
			out.TotalPrecipitation += *r.Precipitation
			if *r.Precipitation > wettest {
				wettest = *r.Precipitation
				out.WettestDay = r.Date
			}
		}
	}
	if tempDays > 0 {
		avg := math.Round(tempSum/float64(tempDays)*10) / 10
		out.AvgTemperature = &avg
	}
	out.TotalPrecipitation = math.Round(out.TotalPrecipitation*100) / 100
	return out
}

func historyInsight(s HistorySummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d days of readings from %s between %s and %s.", s.Location, s.DaysRecorded, s.Station, s.StartDate, s.EndDate)
	if s.AvgTemperature != nil {
		fmt.Fprintf(&b, " The average temperature was %.1f°F", *s.AvgTemperature)
		if s.HighestTemperature != nil && s.LowestTemperature != nil {
			fmt.Fprintf(&b, ", ranging from %.0f°F to %.0f°F", *s.LowestTemperature, *s.HighestTemperature)
		}
		b.WriteString(".")
	}
	if s.WettestDay != "" {
		fmt.Fprintf(&b, " %.2f in of precipitation fell in total, most of it on %s.", s.TotalPrecipitation, s.WettestDay)
	} else {
		b.WriteString(" No precipitation was recorded.")
	}
	if s.HighestTemperature != nil && *s.HighestTemperature >= 95 {
		fmt.Fprintf(&b, " Heat peaked on %s; plan for similar extremes in the same season.", s.HottestDay)
	}
	return b.String()
}
