package weather

import (
	"math"
	"sort"
	"strings"
	"testing"
	"time"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	"github.com/tanpawarit/weather-insights-advisor/pkg/nws"
	"github.com/tanpawarit/weather-insights-advisor/pkg/warehouse"
)

func TestDefinitionsCoverEveryIntent(t *testing.T) {
	t.Parallel()

	defs, err := Definitions(NewTasks(nil).Factory())
	if err != nil {
		t.Fatalf("load definitions: %v", err)
	}
	byIntent := map[contractx.Intent]string{}
	for _, def := range defs {
		byIntent[def.Intent] = def.Name
	}
	for _, intent := range contractx.Intents() {
		if byIntent[intent] == "" {
			t.Errorf("no pipeline for intent %s", intent)
		}
	}
	if got := byIntent[contractx.IntentAlerts]; got != "alerts_snapshot_pipeline" {
		t.Fatalf("alerts pipeline = %s", got)
	}

	names := NewTasks(nil).Names()
	sort.Strings(names)
	if len(names) != 19 {
		t.Fatalf("expected 19 tasks, got %d: %v", len(names), names)
	}
}

func TestForecastPipelineUsesGeocodedCoordinates(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.run(t, "forecast_pipeline", contractx.Request{Text: "What's the weather in Miami, FL this weekend?"})
	data := mustSucceed(t, res)

	if want := [][2]float64{{25.7617, -80.1918}}; len(h.weather.forecastCalls) != 1 || h.weather.forecastCalls[0] != want[0] {
		t.Fatalf("forecast called with %v, want %v", h.weather.forecastCalls, want)
	}
	loc, ok := res.State[KeyLocationData].(map[string]any)
	if !ok {
		t.Fatalf("location_data missing from state: %v", res.State)
	}
	if loc["latitude"] != 25.7617 || loc["longitude"] != -80.1918 {
		t.Fatalf("unexpected location data: %v", loc)
	}
	if got := strings.Join(res.Stages, ","); got != "geocoding_agent,forecast_retriever,forecast_formatter" {
		t.Fatalf("stages = %s", got)
	}

	days := listOf(t, data["daily_forecasts"])
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0]["date"] != "2026-10-17" || days[0]["high_temp"] != 86 || days[0]["low_temp"] != 75 {
		t.Fatalf("unexpected first day: %v", days[0])
	}
	if days[1]["precipitation_chance"] != 60 || days[1]["conditions"] != "Showers" {
		t.Fatalf("unexpected second day: %v", days[1])
	}
	if cc, _ := data["current_conditions"].(string); !strings.Contains(cc, "KMIA") {
		t.Fatalf("current conditions = %q", cc)
	}
	if insights, _ := data["insights"].(string); !strings.Contains(insights, "Sunday") {
		t.Fatalf("insights should name the wettest day: %q", insights)
	}
}

func TestForecastPipelineWithoutLocationIsInvalid(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.run(t, "forecast_pipeline", contractx.Request{Text: "what's the weather like"})
	if res.OK() || res.Kind != contractx.KindInvalidRequest || res.Stage != "geocoding_agent" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestForecastPipelineHintedCoordinatesSkipGeocoding(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	lat, lng := 30.2672, -97.7431
	res := h.run(t, "forecast_pipeline", contractx.Request{
		Text:  "forecast please",
		Hints: contractx.Hints{Location: "Austin", Latitude: &lat, Longitude: &lng},
	})
	mustSucceed(t, res)
	if h.weather.forecastCalls[0] != [2]float64{lat, lng} {
		t.Fatalf("forecast called with %v", h.weather.forecastCalls)
	}
	if _, ok := res.State["geocode_result"]; ok {
		t.Fatal("geocoder should not run when coordinates are hinted")
	}
}

func TestAlertsPipelineUnknownStateFailsWithoutProviderCall(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.run(t, "alerts_snapshot_pipeline", contractx.Request{Text: "Any weather alerts for ZZ?"})
	if res.OK() {
		t.Fatalf("expected failure, got %+v", res.Data)
	}
	if res.Kind != contractx.KindToolError || res.Stage != "alerts_retriever" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Message, "retrieval failed") {
		t.Fatalf("message should reference retrieval failure: %s", res.Message)
	}
	if len(h.weather.alertQueries) != 0 {
		t.Fatalf("provider should not be called: %v", h.weather.alertQueries)
	}
	if _, ok := res.State[KeyFormattedAlerts]; ok {
		t.Fatal("later stages must not run")
	}
}

func TestAlertsPipelineMapsZonesAtTheirMean(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	onset := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	h.weather.alerts = []nws.Alert{
		{Event: "Coastal Flood Advisory", Severity: "Moderate", AreaDesc: "Palm Beach", AffectedZones: []string{"FLZ168"}, Onset: &onset},
		{Event: "Hurricane Warning", Severity: "Extreme", AreaDesc: "Miami-Dade; Broward", AffectedZones: []string{"FLZ173"}, Description: strings.Repeat("Dangerous storm surge. ", 20)},
		{Event: "Flood Warning", Severity: "Severe", AreaDesc: "Collier", AffectedZones: []string{"FLZ069", "XXZ999"}},
	}
	h.weather.zones = map[string]nws.Zone{
		"FLZ168": {ID: "FLZ168", Name: "Palm Beach", Latitude: 27.0, Longitude: -82.0},
		"FLZ173": {ID: "FLZ173", Name: "Miami-Dade", Latitude: 25.0, Longitude: -80.0},
		"FLZ069": {ID: "FLZ069", Name: "Collier", Latitude: 26.0, Longitude: -81.0},
	}

	res := h.run(t, "alerts_snapshot_pipeline", contractx.Request{Text: "Show active alerts in Florida"})
	data := mustSucceed(t, res)

	if q := h.weather.alertQueries; len(q) != 1 || q[0].Area != "FL" {
		t.Fatalf("unexpected alert queries: %+v", q)
	}
	alerts := listOf(t, data["alerts"])
	if alerts[0]["event"] != "Hurricane Warning" || alerts[2]["event"] != "Coastal Flood Advisory" {
		t.Fatalf("alerts not ordered by severity: %v", alerts)
	}
	if short, _ := alerts[0]["description_short"].(string); len([]rune(short)) != shortDescriptionLimit || !strings.HasSuffix(short, "...") {
		t.Fatalf("description_short = %q", short)
	}
	if alerts[2]["start_time"] != "2026-10-17T12:00:00Z" {
		t.Fatalf("start_time = %v", alerts[2]["start_time"])
	}
	if data["total_count"] != 3 || data["severe_count"] != 2 {
		t.Fatalf("counts = %v/%v", data["total_count"], data["severe_count"])
	}

	m, ok := data["map_data"].(map[string]any)
	if !ok {
		t.Fatalf("map_data missing: %v", data)
	}
	lat, lng := number(t, m["center_lat"]), number(t, m["center_lng"])
	if math.Abs(lat-26.0) > 1e-9 || math.Abs(lng+81.0) > 1e-9 {
		t.Fatalf("center = %v,%v, want mean 26,-81", lat, lng)
	}
	if zoom, ok := m["zoom"].(int); !ok || zoom < 1 || zoom > 20 {
		t.Fatalf("zoom %v is not an integer within 1..20", m["zoom"])
	}
	if markers, _ := m["markers"].([]any); len(markers) != 3 {
		t.Fatalf("expected 3 markers (unresolvable zone skipped), got %v", m["markers"])
	}
}

func TestAlertsPipelineEmptyStateIsSuccess(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.run(t, "alerts_snapshot_pipeline", contractx.Request{Text: "alerts", Hints: contractx.Hints{StateCode: "vt"}})
	data := mustSucceed(t, res)
	if data["total_count"] != 0 {
		t.Fatalf("total_count = %v", data["total_count"])
	}
	if alerts := listOf(t, data["alerts"]); len(alerts) != 0 {
		t.Fatalf("expected no alerts, got %v", alerts)
	}
	m := res.State[KeyAlertMap].(map[string]any)
	if m["zoom"] != 6 {
		t.Fatalf("state-level map zoom = %v", m["zoom"])
	}
}

func TestAlertsPipelineScopesStateAfterNonASCIIText(t *testing.T) {
	t.Parallel()

	for text, want := range map[string]string{
		"Ⱥ alerts in florida":    "FL",
		"İİİİİİ alerts in texas": "TX",
	} {
		h := newHarness(t)
		res := h.run(t, "alerts_snapshot_pipeline", contractx.Request{Text: text})
		mustSucceed(t, res)
		if q := h.weather.alertQueries; len(q) != 1 || q[0].Area != want {
			t.Fatalf("%q: alert queries = %+v, want area %s", text, q, want)
		}
	}
}

func TestAlertsPipelineIgnoresUppercaseWords(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.run(t, "alerts_snapshot_pipeline", contractx.Request{Text: "TV station alerts near the AC plant"})
	mustSucceed(t, res)
	if q := h.weather.alertQueries; len(q) != 1 || q[0].Area != "" {
		t.Fatalf("expected one national query, got %+v", q)
	}
}

func TestRiskPipelineScoresCountyExposure(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.weather.alerts = []nws.Alert{
		{Event: "Flash Flood Warning", Severity: "Severe", Headline: "Flash flooding in Harris", AreaDesc: "Harris, TX; Fort Bend, TX"},
		{Event: "Heat Advisory", Severity: "Moderate", AreaDesc: "Dallas, TX"},
	}
	h.warehouse.population = 4_700_000
	h.warehouse.zones["TX"] = []warehouse.FloodZone{
		{ZoneID: "TX-H1", CountyName: "Harris", RiskLevel: "high", Population: 120000, Latitude: 29.7, Longitude: -95.3},
		{ZoneID: "TX-M1", CountyName: "Harris", RiskLevel: "Moderate", Population: 40000, Latitude: 29.8, Longitude: -95.4},
	}

	res := h.run(t, "risk_analysis_pipeline", contractx.Request{Text: "What is the flood risk in Harris County, TX?"})
	data := mustSucceed(t, res)

	alertData := res.State[KeyAlertData].(map[string]any)
	if alertData["alert_count"] != 1 || alertData["highest_severity"] != "Severe" || alertData["county"] != "Harris" {
		t.Fatalf("unexpected alert data: %v", alertData)
	}
	if data["risk_score"] != 90.0 || data["risk_level"] != "Severe" {
		t.Fatalf("risk = %v %v", data["risk_score"], data["risk_level"])
	}
	if data["evacuation_needed"] != true || data["population_at_risk"] != 4_700_000 {
		t.Fatalf("unexpected summary: %v", data)
	}
	if zones, _ := data["vulnerable_areas"].([]any); len(zones) != 1 || zones[0] != "TX-H1" {
		t.Fatalf("vulnerable areas = %v", data["vulnerable_areas"])
	}
	if recs, _ := data["recommendations"].([]any); len(recs) < 4 {
		t.Fatalf("expected tiered plus flood recommendations, got %v", recs)
	}
	census := res.State[KeyCensusData].(map[string]any)
	if tracts := listOf(t, census["top_tracts"]); len(tracts) != 2 || tracts[0]["name"] != "Tract 2" {
		t.Fatalf("tracts should be ordered by population: %v", tracts)
	}
}

func TestRiskPipelineNeedsAState(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.run(t, "risk_analysis_pipeline", contractx.Request{Text: "how risky is it out there"})
	if res.Kind != contractx.KindInvalidRequest || res.Stage != "alert_retriever" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestEmergencyResourcesPipelineFindsNearestFacilities(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.run(t, "emergency_resources_pipeline", contractx.Request{
		Text:  "Where are the nearest shelters and hospitals near Miami, FL?",
		Hints: contractx.Hints{RadiusMeters: 5000},
	})
	data := mustSucceed(t, res)

	if len(h.maps.nearby) != 2 {
		t.Fatalf("expected two nearby searches, got %+v", h.maps.nearby)
	}
	for _, q := range h.maps.nearby {
		if q.RadiusMeters != 5000 {
			t.Fatalf("radius hint not forwarded: %+v", q)
		}
	}
	shelters := listOf(t, data["shelters"])
	if len(shelters) != 2 || shelters[0]["name"] != "Near Shelter" {
		t.Fatalf("shelters should be nearest first: %v", shelters)
	}
	if d, _ := shelters[0]["distance"].(float64); d <= 0 || d > 1 {
		t.Fatalf("nearest shelter distance = %v miles", shelters[0]["distance"])
	}
	routes := listOf(t, data["evacuation_routes"])
	if len(routes) != 2 {
		t.Fatalf("expected shelter and hospital routes, got %v", routes)
	}
	if routes[0]["destination"] != "Near Shelter" || routes[0]["estimated_time"] != "5 min" || routes[0]["distance"] != 1.0 {
		t.Fatalf("unexpected route: %v", routes[0])
	}
	if routes[1]["destination"] != "Jackson Memorial" {
		t.Fatalf("unexpected hospital route: %v", routes[1])
	}
}

func TestHurricanePipelinePrioritizesFloodZones(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.warehouse.zones["FL"] = []warehouse.FloodZone{
		{ZoneID: "FL-1", CountyName: "Miami-Dade", RiskLevel: "High", Population: 150000, Latitude: 25.8, Longitude: -80.3},
		{ZoneID: "FL-2", CountyName: "Lee", RiskLevel: "Moderate", Population: 60000, Latitude: 26.6, Longitude: -81.9},
	}
	h.warehouse.zones["GA"] = []warehouse.FloodZone{
		{ZoneID: "GA-1", CountyName: "Chatham", RiskLevel: "Low", Population: 5000, Latitude: 32.0, Longitude: -81.1},
		{ZoneID: "GA-X", CountyName: "Nowhere", RiskLevel: "High", Population: 500000, Latitude: 45.0, Longitude: -81.0},
	}

	res := h.run(t, "hurricane_analysis_pipeline", contractx.Request{Text: "Category 4 hurricane approaching Florida and Georgia"})
	data := mustSucceed(t, res)

	hd := res.State[KeyHurricaneData].(map[string]any)
	if hd["category"] != 4 || hd["min_lat"] != 24.40 || hd["max_lat"] != 35.00 {
		t.Fatalf("unexpected hurricane data: %v", hd)
	}
	if states, _ := data["affected_states"].([]any); len(states) != 2 || states[0] != "FL" || states[1] != "GA" {
		t.Fatalf("affected states = %v", data["affected_states"])
	}
	locs := listOf(t, data["prioritized_locations"])
	if len(locs) != 3 {
		t.Fatalf("zone outside the bounding box should be dropped: %v", locs)
	}
	wantScores := []float64{100, 88, 63}
	for i, want := range wantScores {
		if locs[i]["risk_score"] != want {
			t.Fatalf("location %d score = %v, want %v", i, locs[i]["risk_score"], want)
		}
	}
	if data["total_high_risk_locations"] != 2 || data["highest_risk_score"] != 100.0 {
		t.Fatalf("unexpected totals: %v", data)
	}
	details, _ := locs[0]["details"].(map[string]any)
	if name, _ := details["name"].(string); !strings.HasPrefix(name, "FL-1") {
		t.Fatalf("top priority = %v", details)
	}
}

func TestHurricanePipelineRequiresCategory(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.run(t, "hurricane_analysis_pipeline", contractx.Request{Text: "A hurricane is heading for Florida"})
	if res.Kind != contractx.KindInvalidRequest || res.Stage != "hurricane_profiler" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestHistoricalWeatherPipelineFallsBackToStationWithReadings(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	temp := func(v float64) *float64 { return &v }
	h.warehouse.stations = []warehouse.WeatherStation{
		{USAF: "722020", Name: "MIAMI INTL", State: "FL", Latitude: 25.79, Longitude: -80.32},
		{USAF: "722024", Name: "OPA LOCKA", State: "FL", Latitude: 25.9, Longitude: -80.28},
		{USAF: "911820", Name: "HONOLULU INTL", State: "HI", Latitude: 21.3, Longitude: -157.9},
	}
	march := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	h.warehouse.daily = map[string][]warehouse.DailyObservation{
		"722024": {
			{StationID: "722024", Date: march(3), MeanTemp: temp(78.4), MaxTemp: temp(86), MinTemp: temp(71), Precipitation: temp(1.2)},
			{StationID: "722024", Date: march(2), MeanTemp: temp(75.6), MaxTemp: temp(82), MinTemp: temp(69), Precipitation: temp(0.05)},
			{StationID: "722024", Date: march(1), MaxTemp: temp(80)},
		},
	}

	res := h.run(t, "historical_weather_pipeline", contractx.Request{Text: "How rainy was Miami, FL in March 2024?"})
	data := mustSucceed(t, res)

	if got := strings.Join(res.Stages, ","); got != "geocoding_agent,station_finder,history_retriever,history_formatter" {
		t.Fatalf("stages = %s", got)
	}
	if got := strings.Join(h.warehouse.dailyCalls, ","); got != "722020,722024" {
		t.Fatalf("stations tried = %s", got)
	}
	if from, to := h.warehouse.historyRange[0], h.warehouse.historyRange[1]; !from.Equal(march(1)) || !to.Equal(march(31)) {
		t.Fatalf("history range = %s..%s", from, to)
	}
	if len(h.warehouse.statsCalls) != 1 || h.warehouse.statsCalls[0] != [2]int{2024, 3} {
		t.Fatalf("statistics calls = %v", h.warehouse.statsCalls)
	}

	if data["station_id"] != "722024" || data["station"] != "OPA LOCKA" || data["days_recorded"] != 3 {
		t.Fatalf("unexpected summary: %v", data)
	}
	if number(t, data["avg_temperature"]) != 77 || number(t, data["highest_temperature"]) != 86 || number(t, data["lowest_temperature"]) != 69 {
		t.Fatalf("unexpected extremes: %v", data)
	}
	if math.Abs(number(t, data["total_precipitation"])-1.25) > 1e-9 || data["wettest_day"] != "2024-03-03" || data["hottest_day"] != "2024-03-03" {
		t.Fatalf("unexpected precipitation: %v", data)
	}
	if _, ok := data["statistics"].(map[string]any); !ok {
		t.Fatalf("statistics missing: %v", data)
	}
	if !strings.Contains(data["insights"].(string), "OPA LOCKA") {
		t.Fatalf("unexpected insights: %v", data["insights"])
	}
}

func TestHistoricalWeatherPipelineWithoutStations(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	res := h.run(t, "historical_weather_pipeline", contractx.Request{Text: "Weather history for Miami, FL in 2023"})
	if res.OK() || res.Stage != "station_finder" {
		t.Fatalf("expected station_finder failure, got %+v", res)
	}
	if len(h.warehouse.dailyCalls) != 0 {
		t.Fatalf("history queried without stations: %v", h.warehouse.dailyCalls)
	}
}
