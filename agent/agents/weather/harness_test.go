package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
	toolx "github.com/tanpawarit/weather-insights-advisor/agent/tool"
	"github.com/tanpawarit/weather-insights-advisor/pkg/gmaps"
	"github.com/tanpawarit/weather-insights-advisor/pkg/nws"
	"github.com/tanpawarit/weather-insights-advisor/pkg/warehouse"
)

var errNotFound = errors.New("not found")

func intPtr(v int) *int { return &v }

type fakeWeather struct {
	mu            sync.Mutex
	forecastCalls [][2]float64
	alertQueries  []nws.AlertQuery
	alerts        []nws.Alert
	zones         map[string]nws.Zone
}

func (f *fakeWeather) Forecast(_ context.Context, lat, lng float64, hourly bool) (nws.Forecast, error) {
	f.mu.Lock()
	f.forecastCalls = append(f.forecastCalls, [2]float64{lat, lng})
	f.mu.Unlock()

	day := time.Date(2026, 10, 17, 6, 0, 0, 0, time.UTC)
	return nws.Forecast{
		Point: nws.Point{GridID: "MFL", GridX: 110, GridY: 50, City: "Miami", State: "FL"},
		Periods: []nws.Period{
			{Name: "Today", StartTime: day, IsDaytime: true, Temperature: 86, TemperatureUnit: "F", ShortForecast: "Sunny", WindSpeed: "10 mph", WindDirection: "E", PrecipitationChance: intPtr(20)},
			{Name: "Tonight", StartTime: day.Add(12 * time.Hour), Temperature: 75, TemperatureUnit: "F", ShortForecast: "Clear"},
			{Name: "Sunday", StartTime: day.Add(24 * time.Hour), IsDaytime: true, Temperature: 88, TemperatureUnit: "F", ShortForecast: "Showers", PrecipitationChance: intPtr(60)},
			{Name: "Sunday Night", StartTime: day.Add(36 * time.Hour), Temperature: 76, TemperatureUnit: "F", ShortForecast: "Showers Likely"},
		},
	}, nil
}

func (f *fakeWeather) ActiveAlerts(_ context.Context, q nws.AlertQuery) ([]nws.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alertQueries = append(f.alertQueries, q)
	return f.alerts, nil
}

func (f *fakeWeather) NearestStation(context.Context, float64, float64) (string, error) {
	return "KMIA", nil
}

func (f *fakeWeather) LatestObservation(_ context.Context, id string) (nws.Observation, error) {
	c := 29.0
	return nws.Observation{StationID: id, Description: "Partly Cloudy", TemperatureC: &c}, nil
}

func (f *fakeWeather) Zone(_ context.Context, id string) (nws.Zone, error) {
	z, ok := f.zones[id]
	if !ok {
		return nws.Zone{}, errNotFound
	}
	return z, nil
}

type fakeMaps struct {
	mu         sync.Mutex
	nearby     []gmaps.NearbyQuery
	directions []gmaps.DirectionsQuery
}

func (f *fakeMaps) Geocode(_ context.Context, address string) ([]gmaps.GeocodeResult, error) {
	if address != "Miami, FL" {
		return nil, nil
	}
	var r gmaps.GeocodeResult
	r.FormattedAddress = "Miami, FL, USA"
	r.PlaceID = "miami"
	r.Geometry.Location = gmaps.LatLng{Lat: 25.7617, Lng: -80.1918}
	r.AddressComponents = []gmaps.AddressComponent{
		{LongName: "Miami", ShortName: "Miami", Types: []string{"locality"}},
		{LongName: "Florida", ShortName: "FL", Types: []string{"administrative_area_level_1"}},
	}
	return []gmaps.GeocodeResult{r}, nil
}

func (f *fakeMaps) Directions(_ context.Context, q gmaps.DirectionsQuery) ([]gmaps.Route, error) {
	f.mu.Lock()
	f.directions = append(f.directions, q)
	f.mu.Unlock()

	leg := gmaps.Leg{
		StartAddress: q.Origin,
		EndAddress:   q.Destination,
		Steps:        []gmaps.Step{{Instructions: "Head <b>north</b> on Biscayne Blvd"}},
	}
	leg.Distance.Value = 1609
	leg.Duration.Value = 300
	return []gmaps.Route{{Summary: "Biscayne Blvd", Legs: []gmaps.Leg{leg}}}, nil
}

func place(name string, lat, lng float64) gmaps.Place {
	p := gmaps.Place{Name: name, PlaceID: name, Vicinity: name + " address"}
	p.Geometry.Location = gmaps.LatLng{Lat: lat, Lng: lng}
	return p
}

func (f *fakeMaps) NearbySearch(_ context.Context, q gmaps.NearbyQuery) ([]gmaps.Place, error) {
	f.mu.Lock()
	f.nearby = append(f.nearby, q)
	f.mu.Unlock()

	switch {
	case q.Keyword == "emergency shelter":
		return []gmaps.Place{
			place("Far Shelter", 25.90, -80.19),
			place("Near Shelter", 25.77, -80.19),
		}, nil
	case q.Type == "hospital":
		return []gmaps.Place{place("Jackson Memorial", 25.79, -80.21)}, nil
	default:
		return nil, nil
	}
}

type fakeWarehouse struct {
	population int64
	zones      map[string][]warehouse.FloodZone

	mu           sync.Mutex
	stations     []warehouse.WeatherStation
	daily        map[string][]warehouse.DailyObservation
	dailyCalls   []string
	historyRange [2]time.Time
	statsCalls   [][2]int
}

func (f *fakeWarehouse) Demographics(_ context.Context, state, county string) (warehouse.Demographics, error) {
	return warehouse.Demographics{
		StateCode:        state,
		County:           county,
		Counties:         1,
		TotalPopulation:  f.population,
		MedianIncome:     57000,
		PopulationOver65: f.population / 10,
		PovertyCount:     f.population / 5,
	}, nil
}

func (f *fakeWarehouse) Tracts(_ context.Context, state, county string, limit int) ([]warehouse.CensusTract, error) {
	return []warehouse.CensusTract{
		{GeoID: "1", TractName: "Tract 1", TotalPopulation: 4000},
		{GeoID: "2", TractName: "Tract 2", TotalPopulation: 9000},
	}, nil
}

func (f *fakeWarehouse) FloodZones(_ context.Context, state, _ string) ([]warehouse.FloodZone, error) {
	rows, ok := f.zones[state]
	if !ok {
		return nil, warehouse.ErrNoRows
	}
	return rows, nil
}

func (f *fakeWarehouse) NearestStations(_ context.Context, state string, _, _ float64, limit int) ([]warehouse.WeatherStation, error) {
	var out []warehouse.WeatherStation
	for _, s := range f.stations {
		if s.State == state && len(out) < limit {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, warehouse.ErrNoRows
	}
	return out, nil
}

func (f *fakeWarehouse) DailyObservations(_ context.Context, id string, from, to time.Time, _ int) ([]warehouse.DailyObservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dailyCalls = append(f.dailyCalls, id)
	f.historyRange = [2]time.Time{from, to}
	return f.daily[id], nil
}

func (f *fakeWarehouse) Statistics(_ context.Context, id string, year, month int) (warehouse.StationStatistics, error) {
	f.mu.Lock()
	f.statsCalls = append(f.statsCalls, [2]int{year, month})
	f.mu.Unlock()

	rows := f.daily[id]
	if len(rows) == 0 {
		return warehouse.StationStatistics{}, warehouse.ErrNoRows
	}
	return warehouse.StationStatistics{MaxWindSpeed: rows[0].MaxWindSpeed, DaysRecorded: len(rows)}, nil
}

type harness struct {
	weather   *fakeWeather
	maps      *fakeMaps
	warehouse *fakeWarehouse
	compiled  map[string]*pipelinex.Compiled
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		weather:   &fakeWeather{zones: map[string]nws.Zone{}},
		maps:      &fakeMaps{},
		warehouse: &fakeWarehouse{zones: map[string][]warehouse.FloodZone{}},
		compiled:  map[string]*pipelinex.Compiled{},
	}
	catalog, err := toolx.NewCatalog(toolx.Adapters(toolx.Providers{
		Weather:   h.weather,
		Maps:      h.maps,
		Warehouse: h.warehouse,
		History:   h.warehouse,
	})...)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	gw, err := toolx.NewGateway(catalog, toolx.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	exec, err := pipelinex.NewExecutor(gw)
	if err != nil {
		t.Fatalf("new executor: %v", err)
	}
	defs, err := Definitions(NewTasks(nil).Factory())
	if err != nil {
		t.Fatalf("load definitions: %v", err)
	}
	for _, def := range defs {
		c, err := exec.Compile(context.Background(), def)
		if err != nil {
			t.Fatalf("compile %s: %v", def.Name, err)
		}
		h.compiled[def.Name] = c
	}
	return h
}

func (h *harness) run(t *testing.T, pipeline string, req contractx.Request) contractx.PipelineResult {
	t.Helper()
	c, ok := h.compiled[pipeline]
	if !ok {
		t.Fatalf("pipeline %s not loaded", pipeline)
	}
	return c.Run(context.Background(), req)
}

func mustSucceed(t *testing.T, res contractx.PipelineResult) map[string]any {
	t.Helper()
	if !res.OK() {
		t.Fatalf("run failed at %s: %s: %s", res.Stage, res.Kind, res.Message)
	}
	data, ok := res.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is %T, want validated object", res.Data)
	}
	return data
}

func listOf(t *testing.T, v any) []map[string]any {
	t.Helper()
	items, ok := v.([]any)
	if !ok {
		t.Fatalf("expected list, got %T", v)
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			t.Fatalf("expected object element, got %T", item)
		}
		out = append(out, m)
	}
	return out
}

// number reads a numeric leaf of an open object, where whole values come
// back as int.
func number(t *testing.T, v any) float64 {
	t.Helper()
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		t.Fatalf("expected number, got %T", v)
		return 0
	}
}
