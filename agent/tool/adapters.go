package tool

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	"github.com/tanpawarit/weather-insights-advisor/pkg/gmaps"
	"github.com/tanpawarit/weather-insights-advisor/pkg/nws"
	"github.com/tanpawarit/weather-insights-advisor/pkg/warehouse"
)

const (
	ToolGeocodeAddress       = "geocode_address"
	ToolGetDirections        = "get_directions"
	ToolSearchNearbyPlaces   = "search_nearby_places"
	ToolGetForecast          = "get_nws_forecast"
	ToolGetHourlyForecast    = "get_hourly_forecast"
	ToolGetAlerts            = "get_nws_alerts"
	ToolGetCurrentConditions = "get_current_conditions"
	ToolGetZoneCoordinates   = "get_zone_coordinates"
	ToolGenerateMap          = "generate_map"
	ToolCensusDemographics   = "get_census_demographics"
	ToolCensusTracts         = "get_census_tracts_in_area"
	ToolFloodRiskData        = "get_flood_risk_data"
	ToolCalculateRiskScore   = "calculate_risk_score"
	ToolEvacuationPriority   = "calculate_evacuation_priority"
	ToolNearestStations      = "find_nearest_weather_station"
	ToolHistoricalWeather    = "query_historical_weather"
	ToolWeatherStatistics    = "get_weather_statistics"
)

// WeatherService is the slice of the NWS client the weather adapters use.
type WeatherService interface {
	Forecast(ctx context.Context, lat, lng float64, hourly bool) (nws.Forecast, error)
	ActiveAlerts(ctx context.Context, q nws.AlertQuery) ([]nws.Alert, error)
	NearestStation(ctx context.Context, lat, lng float64) (string, error)
	LatestObservation(ctx context.Context, stationID string) (nws.Observation, error)
	Zone(ctx context.Context, zoneID string) (nws.Zone, error)
}

type MapsService interface {
	Geocode(ctx context.Context, address string) ([]gmaps.GeocodeResult, error)
	Directions(ctx context.Context, q gmaps.DirectionsQuery) ([]gmaps.Route, error)
	NearbySearch(ctx context.Context, q gmaps.NearbyQuery) ([]gmaps.Place, error)
}

type DataWarehouse interface {
	Demographics(ctx context.Context, state, county string) (warehouse.Demographics, error)
	Tracts(ctx context.Context, state, county string, limit int) ([]warehouse.CensusTract, error)
	FloodZones(ctx context.Context, state, county string) ([]warehouse.FloodZone, error)
}

// WeatherHistory reads the NOAA daily summaries kept in the warehouse.
type WeatherHistory interface {
	NearestStations(ctx context.Context, state string, lat, lng float64, limit int) ([]warehouse.WeatherStation, error)
	DailyObservations(ctx context.Context, stationID string, from, to time.Time, limit int) ([]warehouse.DailyObservation, error)
	Statistics(ctx context.Context, stationID string, year, month int) (warehouse.StationStatistics, error)
}

// Providers holds the external clients. A nil provider leaves its tools out
// of the catalog; the local tools are always present.
type Providers struct {
	Weather   WeatherService
	Maps      MapsService
	Warehouse DataWarehouse
	History   WeatherHistory
}

// Adapters builds every adapter the providers can back.
func Adapters(p Providers) []Adapter {
	var out []Adapter
	if p.Maps != nil {
		out = append(out,
			NewGeocodeAdapter(p.Maps),
			NewDirectionsAdapter(p.Maps),
			NewNearbyPlacesAdapter(p.Maps),
		)
	}
	if p.Weather != nil {
		out = append(out,
			NewForecastAdapter(p.Weather),
			NewHourlyForecastAdapter(p.Weather),
			NewAlertsAdapter(p.Weather),
			NewCurrentConditionsAdapter(p.Weather),
			NewZoneCoordinatesAdapter(p.Weather),
		)
	}
	if p.Warehouse != nil {
		out = append(out,
			NewCensusDemographicsAdapter(p.Warehouse),
			NewCensusTractsAdapter(p.Warehouse),
			NewFloodRiskAdapter(p.Warehouse),
		)
	}
	if p.History != nil {
		out = append(out,
			NewNearestStationsAdapter(p.History),
			NewHistoricalWeatherAdapter(p.History),
			NewWeatherStatisticsAdapter(p.History),
		)
	}
	out = append(out,
		NewMapAdapter(),
		NewRiskScoreAdapter(),
		NewEvacuationPriorityAdapter(),
	)
	return out
}

type invokeFunc func(ctx context.Context, view statex.Reader, args Args) (any, error)

// funcAdapter is the shared Adapter implementation; each tool supplies its
// description, state key and invoke function.
type funcAdapter struct {
	info      *schema.ToolInfo
	stateKey  string
	cacheable bool
	invoke    invokeFunc
}

func (a *funcAdapter) Info() *schema.ToolInfo { return a.info }
func (a *funcAdapter) StateKey() string       { return a.stateKey }
func (a *funcAdapter) Cacheable() bool        { return a.cacheable }

func (a *funcAdapter) Invoke(ctx context.Context, view statex.Reader, args Args) (any, error) {
	return a.invoke(ctx, view, args)
}

func toolInfo(name, desc string, params map[string]*schema.ParameterInfo) *schema.ToolInfo {
	return &schema.ToolInfo{
		Name:        name,
		Desc:        desc,
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}
}

// coordinatesFromView falls back to the last geocode result when a call
// carries no explicit coordinates.
func coordinatesFromView(view statex.Reader, args Args) (float64, float64, error) {
	if _, ok := args["latitude"]; ok {
		return args.Coordinates()
	}
	if _, ok := args["longitude"]; ok {
		return args.Coordinates()
	}
	if view != nil && view.Has(statex.KeyGeocodeResult) {
		geo, err := statex.Decode[GeocodeResult](view, statex.KeyGeocodeResult)
		if err == nil {
			return geo.Latitude, geo.Longitude, nil
		}
	}
	return args.Coordinates()
}
