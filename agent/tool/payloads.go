package tool

import "time"

// Normalized adapter payloads. These are the shapes written to shared
// state; provider response types never leave the adapters.

type GeocodeResult struct {
	Query            string  `json:"query"`
	FormattedAddress string  `json:"formatted_address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	PlaceID          string  `json:"place_id,omitempty"`
	City             string  `json:"city,omitempty"`
	County           string  `json:"county,omitempty"`
	StateCode        string  `json:"state_code,omitempty"`
	Candidates       int     `json:"candidates"`
}

type ForecastPeriod struct {
	Name                string    `json:"name"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	IsDaytime           bool      `json:"is_daytime"`
	Temperature         int       `json:"temperature"`
	TemperatureUnit     string    `json:"temperature_unit"`
	WindSpeed           string    `json:"wind_speed,omitempty"`
	WindDirection       string    `json:"wind_direction,omitempty"`
	ShortForecast       string    `json:"short_forecast"`
	DetailedForecast    string    `json:"detailed_forecast,omitempty"`
	PrecipitationChance *int      `json:"precipitation_chance,omitempty"`
}

type ForecastData struct {
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Period    string           `json:"period"`
	Office    string           `json:"office"`
	GridX     int              `json:"grid_x"`
	GridY     int              `json:"grid_y"`
	City      string           `json:"city,omitempty"`
	State     string           `json:"state,omitempty"`
	TimeZone  string           `json:"time_zone,omitempty"`
	Updated   time.Time        `json:"updated"`
	Periods   []ForecastPeriod `json:"periods"`
}

type CurrentConditions struct {
	StationID        string    `json:"station_id"`
	ObservedAt       time.Time `json:"observed_at"`
	Description      string    `json:"description"`
	TemperatureF     *float64  `json:"temperature_f,omitempty"`
	TemperatureC     *float64  `json:"temperature_c,omitempty"`
	DewpointC        *float64  `json:"dewpoint_c,omitempty"`
	WindSpeedKmh     *float64  `json:"wind_speed_kmh,omitempty"`
	WindDirectionDeg *float64  `json:"wind_direction_deg,omitempty"`
	HumidityPercent  *float64  `json:"humidity_percent,omitempty"`
}

type AlertItem struct {
	ID            string     `json:"id"`
	Event         string     `json:"event"`
	Severity      string     `json:"severity"`
	Certainty     string     `json:"certainty,omitempty"`
	Urgency       string     `json:"urgency,omitempty"`
	Headline      string     `json:"headline"`
	Description   string     `json:"description,omitempty"`
	Instruction   string     `json:"instruction,omitempty"`
	AreaDesc      string     `json:"area_desc"`
	AffectedZones []string   `json:"affected_zones"`
	Onset         *time.Time `json:"onset,omitempty"`
	Expires       *time.Time `json:"expires,omitempty"`
}

// AlertsData.Scope is "national", "state:XX" or "point:lat,lng".
type AlertsData struct {
	Scope     string      `json:"scope"`
	StateCode string      `json:"state_code,omitempty"`
	Severity  []string    `json:"severity,omitempty"`
	Count     int         `json:"count"`
	Alerts    []AlertItem `json:"alerts"`
}

type ZoneCoordinates struct {
	ZoneID    string  `json:"zone_id"`
	Name      string  `json:"name"`
	State     string  `json:"state,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type MapMarker struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Title string  `json:"title"`
}

type MapData struct {
	CenterLat float64     `json:"center_lat"`
	CenterLng float64     `json:"center_lng"`
	Zoom      int         `json:"zoom"`
	Title     string      `json:"title,omitempty"`
	Markers   []MapMarker `json:"markers"`
	MapURL    string      `json:"map_url"`
}

type RouteStep struct {
	Instruction     string `json:"instruction"`
	DistanceMeters  int    `json:"distance_meters"`
	DurationSeconds int    `json:"duration_seconds"`
}

type RouteSummary struct {
	Summary         string      `json:"summary"`
	StartAddress    string      `json:"start_address"`
	EndAddress      string      `json:"end_address"`
	DistanceMeters  int         `json:"distance_meters"`
	DurationSeconds int         `json:"duration_seconds"`
	Warnings        []string    `json:"warnings,omitempty"`
	Steps           []RouteStep `json:"steps"`
}

type Directions struct {
	Origin      string         `json:"origin"`
	Destination string         `json:"destination"`
	Mode        string         `json:"mode"`
	Routes      []RouteSummary `json:"routes"`
}

type NearbyPlace struct {
	Name      string   `json:"name"`
	PlaceID   string   `json:"place_id"`
	Address   string   `json:"address"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Types     []string `json:"types,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
	OpenNow   *bool    `json:"open_now,omitempty"`
}

type NearbyPlaces struct {
	Location     string        `json:"location"`
	RadiusMeters int           `json:"radius_meters"`
	PlaceType    string        `json:"place_type,omitempty"`
	Keyword      string        `json:"keyword,omitempty"`
	Places       []NearbyPlace `json:"places"`
}

type CensusDemographics struct {
	StateCode         string  `json:"state_code"`
	County            string  `json:"county,omitempty"`
	Counties          int     `json:"counties"`
	TotalPopulation   int64   `json:"total_population"`
	MedianAge         float64 `json:"median_age"`
	MedianIncome      float64 `json:"median_income"`
	PopulationOver65  int64   `json:"population_over_65"`
	PopulationUnder18 int64   `json:"population_under_18"`
	Households        int64   `json:"households"`
	PovertyRate       float64 `json:"poverty_rate"`
	ElderlyShare      float64 `json:"elderly_share"`
}

type CensusTract struct {
	GeoID      string  `json:"geo_id"`
	Name       string  `json:"name"`
	County     string  `json:"county"`
	Population int64   `json:"population"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type CensusTracts struct {
	StateCode string        `json:"state_code"`
	County    string        `json:"county,omitempty"`
	Count     int           `json:"count"`
	Tracts    []CensusTract `json:"tracts"`
}

type FloodZoneEntry struct {
	ZoneID     string  `json:"zone_id"`
	County     string  `json:"county"`
	RiskLevel  string  `json:"risk_level"`
	Population int64   `json:"population"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

type FloodRisk struct {
	StateCode         string           `json:"state_code"`
	County            string           `json:"county,omitempty"`
	OverallRisk       string           `json:"overall_risk"`
	HighRiskZones     int              `json:"high_risk_zones"`
	ModerateRiskZones int              `json:"moderate_risk_zones"`
	LowRiskZones      int              `json:"low_risk_zones"`
	ExposedPopulation int64            `json:"exposed_population"`
	Zones             []FloodZoneEntry `json:"zones"`
}

type RiskAssessment struct {
	Severity        string  `json:"severity"`
	Population      int64   `json:"population"`
	FloodRisk       string  `json:"flood_risk"`
	SeverityScore   float64 `json:"severity_score"`
	PopulationScore float64 `json:"population_score"`
	FloodScore      float64 `json:"flood_score"`
	RiskScore       float64 `json:"risk_score"`
	RiskLevel       string  `json:"risk_level"`
}

type EvacuationLocation struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	FloodRisk  string  `json:"flood_risk"`
	Population int64   `json:"population"`
	RiskScore  float64 `json:"risk_score"`
	Rank       int     `json:"rank"`
}

type EvacuationPriority struct {
	HurricaneCategory int                  `json:"hurricane_category"`
	Considered        int                  `json:"considered"`
	Locations         []EvacuationLocation `json:"prioritized_locations"`
}

type WeatherStation struct {
	USAF       string  `json:"usaf"`
	WBAN       string  `json:"wban"`
	Name       string  `json:"name"`
	State      string  `json:"state"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

type WeatherStations struct {
	StateCode string           `json:"state_code"`
	Count     int              `json:"count"`
	Stations  []WeatherStation `json:"stations"`
}

// DailyWeather is one GSOD day. Readings the station did not report are nil.
type DailyWeather struct {
	Date          string   `json:"date"`
	Temperature   *float64 `json:"temperature"`
	MaxTemp       *float64 `json:"max_temp"`
	MinTemp       *float64 `json:"min_temp"`
	Precipitation *float64 `json:"precipitation"`
	SnowDepth     *float64 `json:"snow_depth"`
	WindSpeed     *float64 `json:"wind_speed"`
	MaxWindSpeed  *float64 `json:"max_wind_speed"`
}

type HistoricalWeather struct {
	StationID     string         `json:"usaf_id"`
	StartDate     string         `json:"start_date"`
	EndDate       string         `json:"end_date"`
	StationsTried int            `json:"stations_tried"`
	TotalStations int            `json:"total_stations"`
	Count         int            `json:"count"`
	Records       []DailyWeather `json:"records"`
}

type WeatherStatistics struct {
	StationID          string   `json:"station_id"`
	Period             string   `json:"period"`
	AvgTemperature     *float64 `json:"avg_temperature"`
	HighestTemperature *float64 `json:"highest_temperature"`
	LowestTemperature  *float64 `json:"lowest_temperature"`
	AvgPrecipitation   *float64 `json:"avg_precipitation"`
	TotalPrecipitation *float64 `json:"total_precipitation"`
	AvgWindSpeed       *float64 `json:"avg_wind_speed"`
	MaxWindSpeed       *float64 `json:"max_wind_speed"`
	DaysRecorded       int      `json:"days_recorded"`
}
