package weather

import (
	toolx "github.com/tanpawarit/weather-insights-advisor/agent/tool"
)

// Stage output shapes. Slices are always non-nil so required list fields
// never serialize as null.

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type LocationData struct {
	Location         string  `json:"location"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	StateCode        string  `json:"state_code,omitempty"`
	County           string  `json:"county,omitempty"`
}

type ForecastBundle struct {
	Location          string                   `json:"location"`
	Latitude          float64                  `json:"latitude"`
	Longitude         float64                  `json:"longitude"`
	Forecast          toolx.ForecastData       `json:"forecast"`
	CurrentConditions *toolx.CurrentConditions `json:"current_conditions,omitempty"`
}

type DailyForecast struct {
	Date                string `json:"date"`
	DayName             string `json:"day_name"`
	HighTemp            int    `json:"high_temp"`
	LowTemp             int    `json:"low_temp"`
	Conditions          string `json:"conditions"`
	Wind                string `json:"wind"`
	PrecipitationChance int    `json:"precipitation_chance"`
}

type ForecastSummary struct {
	Location          string          `json:"location"`
	Coordinates       Coordinates     `json:"coordinates"`
	CurrentConditions string          `json:"current_conditions"`
	DailyForecasts    []DailyForecast `json:"daily_forecasts"`
	Insights          string          `json:"insights"`
}

type AlertDetail struct {
	Event            string   `json:"event"`
	Severity         string   `json:"severity"`
	Headline         string   `json:"headline"`
	Description      string   `json:"description"`
	DescriptionShort string   `json:"description_short"`
	AffectedZones    []string `json:"affected_zones"`
	StartTime        string   `json:"start_time"`
	EndTime          string   `json:"end_time"`
}

type AlertsFormatterOutput struct {
	Alerts      []AlertDetail `json:"alerts"`
	TotalCount  int           `json:"total_count"`
	SevereCount int           `json:"severe_count"`
	Locations   []string      `json:"locations"`
	Insights    string        `json:"insights"`
}

type AlertsSummary struct {
	AlertsFormatterOutput
	MapData *toolx.MapData `json:"map_data,omitempty"`
}

type AlertData struct {
	StateCode       string   `json:"state_code"`
	County          string   `json:"county,omitempty"`
	AlertCount      int      `json:"alert_count"`
	HighestSeverity string   `json:"highest_severity"`
	Events          []string `json:"events"`
	AffectedAreas   []string `json:"affected_areas"`
	Headline        string   `json:"headline"`
}

type TractSummary struct {
	Name       string `json:"name"`
	Population int64  `json:"population"`
}

type CensusData struct {
	StateCode       string         `json:"state_code"`
	County          string         `json:"county,omitempty"`
	TotalPopulation int64          `json:"total_population"`
	ElderlyShare    float64        `json:"elderly_share"`
	PovertyRate     float64        `json:"poverty_rate"`
	MedianIncome    float64        `json:"median_income"`
	TopTracts       []TractSummary `json:"top_tracts"`
	FloodRisk       string         `json:"flood_risk"`
	HighRiskZones   []string       `json:"high_risk_zones"`
}

type RiskAnalysisSummary struct {
	AlertSummary     string   `json:"alert_summary"`
	PopulationAtRisk int64    `json:"population_at_risk"`
	RiskScore        float64  `json:"risk_score"`
	RiskLevel        string   `json:"risk_level"`
	VulnerableAreas  []string `json:"vulnerable_areas"`
	Recommendations  []string `json:"recommendations"`
	EvacuationNeeded bool     `json:"evacuation_needed"`
	Insights         string   `json:"insights"`
}

type Facility struct {
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Type        string      `json:"type"`
	Distance    float64     `json:"distance"`
	PlaceID     string      `json:"place_id,omitempty"`
	OpenNow     *bool       `json:"open_now,omitempty"`
	Coordinates Coordinates `json:"coordinates"`
}

type Facilities struct {
	Location     string      `json:"location"`
	Origin       Coordinates `json:"origin"`
	RadiusMeters int         `json:"radius_meters"`
	Shelters     []Facility  `json:"shelters"`
	Hospitals    []Facility  `json:"hospitals"`
	Other        []Facility  `json:"other"`
}

type Route struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Destination   string        `json:"destination"`
	Distance      float64       `json:"distance"`
	EstimatedTime string        `json:"estimated_time"`
	Waypoints     []Coordinates `json:"waypoints"`
}

type Routes struct {
	Routes []Route `json:"routes"`
}

type EmergencyResourcesSummary struct {
	Location         string     `json:"location"`
	Shelters         []Facility `json:"shelters"`
	Hospitals        []Facility `json:"hospitals"`
	OtherResources   []Facility `json:"other_resources"`
	EvacuationRoutes []Route    `json:"evacuation_routes"`
	Insights         string     `json:"insights"`
}

type HurricaneData struct {
	Category int      `json:"category"`
	States   []string `json:"states"`
	MinLat   float64  `json:"min_lat"`
	MaxLat   float64  `json:"max_lat"`
	MinLng   float64  `json:"min_lng"`
	MaxLng   float64  `json:"max_lng"`
}

type PrioritizedLocation struct {
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	RiskScore float64        `json:"risk_score"`
	Details   map[string]any `json:"details"`
}

type EvacuationPlan struct {
	PrioritizedLocations   []PrioritizedLocation `json:"prioritized_locations"`
	AffectedStates         []string              `json:"affected_states"`
	HurricaneCategory      int                   `json:"hurricane_category"`
	TotalHighRiskLocations int                   `json:"total_high_risk_locations"`
	HighestRiskScore       float64               `json:"highest_risk_score"`
	Insights               map[string]any        `json:"insights"`
}

type StationData struct {
	Location  string                 `json:"location"`
	StateCode string                 `json:"state_code"`
	Stations  []toolx.WeatherStation `json:"stations"`
}

type HistoryBundle struct {
	Location    string                   `json:"location"`
	Period      string                   `json:"period"`
	StationName string                   `json:"station_name,omitempty"`
	History     toolx.HistoricalWeather  `json:"history"`
	Statistics  *toolx.WeatherStatistics `json:"statistics,omitempty"`
}

type HistorySummary struct {
	Location           string                   `json:"location"`
	Station            string                   `json:"station"`
	StationID          string                   `json:"station_id"`
	StartDate          string                   `json:"start_date"`
	EndDate            string                   `json:"end_date"`
	DaysRecorded       int                      `json:"days_recorded"`
	AvgTemperature     *float64                 `json:"avg_temperature,omitempty"`
	HighestTemperature *float64                 `json:"highest_temperature,omitempty"`
	LowestTemperature  *float64                 `json:"lowest_temperature,omitempty"`
	TotalPrecipitation float64                  `json:"total_precipitation"`
	HottestDay         string                   `json:"hottest_day,omitempty"`
	WettestDay         string                   `json:"wettest_day,omitempty"`
	Statistics         *toolx.WeatherStatistics `json:"statistics,omitempty"`
	Insights           string                   `json:"insights"`
}
