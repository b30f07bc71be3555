package state

// Input holds the contractx.Request that started the run.
const KeyInput = "input"

// Keys written by tool adapters. Each adapter owns exactly one.
const (
	KeyGeocodeResult      = "geocode_result"
	KeyForecastData       = "forecast_data"
	KeyCurrentConditions  = "current_conditions"
	KeyAlerts             = "alerts"
	KeyZoneCoordinates    = "zone_coordinates"
	KeyMapData            = "map_data"
	KeyDirections         = "directions"
	KeyNearbyPlaces       = "nearby_places"
	KeyCensusDemographics = "census_demographics"
	KeyCensusTracts       = "census_tracts"
	KeyFloodRisk          = "flood_risk"
	KeyRiskAssessment     = "risk_assessment"
	KeyEvacuationPriority = "evacuation_priority"
	KeyWeatherStations    = "weather_stations"
	KeyHistoricalWeather  = "historical_weather"
	KeyWeatherStatistics  = "weather_statistics"
)
