package weather

import (
	schemax "github.com/tanpawarit/weather-insights-advisor/agent/schema"
)

var riskLevels = []string{"Low", "Medium", "High", "Severe"}

func coordinatesField(name, desc string) schemax.Field {
	return schemax.Object(name, desc,
		schemax.Number("latitude", "Latitude").WithRange(-90, 90),
		schemax.Number("longitude", "Longitude").WithRange(-180, 180),
	)
}

var (
	LocationDataSchema = schemax.New("LocationData", "A resolved request location",
		schemax.String("location", "Location as the user named it").WithMinLength(1),
		schemax.Number("latitude", "Latitude in decimal degrees").WithRange(-90, 90),
		schemax.Number("longitude", "Longitude in decimal degrees").WithRange(-180, 180),
		schemax.String("formatted_address", "Provider formatted address").Opt(),
		schemax.String("state_code", "Two-letter state code").Opt(),
		schemax.String("county", "County name").Opt(),
	)

	ForecastBundleSchema = schemax.New("ForecastBundle", "Raw forecast inputs for the formatter",
		schemax.String("location", "Location name"),
		schemax.Number("latitude", "Latitude").WithRange(-90, 90),
		schemax.Number("longitude", "Longitude").WithRange(-180, 180),
		schemax.Object("forecast", "NWS forecast payload"),
		schemax.Object("current_conditions", "Latest station observation").Opt(),
	)

	ForecastSummarySchema = schemax.New("ForecastSummary", "Structured weather forecast",
		schemax.String("location", "Location name").WithMinLength(1),
		coordinatesField("coordinates", "Latitude and longitude"),
		schemax.String("current_conditions", "Current weather conditions"),
		schemax.List("daily_forecasts", "Day by day forecast", schemax.Object("", "",
			schemax.String("date", "Date in YYYY-MM-DD format"),
			schemax.String("day_name", "Day of week"),
			schemax.Integer("high_temp", "High temperature in Fahrenheit"),
			schemax.Integer("low_temp", "Low temperature in Fahrenheit"),
			schemax.String("conditions", "Conditions description"),
			schemax.String("wind", "Wind information"),
			schemax.Integer("precipitation_chance", "Precipitation chance percentage").WithRange(0, 100),
		)),
		schemax.String("insights", "Planning recommendations").WithMinLength(1),
	)

	AlertsDataSchema = schemax.New("AlertsData", "Active alerts as retrieved",
		schemax.String("scope", "national, state:XX or point:lat,lng"),
		schemax.String("state_code", "State code when scoped to a state").Opt(),
		schemax.Integer("count", "Number of alerts").WithRange(0, 1e6),
		schemax.List("alerts", "Alerts", schemax.Object("", "")),
	)

	alertDetail = schemax.Object("", "",
		schemax.String("event", "Alert event type"),
		schemax.String("severity", "Alert severity level"),
		schemax.String("headline", "Alert headline"),
		schemax.String("description", "Full alert description"),
		schemax.String("description_short", "Description shortened for cards"),
		schemax.List("affected_zones", "Affected zone ids", schemax.String("", "")),
		schemax.String("start_time", "Alert start time"),
		schemax.String("end_time", "Alert end time"),
	)

	formattedAlertFields = []schemax.Field{
		schemax.List("alerts", "Active weather alerts", alertDetail),
		schemax.Integer("total_count", "Total number of alerts").WithRange(0, 1e6),
		schemax.Integer("severe_count", "Number of severe or extreme alerts").WithRange(0, 1e6),
		schemax.List("locations", "Affected locations", schemax.String("", "")),
		schemax.String("insights", "Summary and safety recommendations"),
	}

	AlertsFormatterOutputSchema = schemax.New("AlertsFormatterOutput", "Formatted alerts without map data",
		formattedAlertFields...,
	)

	MapDataSchema = schemax.New("MapData", "Map of alert or resource locations",
		schemax.Number("center_lat", "Center latitude").WithRange(-90, 90),
		schemax.Number("center_lng", "Center longitude").WithRange(-180, 180),
		schemax.Integer("zoom", "Zoom level").WithRange(1, 20),
		schemax.List("markers", "Markers", schemax.Object("", "",
			schemax.Number("lat", "Latitude").WithRange(-90, 90),
			schemax.Number("lng", "Longitude").WithRange(-180, 180),
			schemax.String("title", "Marker title"),
		)),
		schemax.String("map_url", "Link to the map").WithMinLength(1),
		schemax.String("title", "Map title").Opt(),
	)

	AlertsSummarySchema = schemax.New("AlertsSummary", "Alerts analysis with map data",
		append(append([]schemax.Field(nil), formattedAlertFields...),
			schemax.Object("map_data", "Map of alert locations").Opt(),
		)...,
	)

	AlertDataSchema = schemax.New("AlertData", "Alert picture for one area",
		schemax.String("state_code", "Two-letter state code").WithMinLength(2),
		schemax.String("county", "County name").Opt(),
		schemax.Integer("alert_count", "Active alerts").WithRange(0, 1e6),
		schemax.String("highest_severity", "Highest active severity or None"),
		schemax.List("events", "Distinct alert events", schemax.String("", "")),
		schemax.List("affected_areas", "Affected area descriptions", schemax.String("", "")),
		schemax.String("headline", "Most severe headline"),
	)

	CensusDataSchema = schemax.New("CensusData", "Population and flood exposure for an area",
		schemax.String("state_code", "Two-letter state code"),
		schemax.String("county", "County name").Opt(),
		schemax.Integer("total_population", "Population").WithRange(0, 1e10),
		schemax.Number("elderly_share", "Percent aged 65 and over").WithRange(0, 100),
		schemax.Number("poverty_rate", "Percent below poverty line").WithRange(0, 100),
		schemax.Number("median_income", "Median household income"),
		schemax.List("top_tracts", "Most populous tracts", schemax.Object("", "",
			schemax.String("name", "Tract name"),
			schemax.Integer("population", "Tract population"),
		)),
		schemax.String("flood_risk", "Overall flood risk").WithEnum("High", "Moderate", "Low"),
		schemax.List("high_risk_zones", "High flood risk zone ids", schemax.String("", "")),
	)

	RiskScoresSchema = schemax.New("RiskScores", "Weighted risk score",
		schemax.Number("severity_score", "Severity component"),
		schemax.Number("population_score", "Population component"),
		schemax.Number("flood_score", "Flood component"),
		schemax.Number("risk_score", "Risk score from 0-100").WithRange(0, 100),
		schemax.String("risk_level", "Risk level").WithEnum(riskLevels...),
	)

	RiskAnalysisSummarySchema = schemax.New("RiskAnalysisSummary", "Risk analysis for an alerted area",
		schemax.String("alert_summary", "Overview of the weather alerts"),
		schemax.Integer("population_at_risk", "Estimated population affected").WithRange(0, 1e10),
		schemax.Number("risk_score", "Risk score from 0-100").WithRange(0, 100),
		schemax.String("risk_level", "Low, Medium, High or Severe").WithEnum(riskLevels...),
		schemax.List("vulnerable_areas", "High-risk zones", schemax.String("", "")),
		schemax.List("recommendations", "Specific action items", schemax.String("", "")),
		schemax.Boolean("evacuation_needed", "Whether evacuation is recommended"),
		schemax.String("insights", "Risk analysis and guidance"),
	)

	facility = schemax.Object("", "",
		schemax.String("name", "Facility name"),
		schemax.String("address", "Address"),
		schemax.String("type", "Resource type"),
		schemax.Number("distance", "Distance in miles").WithRange(0, 1e5),
		schemax.String("place_id", "Provider place id").Opt(),
		schemax.Boolean("open_now", "Open at query time").Opt(),
		coordinatesField("coordinates", "Lat/lng coordinates"),
	)

	FacilitiesSchema = schemax.New("Facilities", "Emergency facilities near a location",
		schemax.String("location", "Search location"),
		coordinatesField("origin", "Search center"),
		schemax.Integer("radius_meters", "Search radius").WithRange(1, 50000),
		schemax.List("shelters", "Emergency shelters", facility),
		schemax.List("hospitals", "Hospitals", facility),
		schemax.List("other", "Other requested resources", facility),
	)

	route = schemax.Object("", "",
		schemax.String("name", "Route name"),
		schemax.String("description", "Route description"),
		schemax.String("destination", "Destination facility"),
		schemax.Number("distance", "Distance in miles").WithRange(0, 1e5),
		schemax.String("estimated_time", "Estimated travel time"),
		schemax.List("waypoints", "Route waypoints", coordinatesField("", "")),
	)

	RoutesSchema = schemax.New("Routes", "Routes to the nearest facilities",
		schemax.List("routes", "Routes", route),
	)

	EmergencyResourcesSummarySchema = schemax.New("EmergencyResourcesSummary", "Emergency resources near a location",
		schemax.String("location", "Search location"),
		schemax.List("shelters", "Emergency shelters", facility),
		schemax.List("hospitals", "Nearby hospitals", facility),
		schemax.List("other_resources", "Other requested resources", facility),
		schemax.List("evacuation_routes", "Recommended evacuation routes", route),
		schemax.String("insights", "Resource recommendations"),
	)

	HurricaneDataSchema = schemax.New("HurricaneData", "Hurricane profile",
		schemax.Integer("category", "Hurricane category (1-5)").WithRange(1, 5),
		schemax.List("states", "Affected state codes", schemax.String("", "").WithMinLength(2)),
		schemax.Number("min_lat", "Bounding box south edge").WithRange(-90, 90),
		schemax.Number("max_lat", "Bounding box north edge").WithRange(-90, 90),
		schemax.Number("min_lng", "Bounding box west edge").WithRange(-180, 180),
		schemax.Number("max_lng", "Bounding box east edge").WithRange(-180, 180),
	)

	EvacuationPlanSchema = schemax.New("EvacuationPlan", "Prioritized evacuation plan",
		schemax.List("prioritized_locations", "Locations prioritized for evacuation", schemax.Object("", "",
			schemax.Number("latitude", "Latitude").WithRange(-90, 90),
			schemax.Number("longitude", "Longitude").WithRange(-180, 180),
			schemax.Number("risk_score", "Evacuation risk score").WithRange(0, 100),
			schemax.Object("details", "Score contributors"),
		)),
		schemax.List("affected_states", "States affected by the hurricane", schemax.String("", "")),
		schemax.Integer("hurricane_category", "Hurricane category (1-5)").WithRange(1, 5),
		schemax.Integer("total_high_risk_locations", "High-risk locations identified").WithRange(0, 1e6),
		schemax.Number("highest_risk_score", "Highest risk score").WithRange(0, 100),
		schemax.Object("insights", "Analysis of the evacuation priorities"),
	)

	StationDataSchema = schemax.New("StationData", "NOAA stations nearest to the location",
		schemax.String("location", "Location name"),
		schemax.String("state_code", "Two-letter state code").WithMinLength(2),
		schemax.List("stations", "Stations, nearest first", schemax.Object("", "",
			schemax.String("usaf", "USAF station id").WithMinLength(1),
			schemax.String("name", "Station name"),
			schemax.Number("distance_km", "Distance from the location in km").WithRange(0, 1e5),
		)),
	)

	HistoryBundleSchema = schemax.New("HistoryBundle", "Daily history and period statistics for one station",
		schemax.String("location", "Location name"),
		schemax.String("period", "Year or year-month the request is about").WithMinLength(4),
		schemax.String("station_name", "Station name").Opt(),
		schemax.Object("history", "Daily readings"),
		schemax.Object("statistics", "Aggregates for the period").Opt(),
	)

	HistorySummarySchema = schemax.New("HistorySummary", "Historical weather summary",
		schemax.String("location", "Location name").WithMinLength(1),
		schemax.String("station", "Station that reported the readings"),
		schemax.String("station_id", "USAF station id").WithMinLength(1),
		schemax.String("start_date", "First day, YYYY-MM-DD").WithMinLength(10),
		schemax.String("end_date", "Last day, YYYY-MM-DD").WithMinLength(10),
		schemax.Integer("days_recorded", "Days with readings").WithRange(0, 366),
		schemax.Number("avg_temperature", "Mean daily temperature in Fahrenheit").Opt(),
		schemax.Number("highest_temperature", "Highest daily maximum in Fahrenheit").Opt(),
		schemax.Number("lowest_temperature", "Lowest daily minimum in Fahrenheit").Opt(),
		schemax.Number("total_precipitation", "Total precipitation in inches").WithRange(0, 1e4),
		schemax.String("hottest_day", "Day with the highest maximum").Opt(),
		schemax.String("wettest_day", "Day with the most precipitation").Opt(),
		schemax.Object("statistics", "Station aggregates for the period").Opt(),
		schemax.String("insights", "What the history means for planning").WithMinLength(1),
	)
)

// Schemas is the set pipeline definitions refer to by name.
func Schemas() schemax.Set {
	return schemax.NewSet(
		LocationDataSchema,
		ForecastBundleSchema,
		ForecastSummarySchema,
		AlertsDataSchema,
		AlertsFormatterOutputSchema,
		MapDataSchema,
		AlertsSummarySchema,
		AlertDataSchema,
		CensusDataSchema,
		RiskScoresSchema,
		RiskAnalysisSummarySchema,
		FacilitiesSchema,
		RoutesSchema,
		EmergencyResourcesSummarySchema,
		HurricaneDataSchema,
		EvacuationPlanSchema,
		StationDataSchema,
		HistoryBundleSchema,
		HistorySummarySchema,
	)
}
