// Package usgeo holds static reference data about US states: postal codes,
// FIPS codes and rough bounding boxes.
package usgeo

// states is ordered by FIPS code. Bounds are approximate and only meant for
// coarse area filtering.
var states = []State{
	{Code: "AL", Name: "Alabama", FIPS: "01", Bounds: Bounds{MinLat: 30.14, MaxLat: 35.01, MinLng: -88.47, MaxLng: -84.89}, Center: Point{Lat: 32.8, Lng: -86.8}},
	{Code: "AK", Name: "Alaska", FIPS: "02", Bounds: Bounds{MinLat: 51.20, MaxLat: 71.40, MinLng: -179.15, MaxLng: -129.98}, Center: Point{Lat: 64.7, Lng: -152.0}},
	{Code: "AZ", Name: "Arizona", FIPS: "04", Bounds: Bounds{MinLat: 31.33, MaxLat: 37.00, MinLng: -114.82, MaxLng: -109.04}, Center: Point{Lat: 34.3, Lng: -111.7}},
	{Code: "AR", Name: "Arkansas", FIPS: "05", Bounds: Bounds{MinLat: 33.00, MaxLat: 36.50, MinLng: -94.62, MaxLng: -89.64}, Center: Point{Lat: 34.9, Lng: -92.4}},
	{Code: "CA", Name: "California", FIPS: "06", Bounds: Bounds{MinLat: 32.53, MaxLat: 42.01, MinLng: -124.48, MaxLng: -114.13}, Center: Point{Lat: 37.2, Lng: -119.5}},
	{Code: "CO", Name: "Colorado", FIPS: "08", Bounds: Bounds{MinLat: 36.99, MaxLat: 41.00, MinLng: -109.06, MaxLng: -102.04}, Center: Point{Lat: 39.0, Lng: -105.5}},
	{Code: "CT", Name: "Connecticut", FIPS: "09", Bounds: Bounds{MinLat: 40.95, MaxLat: 42.05, MinLng: -73.73, MaxLng: -71.79}, Center: Point{Lat: 41.6, Lng: -72.7}},
	{Code: "DE", Name: "Delaware", FIPS: "10", Bounds: Bounds{MinLat: 38.45, MaxLat: 39.84, MinLng: -75.79, MaxLng: -75.05}, Center: Point{Lat: 39.0, Lng: -75.5}},
	{Code: "DC", Name: "District of Columbia", FIPS: "11", Bounds: Bounds{MinLat: 38.79, MaxLat: 38.99, MinLng: -77.12, MaxLng: -76.91}, Center: Point{Lat: 38.9, Lng: -77.0}},
	{Code: "FL", Name: "Florida", FIPS: "12", Bounds: Bounds{MinLat: 24.40, MaxLat: 31.00, MinLng: -87.63, MaxLng: -80.03}, Center: Point{Lat: 28.6, Lng: -82.4}},
	{Code: "GA", Name: "Georgia", FIPS: "13", Bounds: Bounds{MinLat: 30.36, MaxLat: 35.00, MinLng: -85.61, MaxLng: -80.84}, Center: Point{Lat: 32.7, Lng: -83.4}},
	{Code: "HI", Name: "Hawaii", FIPS: "15", Bounds: Bounds{MinLat: 18.91, MaxLat: 22.24, MinLng: -160.25, MaxLng: -154.81}, Center: Point{Lat: 20.8, Lng: -156.3}},
	{Code: "ID", Name: "Idaho", FIPS: "16", Bounds: Bounds{MinLat: 41.99, MaxLat: 49.00, MinLng: -117.24, MaxLng: -111.04}, Center: Point{Lat: 44.4, Lng: -114.6}},
	{Code: "IL", Name: "Illinois", FIPS: "17", Bounds: Bounds{MinLat: 36.97, MaxLat: 42.51, MinLng: -91.51, MaxLng: -87.02}, Center: Point{Lat: 40.0, Lng: -89.2}},
	{Code: "IN", Name: "Indiana", FIPS: "18", Bounds: Bounds{MinLat: 37.77, MaxLat: 41.76, MinLng: -88.10, MaxLng: -84.78}, Center: Point{Lat: 39.9, Lng: -86.3}},
	{Code: "IA", Name: "Iowa", FIPS: "19", Bounds: Bounds{MinLat: 40.38, MaxLat: 43.50, MinLng: -96.64, MaxLng: -90.14}, Center: Point{Lat: 42.1, Lng: -93.5}},
	{Code: "KS", Name: "Kansas", FIPS: "20", Bounds: Bounds{MinLat: 36.99, MaxLat: 40.00, MinLng: -102.05, MaxLng: -94.59}, Center: Point{Lat: 38.5, Lng: -98.4}},
	{Code: "KY", Name: "Kentucky", FIPS: "21", Bounds: Bounds{MinLat: 36.50, MaxLat: 39.15, MinLng: -89.57, MaxLng: -81.96}, Center: Point{Lat: 37.5, Lng: -85.3}},
	{Code: "LA", Name: "Louisiana", FIPS: "22", Bounds: Bounds{MinLat: 28.93, MaxLat: 33.02, MinLng: -94.04, MaxLng: -88.82}, Center: Point{Lat: 31.1, Lng: -92.0}},
	{Code: "ME", Name: "Maine", FIPS: "23", Bounds: Bounds{MinLat: 43.06, MaxLat: 47.46, MinLng: -71.08, MaxLng: -66.95}, Center: Point{Lat: 45.4, Lng: -69.2}},
	{Code: "MD", Name: "Maryland", FIPS: "24", Bounds: Bounds{MinLat: 37.91, MaxLat: 39.72, MinLng: -79.49, MaxLng: -75.05}, Center: Point{Lat: 39.0, Lng: -76.8}},
	{Code: "MA", Name: "Massachusetts", FIPS: "25", Bounds: Bounds{MinLat: 41.24, MaxLat: 42.89, MinLng: -73.51, MaxLng: -69.93}, Center: Point{Lat: 42.3, Lng: -71.8}},
	{Code: "MI", Name: "Michigan", FIPS: "26", Bounds: Bounds{MinLat: 41.70, MaxLat: 48.31, MinLng: -90.42, MaxLng: -82.41}, Center: Point{Lat: 44.3, Lng: -85.4}},
	{Code: "MN", Name: "Minnesota", FIPS: "27", Bounds: Bounds{MinLat: 43.50, MaxLat: 49.38, MinLng: -97.24, MaxLng: -89.49}, Center: Point{Lat: 46.3, Lng: -94.3}},
	{Code: "MS", Name: "Mississippi", FIPS: "28", Bounds: Bounds{MinLat: 30.17, MaxLat: 35.00, MinLng: -91.66, MaxLng: -88.10}, Center: Point{Lat: 32.7, Lng: -89.7}},
	{Code: "MO", Name: "Missouri", FIPS: "29", Bounds: Bounds{MinLat: 35.99, MaxLat: 40.61, MinLng: -95.77, MaxLng: -89.10}, Center: Point{Lat: 38.4, Lng: -92.5}},
	{Code: "MT", Name: "Montana", FIPS: "30", Bounds: Bounds{MinLat: 44.36, MaxLat: 49.00, MinLng: -116.05, MaxLng: -104.04}, Center: Point{Lat: 47.0, Lng: -109.6}},
	{Code: "NE", Name: "Nebraska", FIPS: "31", Bounds: Bounds{MinLat: 40.00, MaxLat: 43.00, MinLng: -104.05, MaxLng: -95.31}, Center: Point{Lat: 41.5, Lng: -99.8}},
	{Code: "NV", Name: "Nevada", FIPS: "32", Bounds: Bounds{MinLat: 35.00, MaxLat: 42.00, MinLng: -120.01, MaxLng: -114.04}, Center: Point{Lat: 39.3, Lng: -116.6}},
	{Code: "NH", Name: "New Hampshire", FIPS: "33", Bounds: Bounds{MinLat: 42.70, MaxLat: 45.31, MinLng: -72.56, MaxLng: -70.61}, Center: Point{Lat: 43.7, Lng: -71.6}},
	{Code: "NJ", Name: "New Jersey", FIPS: "34", Bounds: Bounds{MinLat: 38.93, MaxLat: 41.36, MinLng: -75.56, MaxLng: -73.89}, Center: Point{Lat: 40.2, Lng: -74.7}},
	{Code: "NM", Name: "New Mexico", FIPS: "35", Bounds: Bounds{MinLat: 31.33, MaxLat: 37.00, MinLng: -109.05, MaxLng: -103.00}, Center: Point{Lat: 34.4, Lng: -106.1}},
	{Code: "NY", Name: "New York", FIPS: "36", Bounds: Bounds{MinLat: 40.50, MaxLat: 45.02, MinLng: -79.76, MaxLng: -71.86}, Center: Point{Lat: 42.9, Lng: -75.5}},
	{Code: "NC", Name: "North Carolina", FIPS: "37", Bounds: Bounds{MinLat: 33.84, MaxLat: 36.59, MinLng: -84.32, MaxLng: -75.46}, Center: Point{Lat: 35.6, Lng: -79.4}},
	{Code: "ND", Name: "North Dakota", FIPS: "38", Bounds: Bounds{MinLat: 45.94, MaxLat: 49.00, MinLng: -104.05, MaxLng: -96.55}, Center: Point{Lat: 47.5, Lng: -100.5}},
	{Code: "OH", Name: "Ohio", FIPS: "39", Bounds: Bounds{MinLat: 38.40, MaxLat: 41.98, MinLng: -84.82, MaxLng: -80.52}, Center: Point{Lat: 40.3, Lng: -82.8}},
	{Code: "OK", Name: "Oklahoma", FIPS: "40", Bounds: Bounds{MinLat: 33.62, MaxLat: 37.00, MinLng: -103.00, MaxLng: -94.43}, Center: Point{Lat: 35.6, Lng: -97.5}},
	{Code: "OR", Name: "Oregon", FIPS: "41", Bounds: Bounds{MinLat: 41.99, MaxLat: 46.29, MinLng: -124.57, MaxLng: -116.46}, Center: Point{Lat: 43.9, Lng: -120.6}},
	{Code: "PA", Name: "Pennsylvania", FIPS: "42", Bounds: Bounds{MinLat: 39.72, MaxLat: 42.27, MinLng: -80.52, MaxLng: -74.69}, Center: Point{Lat: 40.9, Lng: -77.8}},
	{Code: "RI", Name: "Rhode Island", FIPS: "44", Bounds: Bounds{MinLat: 41.15, MaxLat: 42.02, MinLng: -71.91, MaxLng: -71.12}, Center: Point{Lat: 41.7, Lng: -71.5}},
	{Code: "SC", Name: "South Carolina", FIPS: "45", Bounds: Bounds{MinLat: 32.03, MaxLat: 35.22, MinLng: -83.35, MaxLng: -78.54}, Center: Point{Lat: 33.9, Lng: -80.9}},
	{Code: "SD", Name: "South Dakota", FIPS: "46", Bounds: Bounds{MinLat: 42.48, MaxLat: 45.95, MinLng: -104.06, MaxLng: -96.44}, Center: Point{Lat: 44.4, Lng: -100.2}},
	{Code: "TN", Name: "Tennessee", FIPS: "47", Bounds: Bounds{MinLat: 34.98, MaxLat: 36.68, MinLng: -90.31, MaxLng: -81.65}, Center: Point{Lat: 35.9, Lng: -86.4}},
	{Code: "TX", Name: "Texas", FIPS: "48", Bounds: Bounds{MinLat: 25.84, MaxLat: 36.50, MinLng: -106.65, MaxLng: -93.51}, Center: Point{Lat: 31.5, Lng: -99.3}},
	{Code: "UT", Name: "Utah", FIPS: "49", Bounds: Bounds{MinLat: 37.00, MaxLat: 42.00, MinLng: -114.05, MaxLng: -109.04}, Center: Point{Lat: 39.3, Lng: -111.7}},
	{Code: "VT", Name: "Vermont", FIPS: "50", Bounds: Bounds{MinLat: 42.73, MaxLat: 45.02, MinLng: -73.44, MaxLng: -71.46}, Center: Point{Lat: 44.1, Lng: -72.7}},
	{Code: "VA", Name: "Virginia", FIPS: "51", Bounds: Bounds{MinLat: 36.54, MaxLat: 39.47, MinLng: -83.68, MaxLng: -75.24}, Center: Point{Lat: 37.5, Lng: -78.9}},
	{Code: "WA", Name: "Washington", FIPS: "53", Bounds: Bounds{MinLat: 45.54, MaxLat: 49.00, MinLng: -124.85, MaxLng: -116.92}, Center: Point{Lat: 47.4, Lng: -120.5}},
	{Code: "WV", Name: "West Virginia", FIPS: "54", Bounds: Bounds{MinLat: 37.20, MaxLat: 40.64, MinLng: -82.64, MaxLng: -77.72}, Center: Point{Lat: 38.6, Lng: -80.6}},
	{Code: "WI", Name: "Wisconsin", FIPS: "55", Bounds: Bounds{MinLat: 42.49, MaxLat: 47.31, MinLng: -92.89, MaxLng: -86.25}, Center: Point{Lat: 44.6, Lng: -89.9}},
	{Code: "WY", Name: "Wyoming", FIPS: "56", Bounds: Bounds{MinLat: 40.99, MaxLat: 45.01, MinLng: -111.06, MaxLng: -104.05}, Center: Point{Lat: 43.0, Lng: -107.6}},
	{Code: "PR", Name: "Puerto Rico", FIPS: "72", Bounds: Bounds{MinLat: 17.88, MaxLat: 18.52, MinLng: -67.95, MaxLng: -65.22}, Center: Point{Lat: 18.2, Lng: -66.5}},
}
