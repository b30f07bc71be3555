package tool

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	"github.com/tanpawarit/weather-insights-advisor/pkg/gmaps"
)

const DefaultSearchRadiusMeters = gmaps.MaxRadiusMeters

var travelModes = map[string]bool{"driving": true, "walking": true, "bicycling": true, "transit": true}

func NewGeocodeAdapter(maps MapsService) Adapter {
	return &funcAdapter{
		info: toolInfo(ToolGeocodeAddress, "Convert an address or place name to latitude and longitude.",
			map[string]*schema.ParameterInfo{
				"address": {Type: schema.String, Desc: "Address, city or place name, e.g. Miami, FL", Required: true},
			}),
		stateKey:  statex.KeyGeocodeResult,
		cacheable: true,
		invoke: func(ctx context.Context, _ statex.Reader, args Args) (any, error) {
			address, err := args.RequireString("address")
			if err != nil {
				return nil, err
			}
			results, err := maps.Geocode(ctx, address)
			if err != nil {
				return nil, fmt.Errorf("geocoding failed: %w", err)
			}
			if len(results) == 0 {
				return nil, fmt.Errorf("geocoding failed: no results for %q", address)
			}
			best := results[0]
			return GeocodeResult{
				Query:            address,
				FormattedAddress: best.FormattedAddress,
				Latitude:         best.Geometry.Location.Lat,
				Longitude:        best.Geometry.Location.Lng,
				PlaceID:          best.PlaceID,
				City:             best.Component("locality"),
				County:           best.Component("administrative_area_level_2"),
				StateCode:        best.Component("administrative_area_level_1"),
				Candidates:       len(results),
			}, nil
		},
	}
}

func NewDirectionsAdapter(maps MapsService) Adapter {
	return &funcAdapter{
		info: toolInfo(ToolGetDirections, "Get route options between an origin and a destination.",
			map[string]*schema.ParameterInfo{
				"origin":       {Type: schema.String, Desc: "Start address or lat,lng", Required: true},
				"destination":  {Type: schema.String, Desc: "End address or lat,lng", Required: true},
				"mode":         {Type: schema.String, Desc: "Travel mode, default driving", Enum: []string{"driving", "walking", "bicycling", "transit"}},
				"alternatives": {Type: schema.Boolean, Desc: "Return alternative routes, default true"},
			}),
		stateKey: statex.KeyDirections,
		invoke: func(ctx context.Context, _ statex.Reader, args Args) (any, error) {
			origin, err := args.RequireString("origin")
			if err != nil {
				return nil, err
			}
			destination, err := args.RequireString("destination")
			if err != nil {
				return nil, err
			}
			mode := strings.ToLower(args.String("mode"))
			if mode == "" {
				mode = "driving"
			}
			if !travelModes[mode] {
				return nil, argError("mode", "must be driving, walking, bicycling or transit")
			}
			alternatives, err := args.Bool("alternatives", true)
			if err != nil {
				return nil, err
			}

			routes, err := maps.Directions(ctx, gmaps.DirectionsQuery{
				Origin:       origin,
				Destination:  destination,
				Mode:         mode,
				Alternatives: alternatives,
			})
			if err != nil {
				return nil, fmt.Errorf("directions lookup failed: %w", err)
			}
			out := Directions{Origin: origin, Destination: destination, Mode: mode, Routes: make([]RouteSummary, 0, len(routes))}
			for _, r := range routes {
				out.Routes = append(out.Routes, summarizeRoute(r))
			}
			return out, nil
		},
	}
}

var htmlTag = regexp.MustCompile(`<[^>]*>`)

func summarizeRoute(r gmaps.Route) RouteSummary {
	meters, seconds := r.Totals()
	s := RouteSummary{
		Summary:         r.Summary,
		DistanceMeters:  meters,
		DurationSeconds: seconds,
		Warnings:        r.Warnings,
		Steps:           []RouteStep{},
	}
	if len(r.Legs) > 0 {
		s.StartAddress = r.Legs[0].StartAddress
		s.EndAddress = r.Legs[len(r.Legs)-1].EndAddress
	}
	for _, leg := range r.Legs {
		for _, step := range leg.Steps {
			s.Steps = append(s.Steps, RouteStep{
				Instruction:     html.UnescapeString(htmlTag.ReplaceAllString(step.Instructions, "")),
				DistanceMeters:  step.Distance.Value,
				DurationSeconds: step.Duration.Value,
			})
		}
	}
	return s
}

func NewNearbyPlacesAdapter(maps MapsService) Adapter {
	return &funcAdapter{
		info: toolInfo(ToolSearchNearbyPlaces, "Search for places such as hospitals or shelters near a point.",
			map[string]*schema.ParameterInfo{
				"location":   {Type: schema.String, Desc: "Search center as lat,lng", Required: true},
				"place_type": {Type: schema.String, Desc: "Places type, e.g. hospital, fire_station, police"},
				"keyword":    {Type: schema.String, Desc: "Free-text keyword, e.g. emergency shelter"},
				"radius":     {Type: schema.Integer, Desc: "Radius in meters, 1 to 50000, default 50000"},
			}),
		stateKey: statex.KeyNearbyPlaces,
		invoke: func(ctx context.Context, _ statex.Reader, args Args) (any, error) {
			raw, err := args.RequireString("location")
			if err != nil {
				return nil, err
			}
			center, err := parseLatLng(raw)
			if err != nil {
				return nil, argError("location", err.Error())
			}
			placeType := args.String("place_type")
			keyword := args.String("keyword")
			if placeType == "" && keyword == "" {
				return nil, argError("place_type", "place_type or keyword is required")
			}
			radius, err := args.Int("radius", DefaultSearchRadiusMeters)
			if err != nil {
				return nil, err
			}
			radius = clampRadius(radius)

			places, err := maps.NearbySearch(ctx, gmaps.NearbyQuery{
				Location:     center,
				RadiusMeters: radius,
				Type:         placeType,
				Keyword:      keyword,
			})
			if err != nil {
				return nil, fmt.Errorf("places search failed: %w", err)
			}
			out := NearbyPlaces{
				Location:     center.String(),
				RadiusMeters: radius,
				PlaceType:    placeType,
				Keyword:      keyword,
				Places:       make([]NearbyPlace, 0, len(places)),
			}
			for _, p := range places {
				np := NearbyPlace{
					Name:      p.Name,
					PlaceID:   p.PlaceID,
					Address:   p.Vicinity,
					Latitude:  p.Geometry.Location.Lat,
					Longitude: p.Geometry.Location.Lng,
					Types:     p.Types,
					Rating:    p.Rating,
				}
				if p.OpeningHours != nil {
					open := p.OpeningHours.OpenNow
					np.OpenNow = &open
				}
				out.Places = append(out.Places, np)
			}
			return out, nil
		},
	}
}

func clampRadius(radius int) int {
	switch {
	case radius < 1:
		return 1
	case radius > gmaps.MaxRadiusMeters:
		return gmaps.MaxRadiusMeters
	default:
		return radius
	}
}

func parseLatLng(raw string) (gmaps.LatLng, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return gmaps.LatLng{}, errors.New("must be lat,lng")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return gmaps.LatLng{}, errors.New("latitude is not numeric")
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return gmaps.LatLng{}, errors.New("longitude is not numeric")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return gmaps.LatLng{}, errors.New("coordinates out of range")
	}
	return gmaps.LatLng{Lat: lat, Lng: lng}, nil
}
