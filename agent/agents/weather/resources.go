package weather

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	toolx "github.com/tanpawarit/weather-insights-advisor/agent/tool"
	"github.com/tanpawarit/weather-insights-advisor/pkg/usgeo"
)

const (
	ResourceShelter     = "shelter"
	ResourceHospital    = "hospital"
	ResourceFireStation = "fire_station"
	ResourcePolice      = "police"
	ResourcePharmacy    = "pharmacy"

	facilitiesPerType = 5
	kmToMiles         = 0.621371
)

// resourceSearch is how one resource type maps onto a nearby search.
// Shelters have no Places type, so they are found by keyword.
type resourceSearch struct {
	placeType string
	keyword   string
}

var resourceSearches = map[string]resourceSearch{
	ResourceShelter:     {keyword: "emergency shelter"},
	ResourceHospital:    {placeType: "hospital"},
	ResourceFireStation: {placeType: "fire_station"},
	ResourcePolice:      {placeType: "police"},
	ResourcePharmacy:    {placeType: "pharmacy"},
}

var resourceKeywords = []struct {
	resource string
	words    []string
}{
	{ResourceShelter, []string{"shelter", "evacuation center", "refuge"}},
	{ResourceHospital, []string{"hospital", "medical", "emergency room", "clinic"}},
	{ResourceFireStation, []string{"fire station", "fire department"}},
	{ResourcePolice, []string{"police"}},
	{ResourcePharmacy, []string{"pharmacy", "pharmacies", "medication"}},
}

// ResourceTypes returns the resource types a request asks for: the hinted
// list when given, else types named in the text, else shelters and hospitals.
func ResourceTypes(text string, hinted []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, r := range hinted {
		r = strings.ToLower(strings.TrimSpace(r))
		if _, ok := resourceSearches[r]; ok && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	if len(out) > 0 {
		return out
	}
	lower := strings.ToLower(text)
	for _, k := range resourceKeywords {
		for _, w := range k.words {
			if strings.Contains(lower, w) && !seen[k.resource] {
				seen[k.resource] = true
				out = append(out, k.resource)
			}
		}
	}
	if len(out) == 0 {
		out = []string{ResourceShelter, ResourceHospital}
	}
	return out
}

func (t *Tasks) findResources(ctx context.Context, env *pipelinex.Env) (any, error) {
	loc, err := statex.Decode[LocationData](env.State, KeyLocationData)
	if err != nil {
		return nil, err
	}
	origin := usgeo.Point{Lat: loc.Latitude, Lng: loc.Longitude}
	out := Facilities{
		Location:     loc.Location,
		Origin:       Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude},
		RadiusMeters: toolx.DefaultSearchRadiusMeters,
		Shelters:     []Facility{},
		Hospitals:    []Facility{},
		Other:        []Facility{},
	}

	for _, kind := range ResourceTypes(env.Request.Text, env.Request.Hints.ResourceTypes) {
		search := resourceSearches[kind]
		args := map[string]any{"location": fmt.Sprintf("%.6f,%.6f", loc.Latitude, loc.Longitude)}
		if search.placeType != "" {
			args["place_type"] = search.placeType
		}
		if search.keyword != "" {
			args["keyword"] = search.keyword
		}
		if r := env.Request.Hints.RadiusMeters; r > 0 {
			args["radius"] = r
		}
		places, err := callAs[toolx.NearbyPlaces](ctx, env, toolx.ToolSearchNearbyPlaces, args)
		if err != nil {
			return nil, err
		}
		out.RadiusMeters = places.RadiusMeters

		found := nearestFacilities(origin, kind, places.Places)
		switch kind {
		case ResourceShelter:
			out.Shelters = append(out.Shelters, found...)
		case ResourceHospital:
			out.Hospitals = append(out.Hospitals, found...)
		default:
			out.Other = append(out.Other, found...)
		}
	}
	return out, nil
}

// nearestFacilities converts places to facilities with distances in miles
// and keeps the closest few.
func nearestFacilities(origin usgeo.Point, kind string, places []toolx.NearbyPlace) []Facility {
	out := make([]Facility, 0, len(places))
	for _, p := range places {
		km := usgeo.DistanceKm(origin, usgeo.Point{Lat: p.Latitude, Lng: p.Longitude})
		out = append(out, Facility{
			Name:        p.Name,
			Address:     p.Address,
			Type:        kind,
			Distance:    math.Round(km*kmToMiles*10) / 10,
			PlaceID:     p.PlaceID,
			OpenNow:     p.OpenNow,
			Coordinates: Coordinates{Latitude: p.Latitude, Longitude: p.Longitude},
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if len(out) > facilitiesPerType {
		out = out[:facilitiesPerType]
	}
	return out
}

// calculateRoutes asks for directions to the nearest shelter and hospital.
// A failed lookup drops that route rather than the stage.
func (t *Tasks) calculateRoutes(ctx context.Context, env *pipelinex.Env) (any, error) {
	fac, err := statex.Decode[Facilities](env.State, KeyFacilities)
	if err != nil {
		return nil, err
	}
	origin := fmt.Sprintf("%.6f,%.6f", fac.Origin.Latitude, fac.Origin.Longitude)
	out := Routes{Routes: []Route{}}

	targets := []struct {
		label string
		list  []Facility
	}{
		{"Route to nearest shelter", fac.Shelters},
		{"Route to nearest hospital", fac.Hospitals},
	}
	for _, target := range targets {
		if len(target.list) == 0 {
			continue
		}
		dest := target.list[0]
		dir, ok := tryAs[toolx.Directions](ctx, env, toolx.ToolGetDirections, map[string]any{
			"origin":       origin,
			"destination":  fmt.Sprintf("%.6f,%.6f", dest.Coordinates.Latitude, dest.Coordinates.Longitude),
			"alternatives": false,
		})
		if !ok || len(dir.Routes) == 0 {
			continue
		}
		out.Routes = append(out.Routes, routeFrom(target.label, dest, dir.Routes[0], fac.Origin))
	}
	return out, nil
}

func routeFrom(label string, dest Facility, r toolx.RouteSummary, origin Coordinates) Route {
	desc := r.Summary
	if desc == "" {
		desc = "Fastest available route"
	}
	if len(r.Steps) > 0 {
		desc += ": " + r.Steps[0].Instruction
	}
	return Route{
		Name:          label,
		Description:   desc,
		Destination:   dest.Name,
		Distance:      math.Round(float64(r.DistanceMeters)/1000*kmToMiles*10) / 10,
		EstimatedTime: formatDuration(r.DurationSeconds),
		Waypoints:     []Coordinates{origin, dest.Coordinates},
	}
}

func formatDuration(seconds int) string {
	minutes := int(math.Round(float64(seconds) / 60))
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
}

func (t *Tasks) formatResources(ctx context.Context, env *pipelinex.Env) (any, error) {
	fac, err := statex.Decode[Facilities](env.State, KeyFacilities)
	if err != nil {
		return nil, err
	}
	routes, err := statex.Decode[Routes](env.State, KeyRoutes)
	if err != nil {
		return nil, err
	}
	out := EmergencyResourcesSummary{
		Location:         fac.Location,
		Shelters:         nonNil(fac.Shelters),
		Hospitals:        nonNil(fac.Hospitals),
		OtherResources:   nonNil(fac.Other),
		EvacuationRoutes: nonNil(routes.Routes),
	}
	out.Insights = t.insight(ctx, env, out, resourcesInsight(out))
	return out, nil
}

func resourcesInsight(s EmergencyResourcesSummary) string {
	var parts []string
	if len(s.Shelters) > 0 {
		parts = append(parts, fmt.Sprintf("the nearest shelter is %s (%.1f mi)", s.Shelters[0].Name, s.Shelters[0].Distance))
	}
	if len(s.Hospitals) > 0 {
		parts = append(parts, fmt.Sprintf("the nearest hospital is %s (%.1f mi)", s.Hospitals[0].Name, s.Hospitals[0].Distance))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("No emergency facilities were found near %s; widen the search radius or contact local emergency management.", s.Location)
	}
	msg := fmt.Sprintf("Near %s, %s.", s.Location, strings.Join(parts, " and "))
	if len(s.EvacuationRoutes) > 0 {
		msg += fmt.Sprintf(" %s takes about %s.", s.EvacuationRoutes[0].Name, s.EvacuationRoutes[0].EstimatedTime)
	}
	return msg + " Confirm shelter availability before travelling."
}
