package gmaps

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type DirectionsQuery struct {
	Origin       string
	Destination  string
	Mode         string
	Alternatives bool
}

type textValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type Step struct {
	Instructions  string    `json:"html_instructions"`
	Distance      textValue `json:"distance"`
	Duration      textValue `json:"duration"`
	StartLocation LatLng    `json:"start_location"`
	EndLocation   LatLng    `json:"end_location"`
}

type Leg struct {
	StartAddress  string    `json:"start_address"`
	EndAddress    string    `json:"end_address"`
	Distance      textValue `json:"distance"`
	Duration      textValue `json:"duration"`
	StartLocation LatLng    `json:"start_location"`
	EndLocation   LatLng    `json:"end_location"`
	Steps         []Step    `json:"steps"`
}

type Route struct {
	Summary  string   `json:"summary"`
	Legs     []Leg    `json:"legs"`
	Warnings []string `json:"warnings"`
}

// Totals sums distance (meters) and duration (seconds) over all legs.
func (r Route) Totals() (meters int, seconds int) {
	for _, leg := range r.Legs {
		meters += leg.Distance.Value
		seconds += leg.Duration.Value
	}
	return meters, seconds
}

func (c *Client) Directions(ctx context.Context, q DirectionsQuery) ([]Route, error) {
	origin := strings.TrimSpace(q.Origin)
	destination := strings.TrimSpace(q.Destination)
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", ErrRequest)
	}
	mode := strings.TrimSpace(q.Mode)
	if mode == "" {
		mode = "driving"
	}

	query := url.Values{
		"origin":       {origin},
		"destination":  {destination},
		"mode":         {mode},
		"alternatives": {strconv.FormatBool(q.Alternatives)},
	}

	var resp struct {
		Routes []Route `json:"routes"`
	}
	if err := c.get(ctx, "/directions/json", query, false, &resp); err != nil {
		return nil, err
	}
	if len(resp.Routes) == 0 {
		return nil, ErrNoResults
	}
	return resp.Routes, nil
}
