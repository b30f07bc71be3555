package nws

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Observation struct {
	StationID        string
	Timestamp        time.Time
	Description      string
	TemperatureC     *float64
	DewpointC        *float64
	WindSpeedKmh     *float64
	WindDirectionDeg *float64
	HumidityPercent  *float64
}

// TemperatureF converts the observed temperature, if any.
func (o Observation) TemperatureF() *float64 {
	if o.TemperatureC == nil {
		return nil
	}
	f := *o.TemperatureC*9/5 + 32
	return &f
}

type quantity struct {
	Value *float64 `json:"value"`
}

type observationResponse struct {
	Properties struct {
		Timestamp        time.Time `json:"timestamp"`
		TextDescription  string    `json:"textDescription"`
		Temperature      quantity  `json:"temperature"`
		Dewpoint         quantity  `json:"dewpoint"`
		WindSpeed        quantity  `json:"windSpeed"`
		WindDirection    quantity  `json:"windDirection"`
		RelativeHumidity quantity  `json:"relativeHumidity"`
	} `json:"properties"`
}

func (c *Client) LatestObservation(ctx context.Context, stationID string) (Observation, error) {
	stationID = strings.ToUpper(strings.TrimSpace(stationID))
	if stationID == "" {
		return Observation{}, fmt.Errorf("%w: station id is required", ErrRequest)
	}

	var resp observationResponse
	if err := c.getJSON(ctx, "/stations/"+url.PathEscape(stationID)+"/observations/latest", nil, &resp); err != nil {
		return Observation{}, err
	}
	p := resp.Properties
	return Observation{
		StationID:        stationID,
		Timestamp:        p.Timestamp,
		Description:      p.TextDescription,
		TemperatureC:     p.Temperature.Value,
		DewpointC:        p.Dewpoint.Value,
		WindSpeedKmh:     p.WindSpeed.Value,
		WindDirectionDeg: p.WindDirection.Value,
		HumidityPercent:  p.RelativeHumidity.Value,
	}, nil
}

type stationsResponse struct {
	Features []struct {
		Properties struct {
			StationIdentifier string `json:"stationIdentifier"`
		} `json:"properties"`
	} `json:"features"`
}

// NearestStation returns the first observation station NWS lists for a
// coordinate; the API orders them by distance.
func (c *Client) NearestStation(ctx context.Context, lat, lng float64) (string, error) {
	point, err := c.Point(ctx, lat, lng)
	if err != nil {
		return "", err
	}
	if point.ObservationStationsURL == "" {
		return "", fmt.Errorf("%w: no observation stations for %s", ErrNotFound, coordinatePath(lat, lng))
	}

	var resp stationsResponse
	if err := c.getJSON(ctx, point.ObservationStationsURL, nil, &resp); err != nil {
		return "", err
	}
	for _, f := range resp.Features {
		if id := strings.TrimSpace(f.Properties.StationIdentifier); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: no observation stations for %s", ErrNotFound, coordinatePath(lat, lng))
}
