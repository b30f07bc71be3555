package nws

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Point is the grid metadata NWS returns for a coordinate.
type Point struct {
	GridID                 string
	GridX                  int
	GridY                  int
	ForecastURL            string
	ForecastHourlyURL      string
	ObservationStationsURL string
	ForecastZone           string
	City                   string
	State                  string
	TimeZone               string
}

type pointResponse struct {
	Properties struct {
		GridID              string `json:"gridId"`
		GridX               int    `json:"gridX"`
		GridY               int    `json:"gridY"`
		Forecast            string `json:"forecast"`
		ForecastHourly      string `json:"forecastHourly"`
		ObservationStations string `json:"observationStations"`
		ForecastZone        string `json:"forecastZone"`
		TimeZone            string `json:"timeZone"`
		RelativeLocation    struct {
			Properties struct {
				City  string `json:"city"`
				State string `json:"state"`
			} `json:"properties"`
		} `json:"relativeLocation"`
	} `json:"properties"`
}

func (c *Client) Point(ctx context.Context, lat, lng float64) (Point, error) {
	var resp pointResponse
	if err := c.getJSON(ctx, "/points/"+coordinatePath(lat, lng), nil, &resp); err != nil {
		return Point{}, err
	}
	p := resp.Properties
	if p.Forecast == "" {
		return Point{}, fmt.Errorf("%w: no forecast office covers %s", ErrNotFound, coordinatePath(lat, lng))
	}
	return Point{
		GridID:                 p.GridID,
		GridX:                  p.GridX,
		GridY:                  p.GridY,
		ForecastURL:            p.Forecast,
		ForecastHourlyURL:      p.ForecastHourly,
		ObservationStationsURL: p.ObservationStations,
		ForecastZone:           lastSegment(p.ForecastZone),
		City:                   p.RelativeLocation.Properties.City,
		State:                  p.RelativeLocation.Properties.State,
		TimeZone:               p.TimeZone,
	}, nil
}

type Period struct {
	Number              int
	Name                string
	StartTime           time.Time
	EndTime             time.Time
	IsDaytime           bool
	Temperature         int
	TemperatureUnit     string
	WindSpeed           string
	WindDirection       string
	ShortForecast       string
	DetailedForecast    string
	PrecipitationChance *int
}

type Forecast struct {
	Point   Point
	Updated time.Time
	Periods []Period
}

type forecastResponse struct {
	Properties struct {
		Updated time.Time `json:"updated"`
		Periods []struct {
			Number                     int       `json:"number"`
			Name                       string    `json:"name"`
			StartTime                  time.Time `json:"startTime"`
			EndTime                    time.Time `json:"endTime"`
			IsDaytime                  bool      `json:"isDaytime"`
			Temperature                float64   `json:"temperature"`
			TemperatureUnit            string    `json:"temperatureUnit"`
			WindSpeed                  string    `json:"windSpeed"`
			WindDirection              string    `json:"windDirection"`
			ShortForecast              string    `json:"shortForecast"`
			DetailedForecast           string    `json:"detailedForecast"`
			ProbabilityOfPrecipitation struct {
				Value *float64 `json:"value"`
			} `json:"probabilityOfPrecipitation"`
		} `json:"periods"`
	} `json:"properties"`
}

// Forecast resolves the grid for a coordinate and fetches its forecast.
// With hourly set it returns hourly periods instead of 12-hour ones.
func (c *Client) Forecast(ctx context.Context, lat, lng float64, hourly bool) (Forecast, error) {
	point, err := c.Point(ctx, lat, lng)
	if err != nil {
		return Forecast{}, err
	}

	target := point.ForecastURL
	if hourly {
		target = point.ForecastHourlyURL
	}
	if target == "" {
		return Forecast{}, fmt.Errorf("%w: forecast url missing for %s", ErrNotFound, coordinatePath(lat, lng))
	}

	var resp forecastResponse
	if err := c.getJSON(ctx, target, nil, &resp); err != nil {
		return Forecast{}, err
	}

	periods := make([]Period, 0, len(resp.Properties.Periods))
	for _, p := range resp.Properties.Periods {
		period := Period{
			Number:           p.Number,
			Name:             p.Name,
			StartTime:        p.StartTime,
			EndTime:          p.EndTime,
			IsDaytime:        p.IsDaytime,
			Temperature:      int(math.Round(p.Temperature)),
			TemperatureUnit:  p.TemperatureUnit,
			WindSpeed:        p.WindSpeed,
			WindDirection:    p.WindDirection,
			ShortForecast:    p.ShortForecast,
			DetailedForecast: p.DetailedForecast,
		}
		if v := p.ProbabilityOfPrecipitation.Value; v != nil {
			chance := int(math.Round(*v))
			period.PrecipitationChance = &chance
		}
		periods = append(periods, period)
	}

	return Forecast{
		Point:   point,
		Updated: resp.Properties.Updated,
		Periods: periods,
	}, nil
}
