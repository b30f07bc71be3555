package gmaps

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MaxRadiusMeters is the largest radius the Places nearby search accepts.
const MaxRadiusMeters = 50000

type NearbyQuery struct {
	Location     LatLng
	RadiusMeters int
	Type         string
	Keyword      string
}

type Place struct {
	Name             string   `json:"name"`
	PlaceID          string   `json:"place_id"`
	Vicinity         string   `json:"vicinity"`
	Types            []string `json:"types"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	BusinessStatus   string   `json:"business_status"`
	Geometry         struct {
		Location LatLng `json:"location"`
	} `json:"geometry"`
	OpeningHours *struct {
		OpenNow bool `json:"open_now"`
	} `json:"opening_hours"`
}

// NearbySearch returns places around a point. An empty result is not an
// error.
func (c *Client) NearbySearch(ctx context.Context, q NearbyQuery) ([]Place, error) {
	if q.RadiusMeters <= 0 || q.RadiusMeters > MaxRadiusMeters {
		return nil, fmt.Errorf("%w: radius must be within 1..%d meters", ErrRequest, MaxRadiusMeters)
	}
	placeType := strings.TrimSpace(q.Type)
	keyword := strings.TrimSpace(q.Keyword)
	if placeType == "" && keyword == "" {
		return nil, fmt.Errorf("%w: type or keyword is required", ErrRequest)
	}

	query := url.Values{
		"location": {q.Location.String()},
		"radius":   {strconv.Itoa(q.RadiusMeters)},
	}
	if placeType != "" {
		query.Set("type", placeType)
	}
	if keyword != "" {
		query.Set("keyword", keyword)
	}

	var resp struct {
		Results []Place `json:"results"`
	}
	if err := c.get(ctx, "/place/nearbysearch/json", query, true, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}
