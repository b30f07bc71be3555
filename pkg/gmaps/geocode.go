package gmaps

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

type AddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type GeocodeResult struct {
	FormattedAddress  string             `json:"formatted_address"`
	PlaceID           string             `json:"place_id"`
	Types             []string           `json:"types"`
	AddressComponents []AddressComponent `json:"address_components"`
	Geometry          struct {
		Location     LatLng `json:"location"`
		LocationType string `json:"location_type"`
	} `json:"geometry"`
}

// Component returns the short name of the first address component of the
// given type, such as "administrative_area_level_1" for the state code.
func (r GeocodeResult) Component(kind string) string {
	for _, c := range r.AddressComponents {
		for _, t := range c.Types {
			if t == kind {
				return c.ShortName
			}
		}
	}
	return ""
}

func (c *Client) Geocode(ctx context.Context, address string) ([]GeocodeResult, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrRequest)
	}

	var resp struct {
		Results []GeocodeResult `json:"results"`
	}
	if err := c.get(ctx, "/geocode/json", url.Values{"address": {address}}, false, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNoResults
	}
	return resp.Results, nil
}
