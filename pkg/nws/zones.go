package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

type Zone struct {
	ID        string
	Name      string
	State     string
	Latitude  float64
	Longitude float64
}

type zoneResponse struct {
	Properties struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		State string `json:"state"`
	} `json:"properties"`
	Geometry *struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	} `json:"geometry"`
}

// Zone fetches a forecast or county zone (UGC code such as FLZ069 or
// FLC086) and reports the centroid of its boundary vertices.
func (c *Client) Zone(ctx context.Context, zoneID string) (Zone, error) {
	zoneID = strings.ToUpper(strings.TrimSpace(zoneID))
	if len(zoneID) != 6 {
		return Zone{}, fmt.Errorf("%w: malformed zone id %q", ErrRequest, zoneID)
	}

	kind := "forecast"
	if zoneID[2] == 'C' {
		kind = "county"
	}

	var resp zoneResponse
	if err := c.getJSON(ctx, "/zones/"+kind+"/"+url.PathEscape(zoneID), nil, &resp); err != nil {
		return Zone{}, err
	}
	if resp.Geometry == nil {
		return Zone{}, fmt.Errorf("%w: zone %s has no geometry", ErrNotFound, zoneID)
	}

	lat, lng, err := centroid(resp.Geometry.Type, resp.Geometry.Coordinates)
	if err != nil {
		return Zone{}, fmt.Errorf("%w: zone %s: %v", ErrRequest, zoneID, err)
	}
	return Zone{
		ID:        zoneID,
		Name:      resp.Properties.Name,
		State:     resp.Properties.State,
		Latitude:  lat,
		Longitude: lng,
	}, nil
}

// centroid averages every vertex of a Polygon or MultiPolygon. GeoJSON
// positions are [longitude, latitude].
func centroid(geomType string, raw json.RawMessage) (float64, float64, error) {
	var rings [][][]float64
	switch geomType {
	case "Polygon":
		if err := json.Unmarshal(raw, &rings); err != nil {
			return 0, 0, fmt.Errorf("decode polygon: %v", err)
		}
	case "MultiPolygon":
		var polygons [][][][]float64
		if err := json.Unmarshal(raw, &polygons); err != nil {
			return 0, 0, fmt.Errorf("decode multipolygon: %v", err)
		}
		for _, p := range polygons {
			rings = append(rings, p...)
		}
	default:
		return 0, 0, fmt.Errorf("unsupported geometry %q", geomType)
	}

	var sumLat, sumLng float64
	n := 0
	for _, ring := range rings {
		for _, pos := range ring {
			if len(pos) < 2 {
				continue
			}
			sumLng += pos[0]
			sumLat += pos[1]
			n++
		}
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("geometry has no vertices")
	}
	return sumLat / float64(n), sumLng / float64(n), nil
}
