package nws

import (
	"context"
	"net/url"
	"strings"
	"time"
)

type Alert struct {
	ID            string
	Event         string
	Severity      string
	Certainty     string
	Urgency       string
	Headline      string
	Description   string
	Instruction   string
	AreaDesc      string
	AffectedZones []string
	Onset         *time.Time
	Expires       *time.Time
	Ends          *time.Time
}

// AlertQuery narrows /alerts/active. Area is a state or marine area code;
// Lat/Lng select a point. With neither set the query is national.
type AlertQuery struct {
	Area     string
	Lat      *float64
	Lng      *float64
	Severity []string
}

func (q AlertQuery) values() url.Values {
	v := url.Values{}
	v.Set("status", "actual")
	switch {
	case strings.TrimSpace(q.Area) != "":
		v.Set("area", strings.ToUpper(strings.TrimSpace(q.Area)))
	case q.Lat != nil && q.Lng != nil:
		v.Set("point", coordinatePath(*q.Lat, *q.Lng))
	}
	if len(q.Severity) > 0 {
		v.Set("severity", strings.Join(q.Severity, ","))
	}
	return v
}

type alertsResponse struct {
	Features []struct {
		Properties struct {
			ID            string     `json:"id"`
			Event         string     `json:"event"`
			Severity      string     `json:"severity"`
			Certainty     string     `json:"certainty"`
			Urgency       string     `json:"urgency"`
			Headline      string     `json:"headline"`
			Description   string     `json:"description"`
			Instruction   string     `json:"instruction"`
			AreaDesc      string     `json:"areaDesc"`
			AffectedZones []string   `json:"affectedZones"`
			Onset         *time.Time `json:"onset"`
			Expires       *time.Time `json:"expires"`
			Ends          *time.Time `json:"ends"`
			Geocode       struct {
				UGC []string `json:"UGC"`
			} `json:"geocode"`
		} `json:"properties"`
	} `json:"features"`
}

func (c *Client) ActiveAlerts(ctx context.Context, q AlertQuery) ([]Alert, error) {
	var resp alertsResponse
	if err := c.getJSON(ctx, "/alerts/active", q.values(), &resp); err != nil {
		return nil, err
	}

	alerts := make([]Alert, 0, len(resp.Features))
	for _, f := range resp.Features {
		p := f.Properties
		zones := p.Geocode.UGC
		if len(zones) == 0 {
			zones = make([]string, 0, len(p.AffectedZones))
			for _, z := range p.AffectedZones {
				zones = append(zones, lastSegment(z))
			}
		}
		alerts = append(alerts, Alert{
			ID:            p.ID,
			Event:         p.Event,
			Severity:      p.Severity,
			Certainty:     p.Certainty,
			Urgency:       p.Urgency,
			Headline:      p.Headline,
			Description:   p.Description,
			Instruction:   p.Instruction,
			AreaDesc:      p.AreaDesc,
			AffectedZones: zones,
			Onset:         p.Onset,
			Expires:       p.Expires,
			Ends:          p.Ends,
		})
	}
	return alerts, nil
}

func lastSegment(ref string) string {
	ref = strings.TrimRight(strings.TrimSpace(ref), "/")
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
