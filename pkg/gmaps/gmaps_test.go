package gmaps

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, APIKey: "secret-key"}, WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestGeocode(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode/json" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("key") != "secret-key" || r.URL.Query().Get("address") != "Miami, FL" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"status":"OK","results":[{"formatted_address":"Miami, FL, USA","place_id":"p1",
			"types":["locality"],
			"address_components":[{"long_name":"Florida","short_name":"FL","types":["administrative_area_level_1","political"]}],
			"geometry":{"location":{"lat":25.7617,"lng":-80.1918}}}]}`)
	})

	results, err := client.Geocode(context.Background(), " Miami, FL ")
	if err != nil {
		t.Fatalf("Geocode() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if r.Geometry.Location.Lat != 25.7617 || r.Geometry.Location.Lng != -80.1918 {
		t.Fatalf("location = %+v", r.Geometry.Location)
	}
	if r.Component("administrative_area_level_1") != "FL" {
		t.Fatalf("state component = %q", r.Component("administrative_area_level_1"))
	}
}

func TestGeocodeStatusErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		body string
		want error
	}{
		{body: `{"status":"ZERO_RESULTS","results":[]}`, want: ErrNoResults},
		{body: `{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid."}`, want: ErrStatus},
	}

	for _, tc := range tests {
		body := tc.body
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		})
		_, err := client.Geocode(context.Background(), "nowhere")
		if !errors.Is(err, tc.want) {
			t.Fatalf("Geocode() error = %v, want %v", err, tc.want)
		}
		if strings.Contains(err.Error(), "secret-key") {
			t.Fatalf("error leaks api key: %v", err)
		}
	}
}

func TestNearbySearchAllowsZeroResults(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("radius") != "50000" || q.Get("type") != "hospital" || q.Get("location") != "25.761700,-80.191800" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		fmt.Fprint(w, `{"status":"ZERO_RESULTS","results":[]}`)
	})

	places, err := client.NearbySearch(context.Background(), NearbyQuery{
		Location:     LatLng{Lat: 25.7617, Lng: -80.1918},
		RadiusMeters: 50000,
		Type:         "hospital",
	})
	if err != nil {
		t.Fatalf("NearbySearch() error = %v", err)
	}
	if len(places) != 0 {
		t.Fatalf("places = %d, want 0", len(places))
	}
}

func TestNearbySearchRejectsBadRadius(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})
	_, err := client.NearbySearch(context.Background(), NearbyQuery{RadiusMeters: MaxRadiusMeters + 1, Type: "hospital"})
	if !errors.Is(err, ErrRequest) {
		t.Fatalf("NearbySearch() error = %v, want ErrRequest", err)
	}
}

func TestDirectionsTotals(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mode") != "driving" {
			t.Errorf("mode = %q", r.URL.Query().Get("mode"))
		}
		fmt.Fprint(w, `{"status":"OK","routes":[{"summary":"I-95 N","legs":[
			{"distance":{"text":"10 km","value":10000},"duration":{"text":"12 mins","value":720}},
			{"distance":{"text":"5 km","value":5000},"duration":{"text":"6 mins","value":360}}]}]}`)
	})

	routes, err := client.Directions(context.Background(), DirectionsQuery{Origin: "a", Destination: "b"})
	if err != nil {
		t.Fatalf("Directions() error = %v", err)
	}
	meters, seconds := routes[0].Totals()
	if meters != 15000 || seconds != 1080 {
		t.Fatalf("Totals() = %d, %d", meters, seconds)
	}
}
