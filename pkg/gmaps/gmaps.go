// Package gmaps wraps the Google Maps web services the advisor uses:
// geocoding, directions and nearby place search.
package gmaps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrRequest   = errors.New("google maps request failed")
	ErrStatus    = errors.New("google maps returned an error status")
	ErrNoResults = errors.New("google maps returned no results")
)

const maxResponseSize = 4 << 20

type Config struct {
	BaseURL string        `split_words:"true" default:"https://maps.googleapis.com/maps/api"`
	APIKey  string        `envconfig:"API_KEY" split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com/maps/api"
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid google maps base url: %w", err)
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("google maps api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

func MustNew(cfg Config, opts ...Option) *Client {
	client, err := NewClient(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// envelope holds the status fields every Maps web service response carries.
type envelope struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// get calls path with query plus the API key and decodes into out. Status
// values other than OK (and ZERO_RESULTS when allowed) become errors.
func (c *Client) get(ctx context.Context, path string, query url.Values, allowZero bool, out any) error {
	query.Set("key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request", ErrRequest)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full request URL, including the key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			if uerr.Timeout() {
				return fmt.Errorf("%w: request timed out", ErrRequest)
			}
			return fmt.Errorf("%w: %v", ErrRequest, uerr.Err)
		}
		return fmt.Errorf("%w: transport error", ErrRequest)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrRequest, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: http status=%d", ErrRequest, resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRequest, err)
	}
	switch env.Status {
	case "OK":
	case "ZERO_RESULTS":
		if !allowZero {
			return ErrNoResults
		}
	default:
		if env.ErrorMessage != "" {
			return fmt.Errorf("%w: status=%s: %s", ErrStatus, env.Status, env.ErrorMessage)
		}
		return fmt.Errorf("%w: status=%s", ErrStatus, env.Status)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRequest, err)
	}
	return nil
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l LatLng) String() string {
	return fmt.Sprintf("%.6f,%.6f", l.Lat, l.Lng)
}
