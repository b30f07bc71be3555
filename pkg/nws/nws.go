// Package nws is a small client for the National Weather Service API
// (api.weather.gov).
package nws

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
	ErrRequest  = errors.New("nws request failed")
	ErrNotFound = errors.New("nws resource not found")
)

const (
	defaultBaseURL   = "https://api.weather.gov"
	defaultUserAgent = "weather-insights-advisor (ops@weather-insights.local)"
	maxResponseSize  = 4 << 20
)

type Config struct {
	BaseURL   string        `split_words:"true" default:"https://api.weather.gov"`
	UserAgent string        `split_words:"true" default:"weather-insights-advisor (ops@weather-insights.local)"`
	Timeout   time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	userAgent  string
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
		baseURL = defaultBaseURL
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid nws base url: %w", err)
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
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

// getJSON fetches target (a path below the base URL, or an absolute URL the
// API handed back) and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, target string, query url.Values, out any) error {
	endpoint := target
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		endpoint = c.baseURL + target
	}
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrRequest, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequest, transportError(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrRequest, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, problemDetail(raw, resp.Status))
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: status=%d %s", ErrRequest, resp.StatusCode, problemDetail(raw, resp.Status))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrRequest, err)
	}
	return nil
}

// transportError drops the request URL from net/http errors.
func transportError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		if uerr.Timeout() {
			return fmt.Errorf("request timed out: %w", uerr.Err)
		}
		return uerr.Err
	}
	return err
}

// problemDetail extracts the human-readable part of an application/problem+json body.
func problemDetail(raw []byte, fallback string) string {
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &problem); err == nil {
		if problem.Detail != "" {
			return problem.Detail
		}
		if problem.Title != "" {
			return problem.Title
		}
	}
	return fallback
}

func coordinatePath(lat, lng float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lng)
}
