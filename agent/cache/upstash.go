package cache

import (
	"bytes"
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

var ErrInvalidKey = errors.New("cache key is empty")

const (
	defaultKeyPrefix     = "weather:tool:"
	maxResponseSizeBytes = 2 << 20
)

type UpstashOption func(*UpstashRedisCache)

func WithKeyPrefix(prefix string) UpstashOption {
	return func(c *UpstashRedisCache) {
		trimmed := strings.TrimSpace(prefix)
		if trimmed != "" {
			c.keyPrefix = trimmed
		}
	}
}

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(c *UpstashRedisCache) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// UpstashRedisCache keeps tool responses in Upstash Redis through its REST
// API, so several advisor processes can share geocoding results.
type UpstashRedisCache struct {
	baseURL    string
	token      string
	httpClient *http.Client
	keyPrefix  string
}

var _ Cache = (*UpstashRedisCache)(nil)

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

type UpstashRedisConfig struct {
	URL     string        `envconfig:"URL" split_words:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"5s"`
}

// Enabled reports whether both connection settings are present.
func (c UpstashRedisConfig) Enabled() bool {
	return strings.TrimSpace(c.URL) != "" && strings.TrimSpace(c.Token) != ""
}

func NewUpstashRedisCache(cfg UpstashRedisConfig, opts ...UpstashOption) (*UpstashRedisCache, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	c := &UpstashRedisCache{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		keyPrefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

func (c *UpstashRedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	redisKey, err := c.redisKey(key)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.exec(ctx, []any{"GET", redisKey})
	if err != nil {
		return nil, false, err
	}

	result := bytes.TrimSpace(resp.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, false, nil
	}

	var encoded string
	if err := json.Unmarshal(result, &encoded); err != nil {
		return nil, false, fmt.Errorf("decode cached payload: %w", err)
	}
	return []byte(encoded), true, nil
}

func (c *UpstashRedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	redisKey, err := c.redisKey(key)
	if err != nil {
		return err
	}

	cmd := []any{"SET", redisKey, string(value)}
	if ttl > 0 {
		cmd = append(cmd, "EX", ttlSeconds(ttl))
	}
	_, err = c.exec(ctx, cmd)
	return err
}

func (c *UpstashRedisCache) redisKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ErrInvalidKey
	}
	return c.keyPrefix + key, nil
}

func (c *UpstashRedisCache) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}

func ttlSeconds(ttl time.Duration) int64 {
	seconds := ttl / time.Second
	if seconds <= 0 {
		return 1
	}
	if ttl%time.Second != 0 {
		seconds++
	}
	return int64(seconds)
}
