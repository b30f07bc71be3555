package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	cachex "github.com/tanpawarit/weather-insights-advisor/agent/cache"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
)

const DefaultTimeout = 10 * time.Second

// CallObserver receives one outcome per tool call: "ok", "error" or "timeout".
type CallObserver interface {
	ToolCalled(tool, outcome string)
}

type GatewayOption func(*Gateway)

func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithCache enables response caching for adapters that report Cacheable.
func WithCache(c cachex.Cache, ttl time.Duration) GatewayOption {
	return func(g *Gateway) {
		g.cache = c
		g.cacheTTL = ttl
	}
}

func WithLogger(logger zerolog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.logger = logger
	}
}

func WithCallObserver(o CallObserver) GatewayOption {
	return func(g *Gateway) {
		g.observer = o
	}
}

// Gateway executes tool requests against a Catalog. It bounds every call
// with a timeout, hands adapters a private copy of the run's state and, on
// success, writes the payload under the adapter's state key.
type Gateway struct {
	catalog  *Catalog
	timeout  time.Duration
	cache    cachex.Cache
	cacheTTL time.Duration
	observer CallObserver
	logger   zerolog.Logger
}

var _ contractx.ToolGateway = (*Gateway)(nil)

func NewGateway(catalog *Catalog, opts ...GatewayOption) (*Gateway, error) {
	if catalog == nil {
		return nil, errors.New("tool catalog is required")
	}
	g := &Gateway{
		catalog: catalog,
		timeout: DefaultTimeout,
		logger:  log.Logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

func (g *Gateway) Catalog() *Catalog {
	return g.catalog
}

type callOutcome struct {
	payload any
	err     error
}

// Execute never returns a Go error: every failure is reported inside the
// ToolResult so a stage can decide whether it is fatal. The adapter runs in
// its own goroutine; when the deadline passes first the call is reported as
// timed out and whatever the adapter returns later is discarded.
func (g *Gateway) Execute(ctx context.Context, st *statex.SharedState, req contractx.ToolRequest) contractx.ToolResult {
	adapter, ok := g.catalog.Lookup(req.Tool)
	if !ok {
		return contractx.ToolResult{Tool: req.Tool, Error: fmt.Sprintf("tool=%s is not registered", req.Tool)}
	}
	if err := ctx.Err(); err != nil {
		return contractx.ToolResult{Tool: req.Tool, Error: fmt.Sprintf("tool=%s not started: %v", req.Tool, err)}
	}

	args := Args(req.Args)
	if args == nil {
		args = Args{}
	}

	cacheKey := ""
	if g.cacheable(adapter) {
		cacheKey = g.cacheKey(req.Tool, args)
		if payload, hit := g.cacheGet(ctx, cacheKey); hit {
			st.Set(adapter.StateKey(), payload)
			g.observe(req.Tool, "ok")
			return contractx.ToolResult{Tool: req.Tool, Result: payload}
		}
	}

	view := st.Clone()
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	started := time.Now()
	done := make(chan callOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				g.logger.Error().
					Str("tool", req.Tool).
					Interface("panic", r).
					Bytes("stack", debug.Stack()).
					Msg("adapter panicked")
				done <- callOutcome{err: fmt.Errorf("internal error in tool %s", req.Tool)}
			}
		}()
		payload, err := adapter.Invoke(callCtx, view, args)
		done <- callOutcome{payload: payload, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				return g.timedOut(req.Tool, started)
			}
			g.logger.Warn().
				Str("tool", req.Tool).
				Dur("elapsed", time.Since(started)).
				Err(out.err).
				Msg("tool call failed")
			g.observe(req.Tool, "error")
			return contractx.ToolResult{Tool: req.Tool, Error: out.err.Error()}
		}
		st.Set(adapter.StateKey(), out.payload)
		if cacheKey != "" {
			g.cachePut(ctx, cacheKey, out.payload)
		}
		g.observe(req.Tool, "ok")
		return contractx.ToolResult{Tool: req.Tool, Result: out.payload}

	case <-callCtx.Done():
		if ctx.Err() != nil {
			g.observe(req.Tool, "error")
			return contractx.ToolResult{Tool: req.Tool, Error: fmt.Sprintf("tool=%s cancelled: %v", req.Tool, ctx.Err())}
		}
		return g.timedOut(req.Tool, started)
	}
}

func (g *Gateway) timedOut(tool string, started time.Time) contractx.ToolResult {
	g.logger.Warn().
		Str("tool", tool).
		Dur("elapsed", time.Since(started)).
		Dur("timeout", g.timeout).
		Msg("tool call timed out")
	g.observe(tool, "timeout")
	return contractx.ToolResult{
		Tool:    tool,
		Error:   fmt.Sprintf("tool=%s timed out after %s", tool, g.timeout),
		Timeout: true,
	}
}

func (g *Gateway) observe(tool, outcome string) {
	if g.observer != nil {
		g.observer.ToolCalled(tool, outcome)
	}
}

func (g *Gateway) cacheable(a Adapter) bool {
	if g.cache == nil {
		return false
	}
	c, ok := a.(Cacheable)
	return ok && c.Cacheable()
}

// cacheKey relies on encoding/json sorting map keys, so equal argument
// maps produce equal keys.
func (g *Gateway) cacheKey(tool string, args Args) string {
	raw, err := json.Marshal(args)
	if err != nil {
		return ""
	}
	return tool + ":" + string(raw)
}

func (g *Gateway) cacheGet(ctx context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	raw, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.Debug().Err(err).Str("key", key).Msg("tool cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	return payload, true
}

func (g *Gateway) cachePut(ctx context.Context, key string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := g.cache.Set(ctx, key, raw, g.cacheTTL); err != nil {
		g.logger.Debug().Err(err).Str("key", key).Msg("tool cache write failed")
	}
}
