// Package api serves the pipeline runner over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

const maxBodyBytes = 1 << 20

// QueryRequest is the body of POST /query. Pipeline defaults to automatic
// routing.
type QueryRequest struct {
	Query    string          `json:"query"`
	Pipeline string          `json:"pipeline,omitempty"`
	Hints    contractx.Hints `json:"hints,omitempty"`
}

type Option func(*Handler)

func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithMetrics mounts a Prometheus handler on GET /metrics.
func WithMetrics(metrics http.Handler) Option {
	return func(h *Handler) {
		h.metrics = metrics
	}
}

// WithRunTimeout bounds a single query, on top of the client's own deadline.
func WithRunTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.runTimeout = d
		}
	}
}

func WithAllowedOrigin(origin string) Option {
	return func(h *Handler) {
		h.allowedOrigin = strings.TrimSpace(origin)
	}
}

type Handler struct {
	runner        contractx.Runner
	metrics       http.Handler
	logger        zerolog.Logger
	runTimeout    time.Duration
	allowedOrigin string
}

func NewHandler(runner contractx.Runner, opts ...Option) (*Handler, error) {
	if runner == nil {
		return nil, errors.New("pipeline runner is required")
	}
	h := &Handler{
		runner:        runner,
		logger:        log.Logger,
		runTimeout:    2 * time.Minute,
		allowedOrigin: "*",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// RegisterRoutes registers the API routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /query", h.HandleQuery)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET /pipelines", h.HandlePipelines)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

// Routes returns every route wrapped with CORS and request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h.withCORS(h.withAccessLog(mux))
}

// HandleQuery handles POST /query
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	debug := false
	if raw := r.URL.Query().Get("debug"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid debug flag %q", raw))
			return
		}
		debug = v
	}

	ctx, cancel := contextWithTimeout(r, h.runTimeout)
	defer cancel()

	res := h.runner.RunPipeline(ctx, req.Pipeline, req.Query, req.Hints)
	if !debug {
		res.State = nil
	}
	writeJSON(w, StatusFor(res), res)
}

// HandleHealth handles GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"pipelines": len(h.runner.Pipelines()),
	})
}

// HandlePipelines handles GET /pipelines
func (h *Handler) HandlePipelines(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"pipelines": h.runner.Pipelines(),
	})
}

// StatusFor maps a pipeline result to its HTTP status.
func StatusFor(res contractx.PipelineResult) int {
	if res.OK() {
		return http.StatusOK
	}
	switch res.Kind {
	case contractx.KindRoutingAmbiguity, contractx.KindInvalidRequest:
		return http.StatusUnprocessableEntity
	case contractx.KindUnknownPipeline:
		return http.StatusNotFound
	case contractx.KindToolError, contractx.KindSchemaViolation:
		return http.StatusBadGateway
	case contractx.KindTimeout:
		return http.StatusGatewayTimeout
	case contractx.KindCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
