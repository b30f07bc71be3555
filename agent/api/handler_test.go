package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	"github.com/tanpawarit/weather-insights-advisor/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

type fakeRunner struct {
	mu     sync.Mutex
	result contractx.PipelineResult
	name   string
	text   string
	hints  contractx.Hints
}

func (f *fakeRunner) RunPipeline(_ context.Context, nameOrAuto, text string, hints contractx.Hints) contractx.PipelineResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name, f.text, f.hints = nameOrAuto, text, hints
	return f.result
}

func (f *fakeRunner) Pipelines() []contractx.PipelineInfo {
	return []contractx.PipelineInfo{
		{Name: "forecast_pipeline", Intent: contractx.IntentForecast, Stages: []string{"geocoding_agent"}},
		{Name: "alerts_snapshot_pipeline", Intent: contractx.IntentAlerts, Stages: []string{"alerts_retriever"}},
	}
}

func newTestHandler(t *testing.T, runner *fakeRunner, opts ...Option) http.Handler {
	t.Helper()
	h, err := NewHandler(runner, append([]Option{WithLogger(zerolog.Nop())}, opts...)...)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h.Routes()
}

func postQuery(t *testing.T, h http.Handler, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) contractx.PipelineResult {
	t.Helper()
	var res contractx.PipelineResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return res
}

func successResult() contractx.PipelineResult {
	return contractx.PipelineResult{
		RunID:    "run-1",
		Pipeline: "forecast_pipeline",
		Status:   contractx.StatusSuccess,
		Data:     map[string]any{"location": "Miami, FL"},
		State:    map[string]any{"geocode_result": map[string]any{"lat": 25.76}},
	}
}

func TestQuerySuccessStripsState(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: successResult()}
	h := newTestHandler(t, runner)

	lat := 25.7
	w := postQuery(t, h, "/query", QueryRequest{
		Query:    "forecast for Miami",
		Pipeline: "forecast_pipeline",
		Hints:    contractx.Hints{Latitude: &lat, StateCode: "FL"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	res := decodeResult(t, w)
	if res.State != nil {
		t.Fatalf("expected state to be stripped, got %v", res.State)
	}
	if res.Pipeline != "forecast_pipeline" {
		t.Fatalf("unexpected pipeline: %s", res.Pipeline)
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if runner.name != "forecast_pipeline" || runner.text != "forecast for Miami" {
		t.Fatalf("runner got name=%q text=%q", runner.name, runner.text)
	}
	if runner.hints.StateCode != "FL" || runner.hints.Latitude == nil || *runner.hints.Latitude != 25.7 {
		t.Fatalf("hints not forwarded: %+v", runner.hints)
	}
}

func TestQueryDebugKeepsState(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeRunner{result: successResult()})
	w := postQuery(t, h, "/query?debug=true", QueryRequest{Query: "forecast for Miami"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if res := decodeResult(t, w); res.State["geocode_result"] == nil {
		t.Fatalf("expected state in debug response, got %v", res.State)
	}
}

func TestQueryInvalidDebugFlag(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeRunner{result: successResult()})
	w := postQuery(t, h, "/query?debug=maybe", QueryRequest{Query: "forecast"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestQueryAmbiguityIsUnprocessable(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeRunner{result: contractx.PipelineResult{
		Status:  contractx.StatusError,
		Kind:    contractx.KindRoutingAmbiguity,
		Message: "could not tell which analysis you want",
		Options: []string{"forecast_pipeline", "emergency_resources_pipeline"},
	}})

	w := postQuery(t, h, "/query", QueryRequest{Query: "shelter forecast"})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	res := decodeResult(t, w)
	if len(res.Options) != 2 || res.Kind != contractx.KindRoutingAmbiguity {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestQueryToolErrorIsBadGateway(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeRunner{result: contractx.PipelineResult{
		Pipeline: "alerts_snapshot_pipeline",
		Status:   contractx.StatusError,
		Kind:     contractx.KindToolError,
		Stage:    "alerts_retriever",
		Message:  "stage alerts_retriever failed: tool call failed",
	}})

	w := postQuery(t, h, "/query", QueryRequest{Query: "alerts in ZZ"})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	if res := decodeResult(t, w); res.Stage != "alerts_retriever" {
		t.Fatalf("unexpected stage: %s", res.Stage)
	}
}

func TestQueryRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeRunner{})
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestPipelinesAndHealth(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeRunner{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pipelines", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Pipelines []contractx.PipelineInfo `json:"pipelines"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode pipelines: %v", err)
	}
	if len(body.Pipelines) != 2 || body.Pipelines[0].Name != "forecast_pipeline" {
		t.Fatalf("unexpected pipelines: %+v", body.Pipelines)
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"healthy"`) {
		t.Fatalf("unexpected health response: %d %s", w.Code, w.Body.String())
	}
}

func TestMetricsRouteOnlyWhenConfigured(t *testing.T) {
	t.Parallel()

	without := newTestHandler(t, &fakeRunner{})
	w := httptest.NewRecorder()
	without.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics, got %d", w.Code)
	}

	collector := metrics.New(metrics.Config{})
	collector.RunFinished("forecast_pipeline", "success", "", 0)
	with := newTestHandler(t, &fakeRunner{}, WithMetrics(collector.Handler()))
	w = httptest.NewRecorder()
	with.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "pipeline_runs_total") {
		t.Fatalf("unexpected metrics response: %d", w.Code)
	}
}

func TestPreflightGetsCORSHeaders(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, &fakeRunner{}, WithAllowedOrigin("https://dashboard.example"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/query", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://dashboard.example" {
		t.Fatalf("unexpected allow origin: %q", got)
	}
}

func TestStatusFor(t *testing.T) {
	t.Parallel()

	cases := map[contractx.ErrorKind]int{
		contractx.KindInvalidRequest:  http.StatusUnprocessableEntity,
		contractx.KindUnknownPipeline: http.StatusNotFound,
		contractx.KindSchemaViolation: http.StatusBadGateway,
		contractx.KindTimeout:         http.StatusGatewayTimeout,
		contractx.KindCancelled:       http.StatusServiceUnavailable,
		contractx.KindInternal:        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		got := StatusFor(contractx.PipelineResult{Status: contractx.StatusError, Kind: kind})
		if got != want {
			t.Fatalf("StatusFor(%s) = %d, want %d", kind, got, want)
		}
	}
}

func TestServeShutsDownWithContext(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(&fakeRunner{}, WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return h.Serve(gctx, ln)
	})

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		cancel()
		t.Fatalf("GET /health: %v", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	if err := g.Wait(); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
}
