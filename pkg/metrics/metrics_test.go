package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	t.Parallel()

	c := New(Config{Namespace: "test"})
	c.RunFinished("forecast_pipeline", "success", "", 20*time.Millisecond)
	c.RunFinished("forecast_pipeline", "error", "tool_error", 5*time.Millisecond)
	c.StageFinished("forecast_pipeline", "geocoding_agent", time.Millisecond, "tool_error")
	c.StageFinished("forecast_pipeline", "geocoding_agent", time.Millisecond, "")
	c.ToolCalled("geocode_address", "timeout")

	if got := testutil.ToFloat64(c.runs.WithLabelValues("forecast_pipeline", "success", "")); got != 1 {
		t.Fatalf("success runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.stageFailures.WithLabelValues("forecast_pipeline", "geocoding_agent", "tool_error")); got != 1 {
		t.Fatalf("stage failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.toolCalls.WithLabelValues("geocode_address", "timeout")); got != 1 {
		t.Fatalf("tool timeouts = %v, want 1", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	t.Parallel()

	c := New(Config{})
	c.RunFinished("alerts_snapshot_pipeline", "success", "", time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"weather_advisor_pipeline_runs_total{", `pipeline="alerts_snapshot_pipeline"`, "go_goroutines"} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics body missing %q:\n%s", want, body)
		}
	}
}
