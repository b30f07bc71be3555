package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	schemax "github.com/tanpawarit/weather-insights-advisor/agent/schema"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
	toolx "github.com/tanpawarit/weather-insights-advisor/agent/tool"
	"golang.org/x/sync/errgroup"
)

type testAdapter struct {
	name string
	key  string
	fn   func(ctx context.Context, view statex.Reader, args toolx.Args) (any, error)
}

func (a testAdapter) Info() *schema.ToolInfo { return &schema.ToolInfo{Name: a.name, Desc: a.name} }
func (a testAdapter) StateKey() string       { return a.key }

func (a testAdapter) Invoke(ctx context.Context, view statex.Reader, args toolx.Args) (any, error) {
	return a.fn(ctx, view, args)
}

type recordingObserver struct {
	mu     sync.Mutex
	stages []string
	runs   []string
}

func (o *recordingObserver) StageFinished(pipeline, stage string, _ time.Duration, kind string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stages = append(o.stages, stage+"="+kind)
}

func (o *recordingObserver) RunFinished(pipeline, status, kind string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, pipeline+":"+status+":"+kind)
}

func newExecutor(t *testing.T, timeout time.Duration, opts []Option, adapters ...toolx.Adapter) *Executor {
	t.Helper()
	catalog, err := toolx.NewCatalog(adapters...)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	gw, err := toolx.NewGateway(catalog, toolx.WithTimeout(timeout))
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	exec, err := NewExecutor(gw, opts...)
	if err != nil {
		t.Fatalf("new executor: %v", err)
	}
	return exec
}

func compile(t *testing.T, exec *Executor, def Definition) *Compiled {
	t.Helper()
	c, err := exec.Compile(context.Background(), def)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return c
}

func TestRunExecutesStagesInDeclaredOrder(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var order []string
	stage := func(name string) Stage {
		return Stage{
			Name:      name,
			OutputKey: name + "_out",
			Task: TaskFunc(func(_ context.Context, env *Env) (any, error) {
				mu.Lock()
				order = append(order, env.Stage.Name)
				mu.Unlock()
				return env.State.Len(), nil
			}),
		}
	}
	names := []string{"first", "second", "third", "fourth"}
	def := Definition{Name: "ordered"}
	for _, n := range names {
		def.Stages = append(def.Stages, stage(n))
	}

	obs := &recordingObserver{}
	c := compile(t, newExecutor(t, time.Second, []Option{WithObserver(obs)}), def)
	for i := 0; i < 3; i++ {
		res := c.Run(context.Background(), contractx.Request{Text: "x"})
		if !res.OK() {
			t.Fatalf("run %d failed: %s", i, res.Message)
		}
		if strings.Join(res.Stages, ",") != strings.Join(names, ",") {
			t.Fatalf("unexpected trace: %v", res.Stages)
		}
		// input plus one key per completed stage
		if res.Data != 4 {
			t.Fatalf("last stage saw %v keys, want 4", res.Data)
		}
	}
	want := strings.Repeat(strings.Join(names, ",")+",", 3)
	if got := strings.Join(order, ",") + ","; got != want {
		t.Fatalf("invocation order %s, want %s", got, want)
	}
	if len(obs.runs) != 3 || obs.runs[0] != "ordered:success:" {
		t.Fatalf("unexpected run observations: %v", obs.runs)
	}
}

func TestSchemaViolationStopsPipeline(t *testing.T) {
	t.Parallel()

	var laterCalls atomic.Int32
	sch := schemax.New("Out", "", schemax.Integer("count", "how many"))
	def := Definition{
		Name: "strict",
		Stages: []Stage{
			{
				Name:         "produce",
				OutputKey:    "produced",
				OutputSchema: &sch,
				Task: TaskFunc(func(context.Context, *Env) (any, error) {
					return map[string]any{"count": "many"}, nil
				}),
			},
			{
				Name:      "consume",
				OutputKey: "consumed",
				Task: TaskFunc(func(context.Context, *Env) (any, error) {
					laterCalls.Add(1)
					return "done", nil
				}),
			},
		},
	}

	res := compile(t, newExecutor(t, time.Second, nil), def).Run(context.Background(), contractx.Request{Text: "x"})
	if res.OK() || res.Kind != contractx.KindSchemaViolation {
		t.Fatalf("expected schema violation, got %+v", res)
	}
	if res.Stage != "produce" || res.Data != nil {
		t.Fatalf("unexpected failure detail: %+v", res)
	}
	if _, ok := res.State["produced"]; ok {
		t.Fatal("non-conforming output must not be stored")
	}
	if laterCalls.Load() != 0 {
		t.Fatalf("later stage ran %d times", laterCalls.Load())
	}
}

func TestSchemaValidatedOutputKeepsDeclaredFields(t *testing.T) {
	t.Parallel()

	sch := schemax.New("Out", "", schemax.String("name", "n"), schemax.Number("score", "s"))
	def := Definition{Name: "clean", Stages: []Stage{{
		Name:         "emit",
		OutputKey:    "out",
		OutputSchema: &sch,
		Task: TaskFunc(func(context.Context, *Env) (any, error) {
			return struct {
				Name  string  `json:"name"`
				Score float64 `json:"score"`
				Extra string  `json:"extra"`
			}{"a", 7, "drop me"}, nil
		}),
	}}}

	res := compile(t, newExecutor(t, time.Second, nil), def).Run(context.Background(), contractx.Request{})
	if !res.OK() {
		t.Fatalf("unexpected failure: %s", res.Message)
	}
	data := res.Data.(map[string]any)
	if _, ok := data["extra"]; ok || data["name"] != "a" || data["score"] != 7.0 {
		t.Fatalf("unexpected data: %v", data)
	}
}

func TestConcurrentRunsDoNotShareState(t *testing.T) {
	t.Parallel()

	echo := testAdapter{name: "echo", key: "echoed", fn: func(_ context.Context, _ statex.Reader, args toolx.Args) (any, error) {
		time.Sleep(time.Millisecond)
		return args.String("text"), nil
	}}
	def := Definition{Name: "isolated", Stages: []Stage{
		{
			Name:      "write",
			Tools:     []string{"echo"},
			OutputKey: "written",
			Task: TaskFunc(func(ctx context.Context, env *Env) (any, error) {
				return env.CallTool(ctx, "echo", map[string]any{"text": env.Request.Text})
			}),
		},
		{
			Name:      "read",
			OutputKey: "read",
			Task: TaskFunc(func(_ context.Context, env *Env) (any, error) {
				v, _ := env.State.Get("echoed")
				return v, nil
			}),
		},
	}}
	c := compile(t, newExecutor(t, time.Second, nil, echo), def)

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		text := fmt.Sprintf("request-%d", i)
		g.Go(func() error {
			res := c.Run(context.Background(), contractx.Request{Text: text})
			if !res.OK() {
				return errors.New(res.Message)
			}
			if res.Data != text || res.State["echoed"] != text || res.State["written"] != text {
				return fmt.Errorf("run for %s observed %v / %v", text, res.Data, res.State["echoed"])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestHungToolFailsWithinTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)
	hang := testAdapter{name: "hang", key: "hung", fn: func(context.Context, statex.Reader, toolx.Args) (any, error) {
		<-release
		return nil, nil
	}}
	def := Definition{Name: "slow", Stages: []Stage{{
		Name:      "wait",
		Tools:     []string{"hang"},
		OutputKey: "waited",
		Task: TaskFunc(func(ctx context.Context, env *Env) (any, error) {
			return env.CallTool(ctx, "hang", nil)
		}),
	}}}

	started := time.Now()
	res := compile(t, newExecutor(t, 50*time.Millisecond, nil, hang), def).Run(context.Background(), contractx.Request{})
	if time.Since(started) > 2*time.Second {
		t.Fatal("pipeline hung past the tool timeout")
	}
	if res.OK() || res.Kind != contractx.KindTimeout {
		t.Fatalf("expected timeout, got %+v", res)
	}
}

func TestToolErrorFailsStage(t *testing.T) {
	t.Parallel()

	broken := testAdapter{name: "broken", key: "broken", fn: func(context.Context, statex.Reader, toolx.Args) (any, error) {
		return nil, errors.New("alert retrieval failed: provider unavailable")
	}}
	def := Definition{Name: "fragile", Stages: []Stage{{
		Name:      "fetch",
		Tools:     []string{"broken"},
		OutputKey: "fetched",
		Task: TaskFunc(func(ctx context.Context, env *Env) (any, error) {
			return env.CallTool(ctx, "broken", nil)
		}),
	}}}

	res := compile(t, newExecutor(t, time.Second, nil, broken), def).Run(context.Background(), contractx.Request{})
	if res.Kind != contractx.KindToolError || !strings.Contains(res.Message, "retrieval failed") {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestUndeclaredToolIsRejected(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	echo := testAdapter{name: "echo", key: "echoed", fn: func(context.Context, statex.Reader, toolx.Args) (any, error) {
		calls.Add(1)
		return "x", nil
	}}
	def := Definition{Name: "sandboxed", Stages: []Stage{{
		Name:      "sneaky",
		OutputKey: "out",
		Task: TaskFunc(func(ctx context.Context, env *Env) (any, error) {
			return env.CallTool(ctx, "echo", nil)
		}),
	}}}

	res := compile(t, newExecutor(t, time.Second, nil, echo), def).Run(context.Background(), contractx.Request{})
	if res.Kind != contractx.KindInvalidRequest || calls.Load() != 0 {
		t.Fatalf("expected rejection without a call, got %+v (calls=%d)", res, calls.Load())
	}
}

func TestPanickingTaskBecomesInternalError(t *testing.T) {
	t.Parallel()

	def := Definition{Name: "panicky", Stages: []Stage{{
		Name:      "boom",
		OutputKey: "out",
		Task: TaskFunc(func(context.Context, *Env) (any, error) {
			var names []string
			_ = names[3]
			return nil, nil
		}),
	}}}
	res := compile(t, newExecutor(t, time.Second, nil), def).Run(context.Background(), contractx.Request{})
	if res.OK() || res.Kind != contractx.KindInternal || res.Stage != "boom" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Message != "internal error in stage boom" {
		t.Fatalf("message = %q", res.Message)
	}
	if strings.Contains(res.Message, "runtime error") || strings.Contains(res.Message, "index out of range") {
		t.Fatalf("panic detail leaked: %q", res.Message)
	}
}

func TestCancelledContextStopsAtStageBoundary(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	var second atomic.Bool
	def := Definition{Name: "cancellable", Stages: []Stage{
		{
			Name:      "first",
			OutputKey: "a",
			Task: TaskFunc(func(context.Context, *Env) (any, error) {
				cancel()
				return "ok", nil
			}),
		},
		{
			Name:      "second",
			OutputKey: "b",
			Task: TaskFunc(func(context.Context, *Env) (any, error) {
				second.Store(true)
				return "ok", nil
			}),
		},
	}}
	res := compile(t, newExecutor(t, time.Second, nil), def).Run(ctx, contractx.Request{})
	if res.Kind != contractx.KindCancelled || second.Load() {
		t.Fatalf("expected cancellation before second stage, got %+v", res)
	}
}

func TestDefinitionValidate(t *testing.T) {
	t.Parallel()

	task := TaskFunc(func(context.Context, *Env) (any, error) { return nil, nil })
	tests := []struct {
		name string
		def  Definition
	}{
		{name: "no name", def: Definition{Stages: []Stage{{Name: "a", OutputKey: "a", Task: task}}}},
		{name: "no stages", def: Definition{Name: "p"}},
		{name: "duplicate stage", def: Definition{Name: "p", Stages: []Stage{{Name: "a", OutputKey: "a", Task: task}, {Name: "a", OutputKey: "b", Task: task}}}},
		{name: "missing key", def: Definition{Name: "p", Stages: []Stage{{Name: "a", Task: task}}}},
		{name: "input key", def: Definition{Name: "p", Stages: []Stage{{Name: "a", OutputKey: statex.KeyInput, Task: task}}}},
		{name: "missing task", def: Definition{Name: "p", Stages: []Stage{{Name: "a", OutputKey: "a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.def.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
