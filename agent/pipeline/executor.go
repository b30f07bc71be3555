package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
)

// Observer receives stage and run outcomes. errKind is empty on success.
type Observer interface {
	StageFinished(pipeline, stage string, elapsed time.Duration, errKind string)
	RunFinished(pipeline, status, errKind string, elapsed time.Duration)
}

type Option func(*Executor)

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

func WithObserver(o Observer) Option {
	return func(e *Executor) {
		e.observer = o
	}
}

// Executor compiles pipeline definitions into runnable graphs.
type Executor struct {
	tools    contractx.ToolGateway
	observer Observer
	logger   zerolog.Logger
	now      func() time.Time
}

func NewExecutor(tools contractx.ToolGateway, opts ...Option) (*Executor, error) {
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	e := &Executor{
		tools:  tools,
		logger: log.Logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// run is the per-invocation value threaded through the graph. Only the
// graph's single chain of nodes touches it, one node at a time.
type run struct {
	id       string
	pipeline string
	request  contractx.Request
	state    *statex.SharedState
	trace    []string
	last     any

	failedStage string
	failure     error
}

func (r *run) fail(stage string, err error) error {
	r.failedStage = stage
	r.failure = err
	return err
}

// Compiled is a definition bound to a compiled graph. It is safe for
// concurrent use: every Run allocates its own state.
type Compiled struct {
	def    Definition
	exec   *Executor
	runner compose.Runnable[*run, *run]
}

func (e *Executor) Compile(ctx context.Context, def Definition) (*Compiled, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	graph := compose.NewGraph[*run, *run]()
	prev := compose.START
	for _, stage := range def.Stages {
		stage := stage
		node := "stage:" + stage.Name
		if err := graph.AddLambdaNode(node,
			compose.InvokableLambda(func(ctx context.Context, r *run) (*run, error) {
				return r, e.runStage(ctx, r, stage)
			}),
		); err != nil {
			return nil, fmt.Errorf("add node %s: %w", node, err)
		}
		if err := graph.AddEdge(prev, node); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", prev, node, err)
		}
		prev = node
	}
	if err := graph.AddEdge(prev, compose.END); err != nil {
		return nil, fmt.Errorf("add edge %s->%s: %w", prev, compose.END, err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("pipeline."+def.Name))
	if err != nil {
		return nil, fmt.Errorf("compile pipeline %s: %w", def.Name, err)
	}
	return &Compiled{def: def, exec: e, runner: runner}, nil
}

func (e *Executor) runStage(ctx context.Context, r *run, stage Stage) error {
	if err := ctx.Err(); err != nil {
		return r.fail(stage.Name, fmt.Errorf("%w: before stage %s: %v", contractx.ErrCancelled, stage.Name, err))
	}
	r.trace = append(r.trace, stage.Name)

	env := newEnv(r, stage, e.tools, e.logger)
	started := e.now()
	env.logger.Debug().Msg("stage started")

	out, err := invokeTask(ctx, stage.Task, env)
	if err == nil && stage.OutputSchema != nil {
		var validated map[string]any
		validated, err = stage.OutputSchema.Validate(out)
		out = validated
	}

	elapsed := e.now().Sub(started)
	if e.observer != nil {
		e.observer.StageFinished(r.pipeline, stage.Name, elapsed, string(contractx.KindOf(err)))
	}
	if errors.Is(err, errTaskPanicked) {
		return r.fail(stage.Name, fmt.Errorf("internal error in stage %s", stage.Name))
	}
	if err != nil {
		env.logger.Warn().Err(err).Dur("elapsed", elapsed).Msg("stage failed")
		return r.fail(stage.Name, fmt.Errorf("stage %s failed: %w", stage.Name, err))
	}

	r.state.Set(stage.OutputKey, out)
	r.last = out
	env.logger.Debug().Dur("elapsed", elapsed).Str("output_key", stage.OutputKey).Msg("stage finished")
	return nil
}

// errTaskPanicked marks a recovered panic. The panic value only goes to the
// log; results carry a generic message.
var errTaskPanicked = errors.New("stage task panicked")

func invokeTask(ctx context.Context, task Task, env *Env) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			env.logger.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("stage task panicked")
			out, err = nil, errTaskPanicked
		}
	}()
	return task.Run(ctx, env)
}

func (c *Compiled) Definition() Definition {
	return c.def
}

// Run executes every stage in declaration order against a fresh state and
// converts any failure into an error result. It never panics.
func (c *Compiled) Run(ctx context.Context, req contractx.Request) (result contractx.PipelineResult) {
	r := &run{
		id:       uuid.NewString(),
		pipeline: c.def.Name,
		request:  req,
		state:    statex.New(),
	}
	r.state.Set(statex.KeyInput, req)
	started := c.exec.now()

	defer func() {
		if p := recover(); p != nil {
			c.exec.logger.Error().
				Str("run_id", r.id).
				Str("pipeline", c.def.Name).
				Interface("panic", p).
				Bytes("stack", debug.Stack()).
				Msg("pipeline panicked")
			result = c.failed(r, fmt.Errorf("internal error in pipeline %s", c.def.Name))
		}
		if c.exec.observer != nil {
			c.exec.observer.RunFinished(c.def.Name, string(result.Status), string(result.Kind), c.exec.now().Sub(started))
		}
		c.exec.logger.Info().
			Str("run_id", r.id).
			Str("pipeline", c.def.Name).
			Str("status", string(result.Status)).
			Str("kind", string(result.Kind)).
			Dur("elapsed", c.exec.now().Sub(started)).
			Msg("pipeline finished")
	}()

	_, err := c.runner.Invoke(ctx, r)
	switch {
	case r.failure != nil:
		return c.failed(r, r.failure)
	case err != nil && ctx.Err() != nil:
		return c.failed(r, fmt.Errorf("%w: %v", contractx.ErrCancelled, ctx.Err()))
	case err != nil:
		return c.failed(r, fmt.Errorf("pipeline %s: %w", c.def.Name, err))
	}

	return contractx.PipelineResult{
		RunID:    r.id,
		Pipeline: c.def.Name,
		Status:   contractx.StatusSuccess,
		Data:     r.last,
		Stages:   append([]string(nil), r.trace...),
		State:    r.state.Snapshot(),
	}
}

func (c *Compiled) failed(r *run, err error) contractx.PipelineResult {
	res := contractx.ErrorResult(c.def.Name, err)
	res.RunID = r.id
	res.Stage = r.failedStage
	res.Stages = append([]string(nil), r.trace...)
	res.State = r.state.Snapshot()
	return res
}
