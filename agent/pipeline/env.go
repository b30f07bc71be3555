package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
)

// Env is everything a Task may touch during one stage of one run.
type Env struct {
	RunID    string
	Pipeline string
	Stage    Stage
	Request  contractx.Request
	State    *statex.SharedState

	tools     contractx.ToolGateway
	permitted map[string]struct{}
	calls     []contractx.ToolResult
	logger    zerolog.Logger
}

func newEnv(r *run, stage Stage, tools contractx.ToolGateway, logger zerolog.Logger) *Env {
	permitted := make(map[string]struct{}, len(stage.Tools))
	for _, name := range stage.Tools {
		permitted[name] = struct{}{}
	}
	return &Env{
		RunID:     r.id,
		Pipeline:  r.pipeline,
		Stage:     stage,
		Request:   r.request,
		State:     r.state,
		tools:     tools,
		permitted: permitted,
		logger: logger.With().
			Str("run_id", r.id).
			Str("pipeline", r.pipeline).
			Str("stage", stage.Name).
			Logger(),
	}
}

// Permitted reports whether the stage declared the tool.
func (e *Env) Permitted(tool string) bool {
	_, ok := e.permitted[tool]
	return ok
}

// CallTool runs one permitted tool through the gateway. A successful call
// has already written its payload to e.State when CallTool returns.
func (e *Env) CallTool(ctx context.Context, tool string, args map[string]any) (any, error) {
	if !e.Permitted(tool) {
		return nil, fmt.Errorf("%w: stage %s may not call tool %s", contractx.ErrValidation, e.Stage.Name, tool)
	}
	if e.tools == nil {
		return nil, fmt.Errorf("%w: no tool gateway configured for %s", contractx.ErrToolFailed, tool)
	}

	res := e.tools.Execute(ctx, e.State, contractx.ToolRequest{Tool: tool, Args: args})
	e.calls = append(e.calls, res)

	switch {
	case res.OK():
		e.logger.Debug().Str("tool", tool).Msg("tool call succeeded")
		return res.Result, nil
	case ctx.Err() != nil:
		return nil, fmt.Errorf("%w: during %s: %v", contractx.ErrCancelled, tool, ctx.Err())
	case res.Timeout:
		return nil, fmt.Errorf("%w: %w: %s", contractx.ErrToolTimeout, contractx.ErrToolFailed, res.Error)
	default:
		return nil, fmt.Errorf("%w: %s", contractx.ErrToolFailed, res.Error)
	}
}

// TryTool is CallTool for optional data: a failure is logged and reported
// through ok instead of failing the stage.
func (e *Env) TryTool(ctx context.Context, tool string, args map[string]any) (any, bool) {
	out, err := e.CallTool(ctx, tool, args)
	if err != nil {
		e.logger.Warn().Str("tool", tool).Err(err).Msg("optional tool call failed")
		return nil, false
	}
	return out, true
}

// ToolCalls lists the results of every tool call made so far in this stage.
func (e *Env) ToolCalls() []contractx.ToolResult {
	return append([]contractx.ToolResult(nil), e.calls...)
}

func (e *Env) Logger() zerolog.Logger {
	return e.logger
}
