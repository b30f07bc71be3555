package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
)

// ToolInfoSource resolves tool names to the descriptions bound to the model.
type ToolInfoSource interface {
	Infos(names ...string) ([]*schema.ToolInfo, error)
}

// StageTasks builds model driven stage tasks. A stage with tools gets a tool
// planning pass whose calls run through the stage Env, then every stage gets
// a structured pass that must answer with a JSON object.
type StageTasks struct {
	ctx          context.Context
	chatModel    einomodel.ToolCallingChatModel
	tools        ToolInfoSource
	systemPrompt string
	structured   compose.Runnable[map[string]any, map[string]any]
}

func NewStageTasks(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	tools ToolInfoSource,
	systemPrompt string,
) (*StageTasks, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if tools == nil {
		return nil, fmt.Errorf("%w: tool catalog is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: stage", contractx.ErrPromptMissing)
	}

	structured, err := compileStructuredGraph[map[string]any](ctx, chatModel, systemPrompt, "llm.stage_structured_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile structured stage graph: %v", contractx.ErrModelInvoke, err)
	}
	return &StageTasks{
		ctx:          ctx,
		chatModel:    chatModel,
		tools:        tools,
		systemPrompt: systemPrompt,
		structured:   structured,
	}, nil
}

// Factory binds each stage's declared tools when the pipelines are loaded,
// so a stage naming a tool the process lacks fails at startup.
func (s *StageTasks) Factory() pipelinex.TaskFactory {
	return func(spec pipelinex.StageSpec) (pipelinex.Task, error) {
		task := &stageTask{structured: s.structured}
		if len(spec.Tools) == 0 {
			return task, nil
		}

		infos, err := s.tools.Infos(spec.Tools...)
		if err != nil {
			return nil, err
		}
		toolModel, err := s.chatModel.WithTools(infos)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools for stage=%s: %v", contractx.ErrModelInvoke, spec.Name, err)
		}
		task.planner, err = compileToolPlanningGraph(s.ctx, toolModel, s.systemPrompt, "llm.stage_tool_planning_graph."+spec.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: compile tool planning graph: %v", contractx.ErrModelInvoke, err)
		}
		return task, nil
	}
}

type stageTask struct {
	planner    compose.Runnable[map[string]any, *schema.Message]
	structured compose.Runnable[map[string]any, map[string]any]
}

type toolOutcome struct {
	Tool   string         `json:"tool"`
	Args   map[string]any `json:"args,omitempty"`
	Result any            `json:"result,omitempty"`
}

func (t *stageTask) Run(ctx context.Context, env *pipelinex.Env) (any, error) {
	payload := stagePayload(env)

	if t.planner != nil {
		outcomes, err := t.planTools(ctx, env, payload)
		if err != nil {
			return nil, err
		}
		payload["tool_results"] = outcomes
	}

	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal stage payload: %v", contractx.ErrValidation, err)
	}
	out, err := t.structured.Invoke(ctx, map[string]any{"input": string(input)})
	if err != nil {
		return nil, fmt.Errorf("%w: stage %s invoke: %v", contractx.ErrModelInvoke, env.Stage.Name, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: stage %s returned no object", contractx.ErrSchemaViolation, env.Stage.Name)
	}
	return out, nil
}

// planTools runs one planning pass. Tool failures fail the stage the same
// way they do for scripted tasks.
func (t *stageTask) planTools(ctx context.Context, env *pipelinex.Env, payload map[string]any) ([]toolOutcome, error) {
	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal tool planning payload: %v", contractx.ErrValidation, err)
	}
	msg, err := t.planner.Invoke(ctx, map[string]any{"input": string(input)})
	if err != nil {
		return nil, fmt.Errorf("%w: tool planning invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty tool planning response", contractx.ErrSchemaViolation)
	}

	reqs, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return nil, err
	}
	outcomes := make([]toolOutcome, 0, len(reqs))
	for _, req := range reqs {
		if !env.Permitted(req.Tool) {
			return nil, fmt.Errorf("%w: tool=%s is not allowed for stage=%s", contractx.ErrSchemaViolation, req.Tool, env.Stage.Name)
		}
		result, err := env.CallTool(ctx, req.Tool, req.Args)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, toolOutcome{Tool: req.Tool, Args: req.Args, Result: result})
	}
	return outcomes, nil
}

func stagePayload(env *pipelinex.Env) map[string]any {
	outputSchema := "any JSON object"
	var outputJSONSchema any
	if env.Stage.OutputSchema != nil {
		outputSchema = env.Stage.OutputSchema.Describe()
		outputJSONSchema = env.Stage.OutputSchema.JSONSchema()
	}
	payload := map[string]any{
		"stage": map[string]any{
			"name":        env.Stage.Name,
			"description": env.Stage.Description,
		},
		"instruction":   env.Stage.Instruction,
		"request":       env.Request,
		"state":         env.State.Snapshot(),
		"output_schema": outputSchema,
	}
	if outputJSONSchema != nil {
		payload["output_json_schema"] = outputJSONSchema
	}
	return payload
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		tool := strings.TrimSpace(call.Function.Name)
		if tool == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
			if err := json.Unmarshal([]byte(raw), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, tool, err)
			}
		}
		reqs = append(reqs, contractx.ToolRequest{Tool: tool, Args: args})
	}
	return reqs, nil
}
