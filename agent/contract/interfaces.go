package contract

import (
	"context"

	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
)

type Classifier interface {
	Classify(ctx context.Context, text string) (Classification, error)
}

// Generator produces free text for an instruction over a JSON-serializable payload.
type Generator interface {
	Generate(ctx context.Context, instruction string, payload any) (string, error)
}

type ToolGateway interface {
	Execute(ctx context.Context, st *statex.SharedState, req ToolRequest) ToolResult
}

// Runner is the inbound run_pipeline operation.
type Runner interface {
	RunPipeline(ctx context.Context, nameOrAuto string, text string, hints Hints) PipelineResult
	Pipelines() []PipelineInfo
}
