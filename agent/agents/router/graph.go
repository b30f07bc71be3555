package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

// routeState is threaded through the route graph. A node that fails
// records why here so RunPipeline can build the error result.
type routeState struct {
	requested string
	request   contractx.Request

	pipeline       string
	classification *contractx.Classification
	options        []string
	failure        error
}

func (s *routeState) fail(err error) error {
	s.failure = err
	return err
}

func (r *Router) compileRouteGraph(
	ctx context.Context,
) (compose.Runnable[*routeState, contractx.PipelineResult], error) {
	graph := compose.NewGraph[*routeState, contractx.PipelineResult]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, st *routeState) (*routeState, error) {
			return st, r.validateRequest(st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("classify_intent",
		compose.InvokableLambda(func(ctx context.Context, st *routeState) (*routeState, error) {
			return st, r.classifyIntent(ctx, st)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_intent: %w", err)
	}

	if err := graph.AddLambdaNode("dispatch_pipeline",
		compose.InvokableLambda(func(ctx context.Context, st *routeState) (contractx.PipelineResult, error) {
			return r.pipelines[st.pipeline].Run(ctx, st.request), nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node dispatch_pipeline: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "classify_intent"},
		{"classify_intent", "dispatch_pipeline"},
		{"dispatch_pipeline", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("router.run_pipeline"))
	if err != nil {
		return nil, fmt.Errorf("compile router graph: %w", err)
	}
	return runner, nil
}

func (r *Router) validateRequest(st *routeState) error {
	st.request.Text = strings.TrimSpace(st.request.Text)
	if st.request.Text == "" {
		return st.fail(fmt.Errorf("%w: request text is empty", contractx.ErrValidation))
	}
	if st.requested == "" || strings.EqualFold(st.requested, Auto) {
		return nil
	}
	name, ok := r.resolve(st.requested)
	if !ok {
		st.pipeline = st.requested
		return st.fail(fmt.Errorf("%w: %s", contractx.ErrUnknownPipeline, st.requested))
	}
	st.pipeline = name
	return nil
}

// classifyIntent is skipped when the caller already named a pipeline.
func (r *Router) classifyIntent(ctx context.Context, st *routeState) error {
	if st.pipeline != "" {
		return nil
	}
	c, err := r.classifier.Classify(ctx, st.request.Text)
	if err != nil {
		return st.fail(fmt.Errorf("classify request: %w", err))
	}
	st.classification = &c

	name, options, ok := r.decide(c)
	if !ok {
		st.options = options
		r.logger.Info().
			Str("intent", string(c.Intent)).
			Float64("confidence", c.Confidence).
			Strs("options", options).
			Msg("routing needs clarification")
		return st.fail(fmt.Errorf("%w: could not tell which analysis you want; rephrase the request or choose one of: %s",
			contractx.ErrRoutingAmbiguous, strings.Join(options, ", ")))
	}
	st.pipeline = name
	r.logger.Info().
		Str("intent", string(c.Intent)).
		Float64("confidence", c.Confidence).
		Str("pipeline", name).
		Msg("request routed")
	return nil
}
