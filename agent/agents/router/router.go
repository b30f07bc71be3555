package router

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
)

// Auto asks the router to classify the request instead of naming a pipeline.
const Auto = "auto"

// DefaultThreshold is the minimum confidence for routing without asking
// the caller to clarify.
const DefaultThreshold = 0.5

type Option func(*Router)

func WithThreshold(threshold float64) Option {
	return func(r *Router) {
		if threshold > 0 && threshold <= 1 {
			r.threshold = threshold
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// Router selects exactly one pipeline per request, by name or by
// classified intent, and runs it.
type Router struct {
	classifier contractx.Classifier
	pipelines  map[string]*pipelinex.Compiled
	table      map[contractx.Intent]string
	infos      []contractx.PipelineInfo
	threshold  float64
	logger     zerolog.Logger

	graphRunner compose.Runnable[*routeState, contractx.PipelineResult]
}

func New(classifier contractx.Classifier, pipelines []*pipelinex.Compiled, opts ...Option) (*Router, error) {
	if classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if len(pipelines) == 0 {
		return nil, errors.New("at least one pipeline is required")
	}

	r := &Router{
		classifier: classifier,
		pipelines:  make(map[string]*pipelinex.Compiled, len(pipelines)),
		table:      make(map[contractx.Intent]string, len(pipelines)),
		threshold:  DefaultThreshold,
		logger:     log.Logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	for _, p := range pipelines {
		def := p.Definition()
		if _, dup := r.pipelines[def.Name]; dup {
			return nil, fmt.Errorf("duplicate pipeline %s", def.Name)
		}
		r.pipelines[def.Name] = p
		r.infos = append(r.infos, def.Info())
		if def.Intent == "" {
			continue
		}
		if other, dup := r.table[def.Intent]; dup {
			return nil, fmt.Errorf("intent %s is served by both %s and %s", def.Intent, other, def.Name)
		}
		r.table[def.Intent] = def.Name
	}

	graphRunner, err := r.compileRouteGraph(context.Background())
	if err != nil {
		return nil, err
	}
	r.graphRunner = graphRunner
	return r, nil
}

// Pipelines describes every registered pipeline in registration order.
func (r *Router) Pipelines() []contractx.PipelineInfo {
	return append([]contractx.PipelineInfo(nil), r.infos...)
}

// RunPipeline runs the named pipeline, or routes by intent when nameOrAuto
// is empty or "auto". A pipeline may also be named by its intent. It never
// panics and always returns a result.
func (r *Router) RunPipeline(ctx context.Context, nameOrAuto string, text string, hints contractx.Hints) (result contractx.PipelineResult) {
	st := &routeState{
		requested: strings.TrimSpace(nameOrAuto),
		request:   contractx.Request{Text: text, Hints: hints},
	}
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error().Interface("panic", p).Bytes("stack", debug.Stack()).Msg("router panicked")
			result = contractx.ErrorResult(st.pipeline, errors.New("internal error while routing the request"))
		}
	}()

	out, err := r.graphRunner.Invoke(ctx, st)
	switch {
	case st.failure != nil:
		res := contractx.ErrorResult(st.pipeline, st.failure)
		res.Options = st.options
		return res
	case err != nil && ctx.Err() != nil:
		return contractx.ErrorResult(st.pipeline, fmt.Errorf("%w: %v", contractx.ErrCancelled, ctx.Err()))
	case err != nil:
		return contractx.ErrorResult(st.pipeline, err)
	}
	return out
}

// resolve finds a pipeline by name or by intent.
func (r *Router) resolve(name string) (string, bool) {
	if _, ok := r.pipelines[name]; ok {
		return name, true
	}
	if p, ok := r.table[contractx.Intent(strings.ToLower(name))]; ok {
		return p, true
	}
	return "", false
}

type scored struct {
	intent contractx.Intent
	score  float64
}

// decide applies the clarification policy: route only when the top intent
// has a pipeline, clears the threshold and is not tied. Otherwise it returns
// the candidate pipelines to offer the caller.
func (r *Router) decide(c contractx.Classification) (string, []string, bool) {
	var ranked []scored
	for _, intent := range contractx.Intents() {
		if s := c.Scores[intent]; s > 0 {
			ranked = append(ranked, scored{intent: intent, score: s})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	name, routable := r.table[c.Intent]
	tied := len(ranked) > 1 && ranked[0].score == ranked[1].score
	if routable && c.Confidence >= r.threshold && !tied {
		return name, nil, true
	}

	var options []string
	for _, s := range ranked {
		if tied && s.score < ranked[0].score {
			break
		}
		if p, ok := r.table[s.intent]; ok {
			options = append(options, p)
		}
	}
	if len(options) == 0 {
		for _, info := range r.infos {
			options = append(options, info.Name)
		}
	}
	return "", options, false
}
