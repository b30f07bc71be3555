package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	routerx "github.com/tanpawarit/weather-insights-advisor/agent/agents/router"
	"github.com/tanpawarit/weather-insights-advisor/agent/agents/weather"
	cachex "github.com/tanpawarit/weather-insights-advisor/agent/cache"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	"github.com/tanpawarit/weather-insights-advisor/agent/llm"
	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
	promptx "github.com/tanpawarit/weather-insights-advisor/agent/prompt"
	toolx "github.com/tanpawarit/weather-insights-advisor/agent/tool"
	configx "github.com/tanpawarit/weather-insights-advisor/pkg/config"
	"github.com/tanpawarit/weather-insights-advisor/pkg/gmaps"
	logx "github.com/tanpawarit/weather-insights-advisor/pkg/logger"
	"github.com/tanpawarit/weather-insights-advisor/pkg/metrics"
	"github.com/tanpawarit/weather-insights-advisor/pkg/nws"
	openrouterx "github.com/tanpawarit/weather-insights-advisor/pkg/openrouter"
	"github.com/tanpawarit/weather-insights-advisor/pkg/warehouse"
)

const (
	BackendScripted = "scripted"
	BackendKeyword  = "keyword"
	BackendLLM      = "llm"
)

type AppConfig struct {
	ListenAddr       string        `split_words:"true" default:":8000"`
	TaskBackend      string        `split_words:"true" default:"scripted"`
	RouterBackend    string        `split_words:"true" default:"keyword"`
	ToolTimeout      time.Duration `split_words:"true" default:"10s"`
	RunTimeout       time.Duration `split_words:"true" default:"2m"`
	ClarifyThreshold float64       `split_words:"true" default:"0.5"`
	CacheTTL         time.Duration `envconfig:"CACHE_TTL" default:"24h"`
	AllowedOrigin    string        `split_words:"true" default:"*"`
}

// app is everything a command needs, built once from configuration.
type app struct {
	cfg      AppConfig
	router   *routerx.Router
	metrics  *metrics.Collector
	memCache *cachex.MemoryCache
	logger   zerolog.Logger
	closers  []io.Closer
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}

// buildApp loads configuration, initialises logging on logOut and wires
// providers, tools, pipelines and the router.
func buildApp(ctx context.Context, logOut io.Writer) (*app, error) {
	appCfg, err := configx.New[AppConfig]("APP")
	if err != nil {
		return nil, err
	}
	logCfg, err := configx.New[logx.Config]("LOG")
	if err != nil {
		return nil, err
	}
	logx.InitWriter(logOut, *logCfg)

	a := &app{cfg: *appCfg, logger: log.Logger}
	ok := false
	defer func() {
		if !ok {
			_ = a.Close()
		}
	}()

	metricsCfg, err := configx.New[metrics.Config]("METRICS")
	if err != nil {
		return nil, err
	}
	a.metrics = metrics.New(*metricsCfg)

	providers, err := a.providers()
	if err != nil {
		return nil, err
	}
	catalog, err := toolx.NewCatalog(toolx.Adapters(providers)...)
	if err != nil {
		return nil, err
	}

	cache, err := a.cache()
	if err != nil {
		return nil, err
	}
	gateway, err := toolx.NewGateway(catalog,
		toolx.WithTimeout(appCfg.ToolTimeout),
		toolx.WithCache(cache, appCfg.CacheTTL),
		toolx.WithLogger(a.logger),
		toolx.WithCallObserver(a.metrics),
	)
	if err != nil {
		return nil, err
	}

	llmCfg, err := configx.New[llm.Config]("LLM")
	if err != nil {
		return nil, err
	}
	prompts := promptx.LoadPromptSet()
	if missing := prompts.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", contractx.ErrPromptMissing, strings.Join(missing, ", "))
	}

	factory, err := a.taskFactory(ctx, *llmCfg, prompts, catalog)
	if err != nil {
		return nil, err
	}
	defs, err := weather.Definitions(factory)
	if err != nil {
		return nil, fmt.Errorf("load pipelines: %w", err)
	}

	executor, err := pipelinex.NewExecutor(gateway,
		pipelinex.WithLogger(a.logger),
		pipelinex.WithObserver(a.metrics),
	)
	if err != nil {
		return nil, err
	}
	compiled := make([]*pipelinex.Compiled, 0, len(defs))
	for _, def := range defs {
		a.warnMissingTools(def, catalog)
		c, err := executor.Compile(ctx, def)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}

	classifier, err := a.classifier(ctx, *llmCfg, prompts)
	if err != nil {
		return nil, err
	}
	a.router, err = routerx.New(classifier, compiled,
		routerx.WithThreshold(appCfg.ClarifyThreshold),
		routerx.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}

	ok = true
	return a, nil
}

// providers builds the external clients. Maps and the warehouse are
// optional: without them their tools are absent and the stages that need
// them fail with a tool error.
func (a *app) providers() (toolx.Providers, error) {
	var p toolx.Providers

	nwsCfg, err := configx.New[nws.Config]("NWS")
	if err != nil {
		return p, err
	}
	weatherClient, err := nws.NewClient(*nwsCfg)
	if err != nil {
		return p, err
	}
	p.Weather = weatherClient

	mapsCfg, err := configx.New[gmaps.Config]("GMAPS")
	if err != nil {
		return p, err
	}
	if strings.TrimSpace(mapsCfg.APIKey) == "" {
		a.logger.Warn().Msg("GMAPS_API_KEY is not set; geocoding, places and directions are disabled")
	} else {
		mapsClient, err := gmaps.NewClient(*mapsCfg)
		if err != nil {
			return p, err
		}
		p.Maps = mapsClient
	}

	whCfg, err := configx.New[warehouse.Config]("WAREHOUSE")
	if err != nil {
		return p, err
	}
	if strings.TrimSpace(whCfg.DSN) == "" {
		a.logger.Warn().Msg("WAREHOUSE_DSN is not set; census, flood and weather history data are disabled")
	} else {
		store, db, err := warehouse.Open(*whCfg)
		if err != nil {
			return p, err
		}
		a.closers = append(a.closers, db)
		p.Warehouse = store
		p.History = store
	}
	return p, nil
}

func (a *app) cache() (cachex.Cache, error) {
	redisCfg, err := configx.New[cachex.UpstashRedisConfig]("UPSTASH_REDIS")
	if err != nil {
		return nil, err
	}
	if redisCfg.Enabled() {
		redis, err := cachex.NewUpstashRedisCache(*redisCfg)
		if err != nil {
			return nil, err
		}
		return redis, nil
	}
	a.memCache = cachex.NewMemoryCache()
	return a.memCache, nil
}

func (a *app) taskFactory(ctx context.Context, cfg llm.Config, prompts promptx.PromptSet, catalog *toolx.Catalog) (pipelinex.TaskFactory, error) {
	switch strings.ToLower(strings.TrimSpace(a.cfg.TaskBackend)) {
	case "", BackendScripted:
		var insights contractx.Generator
		if cfg.Enabled() {
			gen, err := openrouterx.NewGenerator(cfg.OpenRouterFor(llm.RoleInsight), prompts.Insight)
			if err != nil {
				return nil, err
			}
			insights = gen
		}
		return weather.NewTasks(insights).Factory(), nil
	case BackendLLM:
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("task backend llm: %w", err)
		}
		orCfg := cfg.OpenRouterFor(llm.RoleStage)
		chatModel, err := orCfg.New(ctx)
		if err != nil {
			return nil, err
		}
		tasks, err := llm.NewStageTasks(ctx, chatModel, catalog, prompts.Stage)
		if err != nil {
			return nil, err
		}
		return tasks.Factory(), nil
	default:
		return nil, fmt.Errorf("unknown task backend %q", a.cfg.TaskBackend)
	}
}

func (a *app) classifier(ctx context.Context, cfg llm.Config, prompts promptx.PromptSet) (contractx.Classifier, error) {
	switch strings.ToLower(strings.TrimSpace(a.cfg.RouterBackend)) {
	case "", BackendKeyword:
		return routerx.NewKeywordClassifier(), nil
	case BackendLLM:
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("router backend llm: %w", err)
		}
		orCfg := cfg.OpenRouterFor(llm.RoleClassifier)
		chatModel, err := orCfg.New(ctx)
		if err != nil {
			return nil, err
		}
		return llm.NewClassifier(ctx, chatModel, prompts.Classifier)
	default:
		return nil, fmt.Errorf("unknown router backend %q", a.cfg.RouterBackend)
	}
}

func (a *app) warnMissingTools(def pipelinex.Definition, catalog *toolx.Catalog) {
	for _, stage := range def.Stages {
		for _, tool := range stage.Tools {
			if !catalog.Has(tool) {
				a.logger.Warn().
					Str("pipeline", def.Name).
					Str("stage", stage.Name).
					Str("tool", tool).
					Msg("stage tool is not available")
			}
		}
	}
}
