package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	schemax "github.com/tanpawarit/weather-insights-advisor/agent/schema"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
)

// Task is the computation inside one stage. Implementations may be scripted
// Go, a rule engine or a model call; the executor only sees the returned
// value and validates it when the stage declares a schema.
type Task interface {
	Run(ctx context.Context, env *Env) (any, error)
}

type TaskFunc func(ctx context.Context, env *Env) (any, error)

func (f TaskFunc) Run(ctx context.Context, env *Env) (any, error) {
	return f(ctx, env)
}

// Stage is an immutable step template, shared by every run of its pipeline.
type Stage struct {
	Name         string
	Description  string
	Instruction  string
	Tools        []string
	OutputKey    string
	OutputSchema *schemax.Schema
	Task         Task
}

type Definition struct {
	Name        string
	Description string
	Intent      contractx.Intent
	Stages      []Stage
}

func (d Definition) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("pipeline name is required")
	}
	if len(d.Stages) == 0 {
		return fmt.Errorf("pipeline %s has no stages", d.Name)
	}
	names := make(map[string]struct{}, len(d.Stages))
	for i, s := range d.Stages {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("pipeline %s: stage %d has no name", d.Name, i)
		}
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("pipeline %s: duplicate stage %s", d.Name, s.Name)
		}
		names[s.Name] = struct{}{}
		if strings.TrimSpace(s.OutputKey) == "" {
			return fmt.Errorf("pipeline %s: stage %s has no output key", d.Name, s.Name)
		}
		if s.OutputKey == statex.KeyInput {
			return fmt.Errorf("pipeline %s: stage %s may not write the %q key", d.Name, s.Name, statex.KeyInput)
		}
		if s.Task == nil {
			return fmt.Errorf("pipeline %s: stage %s has no task", d.Name, s.Name)
		}
	}
	return nil
}

func (d Definition) StageNames() []string {
	out := make([]string, 0, len(d.Stages))
	for _, s := range d.Stages {
		out = append(out, s.Name)
	}
	return out
}

func (d Definition) Info() contractx.PipelineInfo {
	return contractx.PipelineInfo{
		Name:        d.Name,
		Description: d.Description,
		Intent:      d.Intent,
		Stages:      d.StageNames(),
	}
}
