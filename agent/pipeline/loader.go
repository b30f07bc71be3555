package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	schemax "github.com/tanpawarit/weather-insights-advisor/agent/schema"
	"gopkg.in/yaml.v3"
)

// File is the YAML document describing a set of pipelines.
type File struct {
	Pipelines []PipelineSpec `yaml:"pipelines"`
}

type PipelineSpec struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description"`
	Intent      string      `yaml:"intent"`
	Stages      []StageSpec `yaml:"stages"`
}

type StageSpec struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Instruction  string   `yaml:"instruction"`
	Tools        []string `yaml:"tools"`
	OutputKey    string   `yaml:"output_key"`
	OutputSchema string   `yaml:"output_schema"`
	Task         string   `yaml:"task"`
}

// TaskFactory turns a stage spec into the Task that will run it, which is
// where a backend (scripted or model driven) is chosen.
type TaskFactory func(spec StageSpec) (Task, error)

// Parse decodes a pipeline file, rejecting unknown fields.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("parse pipeline yaml: %w", err)
	}
	return f, nil
}

// Load parses data and builds validated definitions. Schema names are
// resolved against schemas and tasks are built through factory.
func Load(data []byte, factory TaskFactory, schemas schemax.Set) ([]Definition, error) {
	if factory == nil {
		return nil, errors.New("task factory is required")
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if len(f.Pipelines) == 0 {
		return nil, errors.New("pipeline yaml defines no pipelines")
	}

	seen := make(map[string]struct{}, len(f.Pipelines))
	defs := make([]Definition, 0, len(f.Pipelines))
	for _, p := range f.Pipelines {
		if _, dup := seen[p.Name]; dup {
			return nil, fmt.Errorf("duplicate pipeline %s", p.Name)
		}
		seen[p.Name] = struct{}{}

		def := Definition{
			Name:        strings.TrimSpace(p.Name),
			Description: strings.TrimSpace(p.Description),
			Intent:      contractx.Intent(strings.TrimSpace(p.Intent)),
		}
		if def.Intent != "" && !def.Intent.Valid() {
			return nil, fmt.Errorf("pipeline %s: unknown intent %q", p.Name, p.Intent)
		}
		for _, s := range p.Stages {
			stage, err := buildStage(s, factory, schemas)
			if err != nil {
				return nil, fmt.Errorf("pipeline %s: %w", p.Name, err)
			}
			def.Stages = append(def.Stages, stage)
		}
		if err := def.Validate(); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func buildStage(s StageSpec, factory TaskFactory, schemas schemax.Set) (Stage, error) {
	stage := Stage{
		Name:        strings.TrimSpace(s.Name),
		Description: strings.TrimSpace(s.Description),
		Instruction: strings.TrimSpace(s.Instruction),
		Tools:       s.Tools,
		OutputKey:   strings.TrimSpace(s.OutputKey),
	}
	if name := strings.TrimSpace(s.OutputSchema); name != "" {
		sch, ok := schemas.Lookup(name)
		if !ok {
			return Stage{}, fmt.Errorf("stage %s: unknown output schema %s", s.Name, name)
		}
		stage.OutputSchema = &sch
	}
	task, err := factory(s)
	if err != nil {
		return Stage{}, fmt.Errorf("stage %s: %w", s.Name, err)
	}
	stage.Task = task
	return stage, nil
}
