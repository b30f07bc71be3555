// Package weather holds the weather insight pipelines: their definitions,
// output schemas and the scripted tasks that run each stage.
package weather

import (
	_ "embed"

	pipelinex "github.com/tanpawarit/weather-insights-advisor/agent/pipeline"
)

//go:embed pipelines.yaml
var pipelinesYAML []byte

// PipelinesYAML returns the embedded definition file.
func PipelinesYAML() []byte {
	return append([]byte(nil), pipelinesYAML...)
}

// Definitions loads the embedded pipelines with tasks from factory.
func Definitions(factory pipelinex.TaskFactory) ([]pipelinex.Definition, error) {
	return pipelinex.Load(pipelinesYAML, factory, Schemas())
}
