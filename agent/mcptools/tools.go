package mcptools

import contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"

// RunPipelineInput is the input for the run_pipeline MCP tool.
type RunPipelineInput struct {
	Query    string           `json:"query" jsonschema:"free text request, for example: severe weather alerts in Florida"`
	Pipeline string           `json:"pipeline,omitempty" jsonschema:"pipeline name or intent; omit or use auto to route by intent"`
	Hints    *contractx.Hints `json:"hints,omitempty" jsonschema:"optional structured values that take precedence over the text"`
	Debug    bool             `json:"debug,omitempty" jsonschema:"include the full shared state in the result"`
}

// ListPipelinesInput is the input for the list_pipelines MCP tool.
type ListPipelinesInput struct{}

// ListPipelinesOutput is the result of the list_pipelines MCP tool.
type ListPipelinesOutput struct {
	Pipelines []contractx.PipelineInfo `json:"pipelines"`
}
