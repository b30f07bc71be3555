// Package mcptools exposes the pipeline runner as Model Context Protocol
// tools so assistants can request weather analyses directly.
package mcptools

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

const serverName = "weather-insights-advisor"

// Service adapts a contractx.Runner to MCP tool handlers.
type Service struct {
	runner contractx.Runner
}

func NewService(runner contractx.Runner) (*Service, error) {
	if runner == nil {
		return nil, errors.New("pipeline runner is required")
	}
	return &Service{runner: runner}, nil
}

// RunPipeline runs one request. Pipeline failures are reported through the
// result's status and kind rather than as tool errors, so callers always
// get the structured outcome.
func (s *Service) RunPipeline(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunPipelineInput,
) (*mcp.CallToolResult, contractx.PipelineResult, error) {
	var hints contractx.Hints
	if input.Hints != nil {
		hints = *input.Hints
	}
	res := s.runner.RunPipeline(ctx, strings.TrimSpace(input.Pipeline), input.Query, hints)
	if !input.Debug {
		res.State = nil
	}
	return nil, res, nil
}

func (s *Service) ListPipelines(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListPipelinesInput,
) (*mcp.CallToolResult, ListPipelinesOutput, error) {
	infos := s.runner.Pipelines()
	if infos == nil {
		infos = []contractx.PipelineInfo{}
	}
	return nil, ListPipelinesOutput{Pipelines: infos}, nil
}

// NewServer creates an MCP server with run_pipeline and list_pipelines
// registered.
func NewServer(svc *Service, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_pipeline",
		Description: "Run a weather insights pipeline (forecast, alerts, risk analysis, emergency resources or hurricane analysis) for a free text request.",
	}, svc.RunPipeline)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_pipelines",
		Description: "List the available pipelines with their intents and stages.",
	}, svc.ListPipelines)

	return server
}

// RunStdio serves on stdin and stdout until the client disconnects or ctx
// is cancelled.
func RunStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
