package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
)

var ErrEmptyCompletion = errors.New("openrouter: completion has no content")

// Generator writes insight prose with a single chat completion per call.
type Generator struct {
	client       *openaisdk.Client
	model        string
	systemPrompt string
	temperature  float64
	maxTokens    int64
}

func NewGenerator(cfg Config, systemPrompt string) (*Generator, error) {
	client := NewClient(cfg)
	if client == nil {
		return nil, errors.New("openrouter: api key is required")
	}
	modelName := strings.TrimSpace(cfg.Model)
	if modelName == "" {
		return nil, errors.New("openrouter: model is required")
	}

	g := &Generator{
		client:       client,
		model:        modelName,
		systemPrompt: strings.TrimSpace(systemPrompt),
		temperature:  float64(cfg.Temperature),
	}
	if cfg.MaxCompletionToken != nil && *cfg.MaxCompletionToken > 0 {
		g.maxTokens = int64(*cfg.MaxCompletionToken)
	}
	return g, nil
}

// Generate sends instruction as the system message, after the shared system
// prompt, and payload as JSON in the user message.
func (g *Generator) Generate(ctx context.Context, instruction string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openrouter: marshal payload: %w", err)
	}

	system := g.systemPrompt
	if instruction = strings.TrimSpace(instruction); instruction != "" {
		system = strings.TrimSpace(system + "\n\n" + instruction)
	}

	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(g.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(system),
			openaisdk.UserMessage(string(body)),
		},
		Temperature: openaisdk.Float(g.temperature),
	}
	if g.maxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(g.maxTokens)
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openrouter: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
