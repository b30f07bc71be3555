package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

type classifierLLMOutput struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Classifier asks the model for an intent and a confidence. Unknown or
// unsupported intents come back as an empty intent so the router asks for
// clarification instead of guessing.
type Classifier struct {
	runner compose.Runnable[map[string]any, classifierLLMOutput]
}

var _ contractx.Classifier = (*Classifier)(nil)

func NewClassifier(ctx context.Context, chatModel einomodel.BaseChatModel, systemPrompt string) (*Classifier, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: classifier", contractx.ErrPromptMissing)
	}
	runner, err := compileStructuredGraph[classifierLLMOutput](ctx, chatModel, systemPrompt, "llm.classifier_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: compile classifier graph: %v", contractx.ErrModelInvoke, err)
	}
	return &Classifier{runner: runner}, nil
}

func (c *Classifier) Classify(ctx context.Context, text string) (contractx.Classification, error) {
	if strings.TrimSpace(text) == "" {
		return contractx.Classification{}, fmt.Errorf("%w: request text is required", contractx.ErrValidation)
	}

	input, err := json.Marshal(map[string]any{"text": text})
	if err != nil {
		return contractx.Classification{}, fmt.Errorf("%w: marshal classifier payload: %v", contractx.ErrValidation, err)
	}
	out, err := c.runner.Invoke(ctx, map[string]any{"input": string(input)})
	if err != nil {
		return contractx.Classification{}, fmt.Errorf("%w: classifier invoke: %v", contractx.ErrModelInvoke, err)
	}

	intent := contractx.Intent(strings.ToLower(strings.TrimSpace(out.Intent)))
	if !intent.Valid() {
		return contractx.Classification{}, nil
	}
	confidence := out.Confidence
	if math.IsNaN(confidence) {
		confidence = 0
	}
	confidence = min(max(confidence, 0), 1)

	return contractx.Classification{
		Intent:     intent,
		Confidence: confidence,
		Scores:     map[contractx.Intent]float64{intent: confidence},
	}, nil
}
