package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	openrouterx "github.com/tanpawarit/weather-insights-advisor/pkg/openrouter"
)

// Role names a model backed component. Each role may override the default
// model and temperature.
type Role string

const (
	RoleClassifier Role = "classifier"
	RoleStage      Role = "stage"
	RoleInsight    Role = "insight"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.2"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	ClassifierModel       string  `envconfig:"CLASSIFIER_MODEL" split_words:"true"`
	StageModel            string  `envconfig:"STAGE_MODEL" split_words:"true"`
	InsightModel          string  `envconfig:"INSIGHT_MODEL" split_words:"true"`
	ClassifierTemperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" split_words:"true" default:"0"`
	StageTemperature      float32 `envconfig:"STAGE_TEMPERATURE" split_words:"true" default:"-1"`
	InsightTemperature    float32 `envconfig:"INSIGHT_TEMPERATURE" split_words:"true" default:"-1"`
}

// Enabled reports whether a key and a default model are configured. The
// advisor runs without a model when it is not.
func (c Config) Enabled() bool {
	return c.Validate() == nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := func(model string, temperature float32) {
		if v := strings.TrimSpace(model); v != "" {
			modelName = v
		}
		if temperature >= 0 {
			temp = temperature
		}
	}

	switch role {
	case RoleClassifier:
		override(c.ClassifierModel, c.ClassifierTemperature)
	case RoleStage:
		override(c.StageModel, c.StageTemperature)
	case RoleInsight:
		override(c.InsightModel, c.InsightTemperature)
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
