package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/stage.txt
	stageRaw string

	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/insight.txt
	insightRaw string
)

// PromptSet holds the system prompts of the model backed components.
type PromptSet struct {
	Stage      string
	Classifier string
	Insight    string
}

// LoadPromptSet returns the embedded prompts, trimmed.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Stage:      strings.TrimSpace(stageRaw),
		Classifier: strings.TrimSpace(classifierRaw),
		Insight:    strings.TrimSpace(insightRaw),
	}
}

// Missing names the prompts that are empty.
func (p PromptSet) Missing() []string {
	var out []string
	if p.Stage == "" {
		out = append(out, "stage")
	}
	if p.Classifier == "" {
		out = append(out, "classifier")
	}
	if p.Insight == "" {
		out = append(out, "insight")
	}
	return out
}
