package router

import (
	"context"
	"regexp"
	"strings"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

type term struct {
	text   string
	weight float64
}

// defaultTerms are the routing keywords per intent. Specific words weigh
// more than generic ones so "weather alerts" reads as alerts.
var defaultTerms = map[contractx.Intent][]term{
	contractx.IntentAlerts: {
		{"alert", 2}, {"warning", 2}, {"watch", 2}, {"advisory", 2},
		{"active alerts", 3}, {"emergency alert", 3}, {"severe", 1},
	},
	contractx.IntentForecast: {
		{"forecast", 2}, {"temperature", 2}, {"7-day", 2}, {"hourly", 2},
		{"weather", 1}, {"conditions", 1}, {"rain", 1}, {"snow", 1},
	},
	contractx.IntentRisk: {
		{"risk", 2}, {"danger", 2}, {"vulnerable", 2}, {"exposure", 2},
		{"population at risk", 3}, {"safety", 1}, {"threat", 1}, {"impact", 1},
		{"analyze", 1}, {"analysis", 1},
	},
	contractx.IntentEmergencyResources: {
		{"shelter", 2}, {"hospital", 2}, {"pharmacy", 2}, {"evacuation route", 3},
		{"emergency facility", 3}, {"find resources", 3}, {"fire station", 3}, {"resources", 1},
	},
	contractx.IntentHurricaneAnalysis: {
		{"hurricane", 2}, {"storm surge", 2}, {"landfall", 2}, {"tropical storm", 2},
		{"cyclone", 2}, {"evacuation priority", 3}, {"category", 1},
	},
}

type matcher struct {
	re     *regexp.Regexp
	weight float64
}

// KeywordClassifier scores each intent by the weighted keywords found in
// the text. Confidence is the winner's share of the total score.
type KeywordClassifier struct {
	matchers map[contractx.Intent][]matcher
}

func NewKeywordClassifier() *KeywordClassifier {
	k := &KeywordClassifier{matchers: make(map[contractx.Intent][]matcher, len(defaultTerms))}
	for intent, terms := range defaultTerms {
		for _, t := range terms {
			k.matchers[intent] = append(k.matchers[intent], matcher{
				re:     regexp.MustCompile(`\b` + regexp.QuoteMeta(t.text) + `(?:s|es)?\b`),
				weight: t.weight,
			})
		}
	}
	return k
}

func (k *KeywordClassifier) Classify(_ context.Context, text string) (contractx.Classification, error) {
	lower := strings.ToLower(text)
	out := contractx.Classification{Scores: map[contractx.Intent]float64{}}

	var total, best float64
	for _, intent := range contractx.Intents() {
		var score float64
		for _, m := range k.matchers[intent] {
			if m.re.MatchString(lower) {
				score += m.weight
			}
		}
		if score == 0 {
			continue
		}
		out.Scores[intent] = score
		total += score
		if score > best {
			best = score
			out.Intent = intent
		}
	}
	if total > 0 {
		out.Confidence = best / total
	}
	return out, nil
}
