package contract

// Intent is one of the fixed request categories the router understands.
type Intent string

const (
	IntentAlerts             Intent = "alerts"
	IntentForecast           Intent = "forecast"
	IntentRisk               Intent = "risk"
	IntentEmergencyResources Intent = "emergency_resources"
	IntentHurricaneAnalysis  Intent = "hurricane_analysis"
)

func Intents() []Intent {
	return []Intent{
		IntentAlerts,
		IntentForecast,
		IntentRisk,
		IntentEmergencyResources,
		IntentHurricaneAnalysis,
	}
}

func (i Intent) Valid() bool {
	for _, known := range Intents() {
		if i == known {
			return true
		}
	}
	return false
}

// Hints are optional structured values a caller may send next to the free text.
// Stages prefer hints over anything extracted from the text.
type Hints struct {
	Location          string   `json:"location,omitempty"`
	StateCode         string   `json:"state_code,omitempty"`
	County            string   `json:"county,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	RadiusMeters      int      `json:"radius_meters,omitempty"`
	ResourceTypes     []string `json:"resource_types,omitempty"`
	Severity          string   `json:"severity,omitempty"`
	HurricaneCategory int      `json:"hurricane_category,omitempty"`
	AffectedStates    []string `json:"affected_states,omitempty"`
}

// Coordinates reports the hinted point when both halves are present.
func (h Hints) Coordinates() (lat float64, lng float64, ok bool) {
	if h.Latitude == nil || h.Longitude == nil {
		return 0, 0, false
	}
	return *h.Latitude, *h.Longitude, true
}

type Request struct {
	Text  string `json:"text"`
	Hints Hints  `json:"hints,omitempty"`
}

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// PipelineResult is the only value that crosses the run_pipeline boundary.
// Data is set on success; Kind and Message are set on error.
type PipelineResult struct {
	RunID    string         `json:"run_id,omitempty"`
	Pipeline string         `json:"pipeline,omitempty"`
	Status   Status         `json:"status"`
	Data     any            `json:"data,omitempty"`
	Kind     ErrorKind      `json:"kind,omitempty"`
	Message  string         `json:"message,omitempty"`
	Stage    string         `json:"stage,omitempty"`
	Stages   []string       `json:"stages,omitempty"`
	Options  []string       `json:"options,omitempty"`
	State    map[string]any `json:"state,omitempty"`
}

func (r PipelineResult) OK() bool {
	return r.Status == StatusSuccess
}

// ErrorResult builds an error result from err, classifying it with KindOf.
func ErrorResult(pipeline string, err error) PipelineResult {
	return PipelineResult{
		Pipeline: pipeline,
		Status:   StatusError,
		Kind:     KindOf(err),
		Message:  err.Error(),
	}
}

type PipelineInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Intent      Intent   `json:"intent"`
	Stages      []string `json:"stages"`
}

type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

type ToolResult struct {
	Tool    string `json:"tool"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
	Timeout bool   `json:"timeout,omitempty"`
}

func (r ToolResult) OK() bool {
	return r.Error == ""
}

// Classification is what a Classifier reports for one request text.
// Scores holds the raw per-intent evidence; Confidence is the share of the winner.
type Classification struct {
	Intent     Intent             `json:"intent"`
	Confidence float64            `json:"confidence"`
	Scores     map[Intent]float64 `json:"scores,omitempty"`
}
