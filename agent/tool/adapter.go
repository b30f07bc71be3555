package tool

import (
	"context"

	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/weather-insights-advisor/agent/state"
)

// Adapter wraps one external call. Invoke validates args, performs the call
// and returns the normalized payload; the Gateway writes that payload into
// shared state under StateKey. Adapters must not keep per-call state.
type Adapter interface {
	Info() *schema.ToolInfo
	StateKey() string
	Invoke(ctx context.Context, view statex.Reader, args Args) (any, error)
}

// Cacheable marks adapters whose responses depend only on their arguments.
type Cacheable interface {
	Cacheable() bool
}

func nameOf(a Adapter) string {
	if a == nil || a.Info() == nil {
		return ""
	}
	return a.Info().Name
}
