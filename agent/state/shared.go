package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/mohae/deepcopy"
)

var ErrKeyNotFound = errors.New("state key not found")

// Reader is the read side of a SharedState. Tool adapters only ever see a Reader.
type Reader interface {
	Get(key string) (any, bool)
	Has(key string) bool
}

// SharedState is the key-value store scoped to one pipeline run.
// It is not safe for concurrent use: a run executes its stages sequentially
// and every run owns its own instance.
type SharedState struct {
	values map[string]any
}

var _ Reader = (*SharedState)(nil)

func New() *SharedState {
	return &SharedState{values: make(map[string]any)}
}

func (s *SharedState) Get(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key, replacing any earlier value. The store keeps
// the value as given; it performs no copying or coercion.
func (s *SharedState) Set(key string, value any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[key] = value
}

func (s *SharedState) Has(key string) bool {
	_, ok := s.Get(key)
	return ok
}

func (s *SharedState) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *SharedState) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Snapshot returns a deep copy of every entry.
func (s *SharedState) Snapshot() map[string]any {
	if s == nil {
		return map[string]any{}
	}
	out, ok := deepcopy.Copy(s.values).(map[string]any)
	if !ok || out == nil {
		return map[string]any{}
	}
	return out
}

// Clone returns an independent SharedState holding a deep copy of s.
// Writes to the clone never reach s.
func (s *SharedState) Clone() *SharedState {
	return &SharedState{values: s.Snapshot()}
}

// Decode reads key from r and converts it into T. Values already of type T
// are returned as-is; anything else goes through a JSON round trip, which is
// how map-shaped values (cached or model-produced) become typed structs.
func Decode[T any](r Reader, key string) (T, error) {
	var zero T
	if r == nil {
		return zero, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	raw, ok := r.Get(key)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return Convert[T](raw)
}

// Convert turns an arbitrary JSON-like value into T.
func Convert[T any](raw any) (T, error) {
	var zero T
	switch v := raw.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
		return zero, errors.New("nil value")
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return zero, fmt.Errorf("marshal %T: %w", raw, err)
	}
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return zero, fmt.Errorf("decode into %T: %w", out, err)
	}
	return out, nil
}
