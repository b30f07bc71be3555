package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Args are the explicit arguments of one tool call, usually decoded from
// JSON. Accessors accept the loose shapes JSON and model output produce.
type Args map[string]any

func argError(key, reason string) error {
	return fmt.Errorf("%w %s: %s", ErrInvalidArgument, key, reason)
}

func (a Args) String(key string) string {
	switch v := a[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}

func (a Args) RequireString(key string) (string, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return "", argError(key, "is required")
	}
	s, ok := raw.(string)
	if !ok {
		return "", argError(key, "must be a string")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", argError(key, "must be a non-empty string")
	}
	return s, nil
}

// Float reads a numeric argument. ok is false when the key is absent.
func (a Args) Float(key string) (value float64, ok bool, err error) {
	raw, present := a[key]
	if !present || raw == nil {
		return 0, false, nil
	}
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, perr := v.Float64()
		if perr != nil {
			return 0, true, argError(key, "must be numeric")
		}
		f = parsed
	case string:
		parsed, perr := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if perr != nil {
			return 0, true, argError(key, "must be numeric")
		}
		f = parsed
	default:
		return 0, true, argError(key, "must be numeric")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, argError(key, "must be a finite number")
	}
	return f, true, nil
}

func (a Args) RequireFloat(key string) (float64, error) {
	f, ok, err := a.Float(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, argError(key, "is required")
	}
	return f, nil
}

// Int reads a whole-number argument, falling back to def when absent.
func (a Args) Int(key string, def int) (int, error) {
	f, ok, err := a.Float(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	if f != math.Trunc(f) {
		return 0, argError(key, "must be a whole number")
	}
	return int(f), nil
}

func (a Args) Bool(key string, def bool) (bool, error) {
	raw, ok := a[key]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, argError(key, "must be a boolean")
		}
		return b, nil
	default:
		return false, argError(key, "must be a boolean")
	}
}

// Coordinates reads latitude and longitude and checks their ranges.
func (a Args) Coordinates() (lat float64, lng float64, err error) {
	lat, err = a.RequireFloat("latitude")
	if err != nil {
		return 0, 0, err
	}
	lng, err = a.RequireFloat("longitude")
	if err != nil {
		return 0, 0, err
	}
	if lat < -90 || lat > 90 {
		return 0, 0, argError("latitude", "must be within -90..90")
	}
	if lng < -180 || lng > 180 {
		return 0, 0, argError("longitude", "must be within -180..180")
	}
	return lat, lng, nil
}

// Decode converts one argument into T through JSON, for structured
// arguments such as marker or location lists.
func Decode[T any](a Args, key string) (T, bool, error) {
	var out T
	raw, ok := a[key]
	if !ok || raw == nil {
		return out, false, nil
	}
	payload, err := json.Marshal(raw)
	if err != nil {
		return out, true, argError(key, "is not serializable")
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return out, true, argError(key, "has the wrong shape")
	}
	return out, true, nil
}
