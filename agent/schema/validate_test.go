package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

var dailySchema = New("Daily", "one forecast day",
	String("date", "ISO date"),
	Integer("high_temp", "high in F"),
	Number("wind_mph", "wind speed"),
	Boolean("windy", "flag").Opt(),
	List("tags", "labels", String("tag", "")),
	Object("coordinates", "point",
		Number("latitude", "").WithRange(-90, 90),
		Number("longitude", "").WithRange(-180, 180),
	),
)

func TestValidateConformingCandidateKeepsOnlyDeclaredFields(t *testing.T) {
	t.Parallel()

	candidate := map[string]any{
		"date":        "2026-10-17",
		"high_temp":   88.0,
		"wind_mph":    12,
		"tags":        []string{},
		"coordinates": map[string]any{"latitude": 25.76, "longitude": -80.19, "extra": "x"},
		"unexpected":  "dropped",
	}

	got, err := dailySchema.Validate(candidate)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := map[string]any{
		"date":        "2026-10-17",
		"high_temp":   88,
		"wind_mph":    12.0,
		"tags":        []any{},
		"coordinates": map[string]any{"latitude": 25.76, "longitude": -80.19},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Validate() = %#v, want %#v", got, want)
	}
}

func TestValidateReportsMissingAndMistypedFields(t *testing.T) {
	t.Parallel()

	_, err := dailySchema.Validate(map[string]any{
		"date":        7,
		"high_temp":   88.5,
		"wind_mph":    "fast",
		"tags":        []any{"ok", 3},
		"coordinates": map[string]any{"latitude": 120.0},
	})
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("Validate() error = %v, want ErrSchemaViolation", err)
	}

	var verr *ViolationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *ViolationError", err)
	}

	wantPaths := []string{
		"date",
		"high_temp",
		"wind_mph",
		"tags[1]",
		"coordinates.latitude",
		"coordinates.longitude",
	}
	var gotPaths []string
	for _, v := range verr.Violations {
		gotPaths = append(gotPaths, v.Path)
	}
	if !reflect.DeepEqual(gotPaths, wantPaths) {
		t.Fatalf("violation paths = %v, want %v", gotPaths, wantPaths)
	}
}

func TestValidateNullRequiredFieldIsViolation(t *testing.T) {
	t.Parallel()

	s := New("S", "", String("name", ""), String("note", "").Opt())
	if _, err := s.Validate(map[string]any{"name": "a", "note": nil}); err != nil {
		t.Fatalf("null optional field should pass, got %v", err)
	}
	if _, err := s.Validate(map[string]any{"name": nil}); err == nil {
		t.Fatal("null required field should fail")
	}
}

func TestValidateMinLengthAndEnum(t *testing.T) {
	t.Parallel()

	s := New("S", "",
		String("location", "").WithMinLength(1),
		String("risk_level", "").WithEnum("Low", "Medium", "High", "Severe"),
	)

	if _, err := s.Validate(map[string]any{"location": "", "risk_level": "Low"}); err == nil {
		t.Fatal("empty location should violate min length")
	}
	if _, err := s.Validate(map[string]any{"location": "Miami", "risk_level": "Extreme"}); err == nil {
		t.Fatal("unknown risk level should violate enum")
	}
	if _, err := New("Free", "", String("s", "")).Validate(map[string]any{"s": ""}); err != nil {
		t.Fatalf("empty string without min length should pass, got %v", err)
	}
}

func TestValidateAcceptsRawJSON(t *testing.T) {
	t.Parallel()

	s := New("S", "", Integer("zoom", "").WithRange(1, 20))
	got, err := s.Validate(`{"zoom": 12}`)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got["zoom"] != 12 {
		t.Fatalf("zoom = %#v, want 12", got["zoom"])
	}
	if _, err := s.Validate(`{"zoom": 21}`); err == nil {
		t.Fatal("zoom 21 should be out of range")
	}
	if _, err := s.Validate(`[1,2]`); err == nil {
		t.Fatal("non-object candidate should fail")
	}
}

func TestValidateIsDeterministic(t *testing.T) {
	t.Parallel()

	candidate := map[string]any{"date": 1, "high_temp": "x", "tags": nil}
	_, first := dailySchema.Validate(candidate)
	_, second := dailySchema.Validate(candidate)
	if first == nil || second == nil {
		t.Fatal("expected violations")
	}
	if first.Error() != second.Error() {
		t.Fatalf("verdicts differ:\n%s\n%s", first, second)
	}
}

func TestDescribeListsNestedFields(t *testing.T) {
	t.Parallel()

	text := dailySchema.Describe()
	for _, want := range []string{
		"- high_temp (integer, required)",
		"- windy (boolean, optional)",
		"    - latitude (number, required)",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("Describe() missing %q:\n%s", want, text)
		}
	}
}

func TestJSONSchemaMirrorsFields(t *testing.T) {
	t.Parallel()

	doc := dailySchema.JSONSchema()
	if doc.Type != "object" || doc.Title != "Daily" {
		t.Fatalf("root = %q %q", doc.Type, doc.Title)
	}
	wantRequired := []string{"date", "high_temp", "wind_mph", "tags", "coordinates"}
	if !reflect.DeepEqual(doc.Required, wantRequired) {
		t.Fatalf("required = %v, want %v", doc.Required, wantRequired)
	}
	if got := doc.Properties["tags"]; got.Type != "array" || got.Items == nil || got.Items.Type != "string" {
		t.Fatalf("tags = %+v", got)
	}
	lat := doc.Properties["coordinates"].Properties["latitude"]
	if lat.Type != "number" || lat.Minimum == nil || *lat.Minimum != -90 || lat.Maximum == nil || *lat.Maximum != 90 {
		t.Fatalf("latitude = %+v", lat)
	}

	resolved, err := doc.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	normalized, err := dailySchema.Validate(map[string]any{
		"date":        "2026-10-17",
		"high_temp":   88,
		"wind_mph":    12.5,
		"tags":        []string{"hot"},
		"coordinates": map[string]any{"latitude": 25.76, "longitude": -80.19},
	})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := resolved.Validate(normalized); err != nil {
		t.Fatalf("normalized output rejected by its own document: %v", err)
	}
}

func TestValidateEnumAndLengthReasonsNameTheField(t *testing.T) {
	t.Parallel()

	s := New("S", "",
		String("location", "").WithMinLength(2),
		String("risk_level", "").WithEnum("Low", "High"),
		Integer("zoom", "").WithRange(1, 20),
	)
	_, err := s.Validate(map[string]any{"location": "x", "risk_level": "Extreme", "zoom": 0})
	var verr *ViolationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ViolationError", err)
	}
	var paths []string
	for _, v := range verr.Violations {
		if v.Reason == "" {
			t.Fatalf("empty reason for %s", v.Path)
		}
		paths = append(paths, v.Path)
	}
	if want := []string{"location", "risk_level", "zoom"}; !reflect.DeepEqual(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
}
