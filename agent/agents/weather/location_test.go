package weather

import (
	"testing"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
)

func TestExtractLocation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want string
	}{
		{"What's the weather in Miami, FL this weekend?", "Miami, FL"},
		{"forecast for 33101", "33101"},
		{"Will it rain in Seattle tomorrow?", "Seattle"},
		{"hourly forecast near Lake Tahoe this week", "Lake Tahoe"},
		{"is it going to snow in Colorado", "Colorado"},
		{"weather for the weekend in Texas", "Texas"},
		{"what's the weather like", ""},
	}
	for _, tc := range cases {
		if got := ExtractLocation(tc.text); got != tc.want {
			t.Errorf("ExtractLocation(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

func TestStateCodeResolution(t *testing.T) {
	t.Parallel()

	cases := []struct {
		req  contractx.Request
		want string
	}{
		{contractx.Request{Text: "alerts in Florida", Hints: contractx.Hints{StateCode: "ga"}}, "GA"},
		{contractx.Request{Text: "alerts in Florida"}, "FL"},
		{contractx.Request{Text: "flooding in Harris County, TX"}, "TX"},
		{contractx.Request{Text: "any alerts for ZZ at 5 PM"}, "ZZ"},
		{contractx.Request{Text: "national alerts in the US"}, ""},
		{contractx.Request{Text: "alerts near the AC plant"}, ""},
		{contractx.Request{Text: "TV station alerts"}, ""},
		{contractx.Request{Text: "Springfield, ZZ flood alerts"}, "ZZ"},
		{contractx.Request{Text: "Ⱥ alerts in florida"}, "FL"},
		{contractx.Request{Text: "İİİİİİ alerts in texas"}, "TX"},
	}
	for _, tc := range cases {
		if got := StateCode(tc.req); got != tc.want {
			t.Errorf("StateCode(%q) = %q, want %q", tc.req.Text, got, tc.want)
		}
	}
}

func TestStateCodesKeepsHintsFirst(t *testing.T) {
	t.Parallel()

	got := StateCodes(contractx.Request{
		Text:  "storm track over Georgia and Florida",
		Hints: contractx.Hints{AffectedStates: []string{"sc", "GA"}},
	})
	want := []string{"SC", "GA", "FL"}
	if len(got) != len(want) {
		t.Fatalf("StateCodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("StateCodes = %v, want %v", got, want)
		}
	}
}

func TestExtractCountyAndCategory(t *testing.T) {
	t.Parallel()

	if got := ExtractCounty("risk in Miami-Dade County, FL"); got != "Miami-Dade" {
		t.Errorf("county = %q", got)
	}
	if got := ExtractCounty("What is the flood risk in Harris County?"); got != "Harris" {
		t.Errorf("county = %q", got)
	}
	if got := ExtractCounty("no county named"); got != "" {
		t.Errorf("county = %q", got)
	}
	for text, want := range map[string]int{
		"Category 4 hurricane":   4,
		"a cat 2 storm":          2,
		"cat. 5 landfall":        5,
		"category 7 is not real": 0,
		"tropical storm":         0,
	} {
		if got := ExtractCategory(text); got != want {
			t.Errorf("ExtractCategory(%q) = %d, want %d", text, got, want)
		}
	}
}
