package weather

import (
	"regexp"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/weather-insights-advisor/agent/contract"
	"github.com/tanpawarit/weather-insights-advisor/pkg/usgeo"
)

var (
	cityStatePattern = regexp.MustCompile(`\b([A-Z][A-Za-z.'-]*(?:\s+[A-Z][A-Za-z.'-]*)*,\s*[A-Z]{2})\b`)
	zipPattern       = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
	placePattern     = regexp.MustCompile(`(?i)\b(?:in|for|near|around|at)\s+([A-Za-z0-9][A-Za-z0-9 .,'-]*)`)
	countyPattern    = regexp.MustCompile(`\b([A-Z][A-Za-z.'-]*(?:\s+[A-Z][A-Za-z.'-]*)?)\s+[Cc]ounty\b`)
	categoryPattern  = regexp.MustCompile(`(?i)\bcat(?:egory)?\.?\s*([1-5])\b`)

	// A two-letter code in a place position: "alerts for ZZ", "Springfield, ZZ".
	placedCodePattern = regexp.MustCompile(`(?:\b(?i:in|for|across|over)\s+|,\s*)([A-Z]{2})\b`)

	// Trailing phrases that follow a place name but are not part of it.
	timeSuffix = regexp.MustCompile(`(?i)\s+(?:this|next|today|tonight|tomorrow|right|over|during|for the|on|in the|weekend|week|now)\b.*$`)
)

var notStateCodes = map[string]bool{"US": true, "AM": true, "PM": true, "UV": true}

// ExtractLocation pulls a place name out of free text. It prefers an
// explicit "City, ST" or ZIP code and falls back to the phrase after a
// preposition, then to a state name.
func ExtractLocation(text string) string {
	if m := cityStatePattern.FindString(text); m != "" {
		return strings.TrimSpace(m)
	}
	if m := zipPattern.FindString(text); m != "" {
		return m
	}
	if m := placePattern.FindStringSubmatch(text); m != nil {
		place := timeSuffix.ReplaceAllString(m[1], "")
		place = strings.Trim(strings.TrimSpace(place), " .,?!")
		if place != "" && !isFiller(place) {
			return place
		}
	}
	if states := usgeo.FindStates(text); len(states) > 0 {
		return states[0].Name
	}
	return ""
}

func isFiller(place string) bool {
	switch strings.ToLower(place) {
	case "me", "my area", "here", "the", "the area", "us", "the us", "the week", "the weekend", "today", "tomorrow":
		return true
	}
	return false
}

// ExtractCounty finds a "Harris County" style mention.
func ExtractCounty(text string) string {
	if m := countyPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExtractCategory finds "category 4" or "cat 4".
func ExtractCategory(text string) int {
	if m := categoryPattern.FindStringSubmatch(text); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// StateCode resolves the state a request is about: hint first, then a
// state named in the text, then an unknown two-letter code standing where a
// place would ("alerts for ZZ"). The last case lets an unrecognised code
// reach the alerts tool, which reports it instead of silently widening the
// query to the whole country. Other uppercase pairs such as "TV" or "AC"
// are ordinary words.
func StateCode(req contractx.Request) string {
	if code := strings.ToUpper(strings.TrimSpace(req.Hints.StateCode)); code != "" {
		return code
	}
	if states := usgeo.FindStates(req.Text); len(states) > 0 {
		return states[0].Code
	}
	for _, m := range placedCodePattern.FindAllStringSubmatch(req.Text, -1) {
		token := m[1]
		if notStateCodes[token] || usgeo.IsStateCode(token) {
			continue
		}
		return token
	}
	return ""
}

// StateCodes lists every state a request mentions, hints first.
func StateCodes(req contractx.Request) []string {
	seen := map[string]bool{}
	var out []string
	add := func(code string) {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || seen[code] {
			return
		}
		seen[code] = true
		out = append(out, code)
	}
	for _, code := range req.Hints.AffectedStates {
		add(code)
	}
	add(req.Hints.StateCode)
	for _, s := range usgeo.FindStates(req.Text) {
		add(s.Code)
	}
	return out
}

func county(req contractx.Request) string {
	if c := strings.TrimSpace(req.Hints.County); c != "" {
		return c
	}
	return ExtractCounty(req.Text)
}
