package usgeo

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

type Point struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// Union returns the smallest box covering every input box.
func Union(boxes ...Bounds) Bounds {
	if len(boxes) == 0 {
		return Bounds{}
	}
	out := boxes[0]
	for _, b := range boxes[1:] {
		out.MinLat = math.Min(out.MinLat, b.MinLat)
		out.MaxLat = math.Max(out.MaxLat, b.MaxLat)
		out.MinLng = math.Min(out.MinLng, b.MinLng)
		out.MaxLng = math.Max(out.MaxLng, b.MaxLng)
	}
	return out
}

type State struct {
	Code   string
	Name   string
	FIPS   string
	Bounds Bounds
	Center Point
}

// ContiguousCenter is the geographic center of the lower 48 states.
var ContiguousCenter = Point{Lat: 39.83, Lng: -98.58}

var (
	byCode = map[string]State{}
	byName = map[string]State{}
)

func init() {
	for _, s := range states {
		byCode[s.Code] = s
		byName[strings.ToLower(s.Name)] = s
	}
}

// LookupState resolves a postal code or a full state name, case-insensitively.
func LookupState(codeOrName string) (State, bool) {
	key := strings.TrimSpace(codeOrName)
	if s, ok := byCode[strings.ToUpper(key)]; ok {
		return s, true
	}
	s, ok := byName[strings.ToLower(key)]
	return s, ok
}

func IsStateCode(code string) bool {
	_, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

func AllStates() []State {
	return append([]State(nil), states...)
}

var (
	nameFinder = buildNameFinder()
	codeFinder = regexp.MustCompile(`(,\s*)?\b([A-Z]{2})\b`)
)

// Codes that are also common English words only count after a comma,
// as in "Portland, OR".
var ambiguousCodes = map[string]bool{
	"IN": true, "OR": true, "ME": true, "OK": true, "HI": true, "DE": true, "PA": true, "MA": true, "AL": true,
}

func buildNameFinder() *regexp.Regexp {
	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, regexp.QuoteMeta(strings.ToLower(s.Name)))
	}
	// longest first so "west virginia" wins over "virginia"
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return regexp.MustCompile(`(?i)\b(` + strings.Join(names, "|") + `)\b`)
}

// stateByName also accepts names the (?i) matcher folded, such as a
// long s standing in for "s".
func stateByName(name string) (State, bool) {
	if s, ok := byName[strings.ToLower(name)]; ok {
		return s, true
	}
	for _, s := range states {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return State{}, false
}

// FindStates returns the states mentioned in text by full name or postal
// code, in order of first appearance and without duplicates.
func FindStates(text string) []State {
	type hit struct {
		pos   int
		state State
	}
	var hits []hit

	// Offsets must index text itself: lowercasing can change byte lengths.
	for _, m := range nameFinder.FindAllStringSubmatchIndex(text, -1) {
		if s, ok := stateByName(text[m[2]:m[3]]); ok {
			hits = append(hits, hit{pos: m[2], state: s})
		}
	}
	for _, m := range codeFinder.FindAllStringSubmatchIndex(text, -1) {
		code := text[m[4]:m[5]]
		s, ok := byCode[code]
		if !ok {
			continue
		}
		afterComma := m[2] >= 0
		if ambiguousCodes[code] && !afterComma {
			continue
		}
		hits = append(hits, hit{pos: m[4], state: s})
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	seen := map[string]bool{}
	var out []State
	for _, h := range hits {
		if seen[h.state.Code] {
			continue
		}
		seen[h.state.Code] = true
		out = append(out, h.state)
	}
	return out
}

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between two points.
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}
