// Package warehouse reads the public census and flood-zone tables the risk
// and hurricane pipelines aggregate. Tables are plain PostgreSQL relations
// accessed through bun.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

var ErrNoRows = errors.New("warehouse returned no rows")

type Config struct {
	DSN     string        `envconfig:"DSN"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Store struct {
	db bun.IDB
}

// Open connects lazily; no query runs until the first lookup.
func Open(cfg Config) (*Store, *bun.DB, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, nil, errors.New("warehouse dsn is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithDSN(dsn),
		pgdriver.WithTimeout(timeout),
	))
	db := bun.NewDB(sqldb, pgdialect.New())
	return NewStore(db), db, nil
}

func NewStore(db bun.IDB) *Store {
	return &Store{db: db}
}

type CountyDemographics struct {
	bun.BaseModel `bun:"table:census_county_demographics,alias:cd"`

	StateCode         string  `bun:"state_code"`
	StateFIPS         string  `bun:"state_fips"`
	CountyFIPS        string  `bun:"county_fips"`
	CountyName        string  `bun:"county_name"`
	TotalPopulation   int64   `bun:"total_pop"`
	MedianAge         float64 `bun:"median_age"`
	MedianIncome      float64 `bun:"median_income"`
	PopulationOver65  int64   `bun:"pop_65_over"`
	PopulationUnder18 int64   `bun:"pop_under_18"`
	PovertyCount      int64   `bun:"poverty"`
	Households        int64   `bun:"households"`
}

type CensusTract struct {
	bun.BaseModel `bun:"table:census_tracts,alias:ct"`

	GeoID           string  `bun:"geo_id"`
	StateCode       string  `bun:"state_code"`
	CountyName      string  `bun:"county_name"`
	TractName       string  `bun:"tract_name"`
	TotalPopulation int64   `bun:"total_pop"`
	Latitude        float64 `bun:"internal_lat"`
	Longitude       float64 `bun:"internal_lon"`
}

type FloodZone struct {
	bun.BaseModel `bun:"table:flood_zones,alias:fz"`

	ZoneID     string  `bun:"zone_id"`
	StateCode  string  `bun:"state_code"`
	CountyName string  `bun:"county_name"`
	RiskLevel  string  `bun:"risk_level"`
	Population int64   `bun:"population"`
	Latitude   float64 `bun:"latitude"`
	Longitude  float64 `bun:"longitude"`
}

// Demographics is a state or county total built from county rows.
type Demographics struct {
	StateCode         string
	County            string
	Counties          int
	TotalPopulation   int64
	MedianAge         float64
	MedianIncome      float64
	PopulationOver65  int64
	PopulationUnder18 int64
	PovertyCount      int64
	Households        int64
}

func (s *Store) demographicsQuery(rows *[]CountyDemographics, state, county string) *bun.SelectQuery {
	q := s.db.NewSelect().
		Model(rows).
		Where("cd.state_code = ?", strings.ToUpper(state))
	if county != "" {
		q = q.Where("lower(cd.county_name) = lower(?)", county)
	}
	return q.OrderExpr("cd.county_name ASC")
}

func (s *Store) Demographics(ctx context.Context, state, county string) (Demographics, error) {
	var rows []CountyDemographics
	if err := s.demographicsQuery(&rows, state, normalizeCounty(county)).Scan(ctx); err != nil {
		return Demographics{}, fmt.Errorf("query demographics: %w", err)
	}
	if len(rows) == 0 {
		return Demographics{}, fmt.Errorf("%w: demographics for %s", ErrNoRows, describeArea(state, county))
	}
	out := Aggregate(rows)
	out.StateCode = strings.ToUpper(state)
	out.County = normalizeCounty(county)
	return out, nil
}

// Aggregate sums county rows. Median age and income are population-weighted
// means of the county medians, which is an approximation.
func Aggregate(rows []CountyDemographics) Demographics {
	var out Demographics
	var ageWeight, incomeWeight float64
	for _, r := range rows {
		out.Counties++
		out.TotalPopulation += r.TotalPopulation
		out.PopulationOver65 += r.PopulationOver65
		out.PopulationUnder18 += r.PopulationUnder18
		out.PovertyCount += r.PovertyCount
		out.Households += r.Households
		ageWeight += r.MedianAge * float64(r.TotalPopulation)
		incomeWeight += r.MedianIncome * float64(r.TotalPopulation)
	}
	if out.TotalPopulation > 0 {
		out.MedianAge = ageWeight / float64(out.TotalPopulation)
		out.MedianIncome = incomeWeight / float64(out.TotalPopulation)
	}
	return out
}

func (s *Store) tractsQuery(rows *[]CensusTract, state, county string, limit int) *bun.SelectQuery {
	q := s.db.NewSelect().
		Model(rows).
		Where("ct.state_code = ?", strings.ToUpper(state))
	if county != "" {
		q = q.Where("lower(ct.county_name) = lower(?)", county)
	}
	return q.OrderExpr("ct.total_pop DESC").Limit(limit)
}

// Tracts returns the most populous tracts of an area.
func (s *Store) Tracts(ctx context.Context, state, county string, limit int) ([]CensusTract, error) {
	if limit <= 0 {
		limit = 25
	}
	var rows []CensusTract
	if err := s.tractsQuery(&rows, state, normalizeCounty(county), limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("query census tracts: %w", err)
	}
	return rows, nil
}

func (s *Store) floodQuery(rows *[]FloodZone, state, county string) *bun.SelectQuery {
	q := s.db.NewSelect().
		Model(rows).
		Where("fz.state_code = ?", strings.ToUpper(state))
	if county != "" {
		q = q.Where("lower(fz.county_name) = lower(?)", county)
	}
	return q.OrderExpr("fz.population DESC")
}

func (s *Store) FloodZones(ctx context.Context, state, county string) ([]FloodZone, error) {
	var rows []FloodZone
	if err := s.floodQuery(&rows, state, normalizeCounty(county)).Scan(ctx); err != nil {
		return nil, fmt.Errorf("query flood zones: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: flood zones for %s", ErrNoRows, describeArea(state, county))
	}
	return rows, nil
}

// normalizeCounty strips a trailing "County" so "Harris County" and
// "Harris" match the same rows.
func normalizeCounty(county string) string {
	county = strings.TrimSpace(county)
	if strings.HasSuffix(strings.ToLower(county), " county") {
		county = strings.TrimSpace(county[:len(county)-len(" county")])
	}
	return county
}

func describeArea(state, county string) string {
	if county = normalizeCounty(county); county != "" {
		return county + " County, " + strings.ToUpper(state)
	}
	return strings.ToUpper(state)
}
