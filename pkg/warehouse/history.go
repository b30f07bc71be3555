package warehouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// NOAA Global Surface Summary of the Day, mirrored into two tables: the
// station list and one row per station per day. Missing readings are NULL.

const (
	DefaultStationLimit     = 3
	DefaultObservationLimit = 100
)

type WeatherStation struct {
	bun.BaseModel `bun:"table:gsod_stations,alias:st"`

	USAF      string  `bun:"usaf"`
	WBAN      string  `bun:"wban"`
	Name      string  `bun:"name"`
	State     string  `bun:"state"`
	Latitude  float64 `bun:"lat"`
	Longitude float64 `bun:"lon"`

	// Distance is in degrees, only meaningful for ordering.
	Distance float64 `bun:"distance,scanonly"`
}

type DailyObservation struct {
	bun.BaseModel `bun:"table:gsod_daily,alias:gd"`

	StationID     string    `bun:"stn"`
	Date          time.Time `bun:"date"`
	MeanTemp      *float64  `bun:"temp"`
	MaxTemp       *float64  `bun:"max"`
	MinTemp       *float64  `bun:"min"`
	Precipitation *float64  `bun:"prcp"`
	SnowDepth     *float64  `bun:"sndp"`
	WindSpeed     *float64  `bun:"wdsp"`
	MaxWindSpeed  *float64  `bun:"mxspd"`
}

// StationStatistics aggregates one station over a year or a month.
type StationStatistics struct {
	AvgTemp            *float64 `bun:"avg_temp"`
	HighestTemp        *float64 `bun:"highest_temp"`
	LowestTemp         *float64 `bun:"lowest_temp"`
	AvgPrecipitation   *float64 `bun:"avg_precipitation"`
	TotalPrecipitation *float64 `bun:"total_precipitation"`
	AvgWindSpeed       *float64 `bun:"avg_wind_speed"`
	MaxWindSpeed       *float64 `bun:"max_wind_speed"`
	DaysRecorded       int      `bun:"days_recorded"`
}

func (s *Store) stationsQuery(rows *[]WeatherStation, state string, lat, lng float64, limit int) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(rows).
		Column("st.usaf", "st.wban", "st.name", "st.state", "st.lat", "st.lon").
		ColumnExpr("sqrt(power(st.lat - ?, 2) + power(st.lon - ?, 2)) AS distance", lat, lng).
		Where("st.state = ?", strings.ToUpper(state)).
		Where("st.lat IS NOT NULL").
		Where("st.lon IS NOT NULL").
		OrderExpr("distance ASC").
		Limit(limit)
}

// NearestStations returns the stations of a state closest to a point.
func (s *Store) NearestStations(ctx context.Context, state string, lat, lng float64, limit int) ([]WeatherStation, error) {
	if limit <= 0 {
		limit = DefaultStationLimit
	}
	var rows []WeatherStation
	if err := s.stationsQuery(&rows, state, lat, lng, limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("query weather stations: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: weather stations for %s", ErrNoRows, strings.ToUpper(state))
	}
	return rows, nil
}

func (s *Store) observationsQuery(rows *[]DailyObservation, stationID string, from, to time.Time, limit int) *bun.SelectQuery {
	return s.db.NewSelect().
		Model(rows).
		Where("gd.stn = ?", stationID).
		Where("gd.date >= ?", from).
		Where("gd.date <= ?", to).
		OrderExpr("gd.date DESC").
		Limit(limit)
}

// DailyObservations returns the newest readings of one station between two
// dates, inclusive. An empty result is not an error.
func (s *Store) DailyObservations(ctx context.Context, stationID string, from, to time.Time, limit int) ([]DailyObservation, error) {
	if limit <= 0 {
		limit = DefaultObservationLimit
	}
	var rows []DailyObservation
	if err := s.observationsQuery(&rows, stationID, from, to, limit).Scan(ctx); err != nil {
		return nil, fmt.Errorf("query observations for station %s: %w", stationID, err)
	}
	return rows, nil
}

// StatisticsPeriod is the half-open date range for a year, or for one month
// of it when month is 1..12.
func StatisticsPeriod(year, month int) (from, to time.Time) {
	if month >= 1 && month <= 12 {
		from = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0)
	}
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

func (s *Store) statisticsQuery(stationID string, from, to time.Time) *bun.SelectQuery {
	return s.db.NewSelect().
		TableExpr("gsod_daily AS gd").
		ColumnExpr("avg(gd.temp) AS avg_temp").
		ColumnExpr("max(gd.max) AS highest_temp").
		ColumnExpr("min(gd.min) AS lowest_temp").
		ColumnExpr("avg(gd.prcp) AS avg_precipitation").
		ColumnExpr("sum(gd.prcp) AS total_precipitation").
		ColumnExpr("avg(gd.wdsp) AS avg_wind_speed").
		ColumnExpr("max(gd.mxspd) AS max_wind_speed").
		ColumnExpr("count(*) AS days_recorded").
		Where("gd.stn = ?", stationID).
		Where("gd.date >= ?", from).
		Where("gd.date < ?", to)
}

func (s *Store) Statistics(ctx context.Context, stationID string, year, month int) (StationStatistics, error) {
	from, to := StatisticsPeriod(year, month)
	var out StationStatistics
	if err := s.statisticsQuery(stationID, from, to).Scan(ctx, &out); err != nil {
		return StationStatistics{}, fmt.Errorf("query statistics for station %s: %w", stationID, err)
	}
	if out.DaysRecorded == 0 {
		return StationStatistics{}, fmt.Errorf("%w: station %s has no readings for the period", ErrNoRows, stationID)
	}
	return out, nil
}
