package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/models"
)

// upsertWeatherSQL replaces every data column of an existing sol and keeps
// its original created_at.
const upsertWeatherSQL = `
	INSERT INTO weather_data (sol, temperature, pressure, wind_speed, wind_direction, earth_date, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(sol) DO UPDATE SET
		temperature = excluded.temperature,
		pressure = excluded.pressure,
		wind_speed = excluded.wind_speed,
		wind_direction = excluded.wind_direction,
		earth_date = excluded.earth_date
`

const selectWeatherColumns = `
	SELECT sol, temperature, pressure, wind_speed, wind_direction, earth_date, created_at
	FROM weather_data
`

// UpsertWeather writes every record in one transaction. Either all rows are
// committed or, on the first failure, none are.
func (s *SQLiteStorage) UpsertWeather(ctx context.Context, records map[int]models.WeatherFields) error {
	sols := make([]int, 0, len(records))
	for sol := range records {
		sols = append(sols, sol)
	}
	sort.Ints(sols)

	createdAt := formatTimestamp(s.now())

	err := s.withTx(ctx, "upsert_weather", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, upsertWeatherSQL)
		if err != nil {
			return fmt.Errorf("prepare upsert: %w", err)
		}
		defer stmt.Close()

		for _, sol := range sols {
			f := records[sol]
			if _, err := stmt.ExecContext(ctx,
				sol,
				f.Temperature,
				f.Pressure,
				f.WindSpeed,
				f.WindDirection,
				f.EarthDate,
				createdAt,
			); err != nil {
				return fmt.Errorf("sol %d: %w", sol, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("weather data saved", zap.Int("sols", len(sols)))
	return nil
}

// GetAll returns every record ordered by sol descending.
func (s *SQLiteStorage) GetAll(ctx context.Context) ([]models.WeatherRecord, error) {
	return s.GetRecent(ctx, 0)
}

// GetRecent returns at most limit records ordered by sol descending.
// A limit of zero or less returns everything.
func (s *SQLiteStorage) GetRecent(ctx context.Context, limit int) ([]models.WeatherRecord, error) {
	query := selectWeatherColumns + " ORDER BY sol DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	records := []models.WeatherRecord{}
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query weather data: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetBySol returns the record for sol. A missing sol is (nil, nil).
func (s *SQLiteStorage) GetBySol(ctx context.Context, sol int) (*models.WeatherRecord, error) {
	return s.queryOne(ctx, selectWeatherColumns+" WHERE sol = ?", sol)
}

// GetLatest returns the record with the highest sol. An empty table is (nil, nil).
func (s *SQLiteStorage) GetLatest(ctx context.Context) (*models.WeatherRecord, error) {
	return s.queryOne(ctx, selectWeatherColumns+" ORDER BY sol DESC LIMIT 1")
}

func (s *SQLiteStorage) queryOne(ctx context.Context, query string, args ...any) (*models.WeatherRecord, error) {
	var found *models.WeatherRecord
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rec, err := scanRecord(conn.QueryRowContext(ctx, query, args...))
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		found = &rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// GetStatistics aggregates all rows. Averages skip NULL values and are nil
// when no row has a value.
func (s *SQLiteStorage) GetStatistics(ctx context.Context) (models.Statistics, error) {
	var stats models.Statistics
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		var minSol, maxSol sql.NullInt64
		var avgTemp, avgPressure, avgWind sql.NullFloat64

		row := conn.QueryRowContext(ctx, `
			SELECT
				COUNT(*),
				MIN(sol),
				MAX(sol),
				AVG(temperature),
				AVG(pressure),
				AVG(wind_speed)
			FROM weather_data
		`)
		if err := row.Scan(&stats.Count, &minSol, &maxSol, &avgTemp, &avgPressure, &avgWind); err != nil {
			return fmt.Errorf("query statistics: %w", err)
		}

		stats.MinSol = intPtr(minSol)
		stats.MaxSol = intPtr(maxSol)
		stats.AvgTemperature = floatPtr(avgTemp)
		stats.AvgPressure = floatPtr(avgPressure)
		stats.AvgWindSpeed = floatPtr(avgWind)
		return nil
	})
	if err != nil {
		return models.Statistics{}, err
	}
	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (models.WeatherRecord, error) {
	var rec models.WeatherRecord
	var temp, pressure, wind sql.NullFloat64
	var direction, earthDate, createdAt sql.NullString

	if err := row.Scan(&rec.Sol, &temp, &pressure, &wind, &direction, &earthDate, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan weather row: %w", err)
	}

	rec.Temperature = floatPtr(temp)
	rec.Pressure = floatPtr(pressure)
	rec.WindSpeed = floatPtr(wind)
	if direction.Valid {
		d := direction.String
		rec.WindDirection = &d
	}
	rec.EarthDate = earthDate.String
	if createdAt.Valid {
		t, err := parseTimestamp(createdAt.String)
		if err != nil {
			return rec, fmt.Errorf("sol %d created_at: %w", rec.Sol, err)
		}
		rec.CreatedAt = t
	}
	return rec, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
