/*
Package models holds the per-sol weather record shared by the ingest,
storage and assistant packages.
*/
package models

import "time"

// WeatherFields is the normalized telemetry for one sol.
// Nil pointers mean the value was absent in the source document.
type WeatherFields struct {
	// Temperature is the average air temperature over the sol, in °C.
	Temperature *float64 `json:"temperature"`

	// Pressure is the average atmospheric pressure over the sol, in Pa.
	Pressure *float64 `json:"pressure"`

	// WindSpeed is the average horizontal wind speed over the sol, in m/s.
	WindSpeed *float64 `json:"wind_speed"`

	// WindDirection is the most common compass point (e.g. "WNW").
	WindDirection *string `json:"wind_direction"`

	// EarthDate is the first UTC instant of the sol (ISO-8601).
	// Empty when the source did not report it.
	EarthDate string `json:"earth_date"`
}

// WeatherRecord is a stored sol.
type WeatherRecord struct {
	Sol int `json:"sol"`
	WeatherFields

	// CreatedAt is when the sol was first stored. Re-ingesting keeps it.
	CreatedAt time.Time `json:"created_at"`
}

// Statistics aggregates every stored sol.
// Min/max and averages are nil when there is nothing to aggregate.
type Statistics struct {
	Count          int      `json:"count"`
	MinSol         *int     `json:"min_sol"`
	MaxSol         *int     `json:"max_sol"`
	AvgTemperature *float64 `json:"avg_temperature"`
	AvgPressure    *float64 `json:"avg_pressure"`
	AvgWindSpeed   *float64 `json:"avg_wind_speed"`
}

// EarthDay returns the date-only prefix of EarthDate, or "" when unknown.
func (f WeatherFields) EarthDay() string {
	if len(f.EarthDate) > 10 {
		return f.EarthDate[:10]
	}
	return f.EarthDate
}
