/*
Package cli provides output formatting helpers shared by the commands.
*/
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/models"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/storage"
)

const na = "N/A"

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// printRecords renders records as a table, in the order given.
func printRecords(w io.Writer, records []models.WeatherRecord) {
	fmt.Fprintln(w, "Stored Mars weather data:")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	if len(records) == 0 {
		fmt.Fprintln(w, "No data stored in the database.")
		return
	}

	fmt.Fprintf(w, "%-6s %-10s %-12s %-10s %-10s %-20s\n", "Sol", "Temp(°C)", "Pressure(Pa)", "Wind(m/s)", "Direction", "Date")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range records {
		fmt.Fprintf(w, "%-6d %-10s %-12s %-10s %-10s %-20s\n",
			r.Sol,
			number(r.Temperature),
			number(r.Pressure),
			number(r.WindSpeed),
			text(r.WindDirection),
			orNA(r.EarthDay()),
		)
	}
}

// printRecord renders a single sol.
func printRecord(w io.Writer, title string, r *models.WeatherRecord) {
	fmt.Fprintf(w, "%s (Sol %d):\n", title, r.Sol)
	fmt.Fprintf(w, "Temperature:    %s\n", withUnit(r.Temperature, "°C"))
	fmt.Fprintf(w, "Pressure:       %s\n", withUnit(r.Pressure, "Pa"))
	fmt.Fprintf(w, "Wind speed:     %s\n", withUnit(r.WindSpeed, "m/s"))
	fmt.Fprintf(w, "Wind direction: %s\n", text(r.WindDirection))
	fmt.Fprintf(w, "Earth date:     %s\n", orNA(r.EarthDay()))
	if !r.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Stored at:      %s\n", r.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	}
}

// printStatistics renders aggregates with averages rounded to 2 decimals.
func printStatistics(w io.Writer, s models.Statistics) {
	fmt.Fprintln(w, "Statistics:")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%-21s %d\n", "Total records:", s.Count)
	if s.Count == 0 {
		return
	}
	fmt.Fprintf(w, "%-21s %s - %s\n", "Sols:", integer(s.MinSol), integer(s.MaxSol))
	fmt.Fprintf(w, "%-21s %s\n", "Average temperature:", average(s.AvgTemperature, "°C"))
	fmt.Fprintf(w, "%-21s %s\n", "Average pressure:", average(s.AvgPressure, "Pa"))
	fmt.Fprintf(w, "%-21s %s\n", "Average wind speed:", average(s.AvgWindSpeed, "m/s"))
}

func printAudit(w io.Writer, entries []storage.MetadataEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No ingest runs recorded.")
		return
	}
	fmt.Fprintf(w, "Ingest runs (%d):\n\n", len(entries))
	fmt.Fprintf(w, "%-6s %-20s %-6s %s\n", "ID", "Recorded", "Sols", "Response")
	for _, e := range entries {
		fmt.Fprintf(w, "%-6d %-20s %-6d %d bytes\n",
			e.ID, e.LastUpdate.UTC().Format("2006-01-02 15:04:05"), e.TotalSols, len(e.APIResponse))
	}
}

func number(v *float64) string {
	if v == nil {
		return na
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func withUnit(v *float64, unit string) string {
	if v == nil {
		return na
	}
	return number(v) + " " + unit
}

func average(v *float64, unit string) string {
	if v == nil {
		return na
	}
	return strconv.FormatFloat(*v, 'f', 2, 64) + " " + unit
}

func integer(v *int) string {
	if v == nil {
		return na
	}
	return strconv.Itoa(*v)
}

func text(v *string) string {
	if v == nil {
		return na
	}
	return orNA(*v)
}

func orNA(s string) string {
	if s == "" {
		return na
	}
	return s
}
