/*
Package assistant answers natural-language questions about the stored Mars
weather history.

Every question is stateless: the ContextBuilder re-reads the store and
renders a bounded digest, and the Client sends that digest with the
question to a Gemini generateContent endpoint.
*/
package assistant

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/config"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/models"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/observability"
)

const notAvailable = "N/A"

// Reader is the slice of the store the digest is built from.
type Reader interface {
	GetRecent(ctx context.Context, limit int) ([]models.WeatherRecord, error)
	GetStatistics(ctx context.Context) (models.Statistics, error)
}

// ContextBuilder renders stored records into the grounding text for a question.
type ContextBuilder struct {
	store  Reader
	logger *zap.Logger
}

// NewContextBuilder creates a builder over store.
func NewContextBuilder(store Reader, logger *zap.Logger) *ContextBuilder {
	return &ContextBuilder{store: store, logger: observability.OrNop(logger)}
}

// Build returns a digest of at most maxRows most recent sols followed by the
// aggregate statistics. With no stored sols it says so and omits statistics.
// A non-positive maxRows falls back to config.DefaultMaxContextRows so the
// digest is always bounded.
func (b *ContextBuilder) Build(ctx context.Context, maxRows int) string {
	if maxRows <= 0 {
		maxRows = config.DefaultMaxContextRows
	}

	var sb strings.Builder
	sb.WriteString("Knowledge base: Mars weather (local data).\n")

	records, err := b.store.GetRecent(ctx, maxRows)
	if err != nil {
		b.logger.Error("failed to read records for context", zap.Error(err))
		sb.WriteString("- The stored Mars weather data could not be read.")
		return sb.String()
	}

	if len(records) == 0 {
		sb.WriteString("- No Mars weather data is stored in the database.")
		return sb.String()
	}

	fmt.Fprintf(&sb, "- Records shown: %d (ordered by sol, descending).\n", len(records))
	sb.WriteString("- Recent samples (Sol, Temp °C, Pressure Pa, Wind m/s, Direction, Date):\n")
	for _, r := range records {
		fmt.Fprintf(&sb, "  • Sol %d: Temp=%s, Pressure=%s, Wind=%s, Dir=%s, Date=%s\n",
			r.Sol,
			formatValue(r.Temperature),
			formatValue(r.Pressure),
			formatValue(r.WindSpeed),
			formatString(r.WindDirection),
			orNA(r.EarthDay()),
		)
	}

	stats, err := b.store.GetStatistics(ctx)
	if err != nil {
		b.logger.Error("failed to read statistics for context", zap.Error(err))
		sb.WriteString("Statistics: could not be read.")
		return sb.String()
	}

	sb.WriteString("Statistics:\n")
	fmt.Fprintf(&sb, "  • Total records: %d, Sol range: %s - %s\n",
		stats.Count, formatInt(stats.MinSol), formatInt(stats.MaxSol))
	fmt.Fprintf(&sb, "  • Average temperature: %s °C\n", formatAverage(stats.AvgTemperature))
	fmt.Fprintf(&sb, "  • Average pressure: %s Pa\n", formatAverage(stats.AvgPressure))
	fmt.Fprintf(&sb, "  • Average wind speed: %s m/s", formatAverage(stats.AvgWindSpeed))
	return sb.String()
}

func formatValue(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatAverage(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return notAvailable
	}
	return strconv.Itoa(*v)
}

func formatString(v *string) string {
	if v == nil {
		return notAvailable
	}
	return orNA(*v)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
