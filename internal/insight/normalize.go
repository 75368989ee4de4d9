package insight

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/models"
)

// Batch is one normalized InSight response.
type Batch struct {
	// Fields maps sol number to its normalized telemetry.
	Fields map[int]models.WeatherFields
}

// Normalize flattens raw into one record per entry of its sol_keys list.
// A nil document yields a nil batch; an empty sol_keys list yields an empty one.
// Absent nested values become nil fields and never fail the sol.
func Normalize(raw Document, logger *zap.Logger) *Batch {
	if raw == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	keys := raw.Strings("sol_keys")
	batch := &Batch{
		Fields: make(map[int]models.WeatherFields, len(keys)),
	}

	for _, key := range keys {
		sol, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			logger.Warn("skipping non-numeric sol key", zap.String("key", key))
			continue
		}
		fields := normalizeSol(raw, key)
		batch.Fields[sol] = fields
		logger.Debug("normalized sol",
			zap.Int("sol", sol),
			zap.Float64p("temperature", fields.Temperature),
			zap.Float64p("pressure", fields.Pressure),
			zap.Float64p("wind_speed", fields.WindSpeed),
			zap.Stringp("wind_direction", fields.WindDirection),
		)
	}

	logger.Info("normalized insight response", zap.Int("sols", len(batch.Fields)))
	return batch
}

func normalizeSol(raw Document, key string) models.WeatherFields {
	return models.WeatherFields{
		Temperature:   raw.Float(key, "AT", "av"),
		Pressure:      raw.Float(key, "PRE", "av"),
		WindSpeed:     raw.Float(key, "HWS", "av"),
		WindDirection: raw.String(key, "WD", "most_common", "compass_point"),
		EarthDate:     raw.StringOr("", key, "First_UTC"),
	}
}
