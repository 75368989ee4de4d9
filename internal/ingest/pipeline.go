/*
Package ingest runs the fetch, normalize and persist pipeline, once or on a
schedule.
*/
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/insight"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/models"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/observability"
)

// ErrEmptyResponse is returned when the fetcher yields no document.
var ErrEmptyResponse = errors.New("empty InSight response")

// Writer is the slice of the store an ingest run writes to.
type Writer interface {
	UpsertWeather(ctx context.Context, records map[int]models.WeatherFields) error
	AppendMetadata(ctx context.Context, totalSols int, rawResponse any) error
}

// Result describes one ingest run.
type Result struct {
	RunID    string
	Sols     int
	Audited  bool
	Duration time.Duration
}

// Pipeline wires a Fetcher to a Writer.
type Pipeline struct {
	fetcher insight.Fetcher
	store   Writer
	logger  *zap.Logger
}

// NewPipeline creates a Pipeline.
func NewPipeline(fetcher insight.Fetcher, store Writer, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		fetcher: fetcher,
		store:   store,
		logger:  observability.OrNop(logger),
	}
}

// Run fetches the current InSight document, upserts every sol in it and
// appends one audit row holding the response body as received. A fetch failure writes nothing; a failed upsert
// skips the audit row. A failed audit insert is logged and does not fail
// the run.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	result := Result{RunID: uuid.New().String()}
	logger := p.logger.With(zap.String("run_id", result.RunID))
	logger.Info("ingest run started")

	resp, err := p.fetcher.Fetch(ctx)
	if err == nil && (resp == nil || resp.Document == nil) {
		err = ErrEmptyResponse
	}
	if err != nil {
		observability.IngestRunsTotal.WithLabelValues("fetch_failed").Inc()
		result.Duration = time.Since(start)
		return result, fmt.Errorf("fetch: %w", err)
	}

	batch := insight.Normalize(resp.Document, logger)

	if err := p.store.UpsertWeather(ctx, batch.Fields); err != nil {
		observability.IngestRunsTotal.WithLabelValues("store_failed").Inc()
		result.Duration = time.Since(start)
		return result, fmt.Errorf("store: %w", err)
	}
	result.Sols = len(batch.Fields)

	if err := p.store.AppendMetadata(ctx, len(batch.Fields), resp.Body); err != nil {
		logger.Warn("audit row not written", zap.Error(err))
	} else {
		result.Audited = true
	}

	observability.IngestRunsTotal.WithLabelValues("success").Inc()
	observability.IngestedSols.Set(float64(result.Sols))
	result.Duration = time.Since(start)

	logger.Info("ingest run completed",
		zap.Int("sols", result.Sols),
		zap.Bool("audited", result.Audited),
		zap.Duration("duration", result.Duration))
	return result, nil
}
