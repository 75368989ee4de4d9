/*
Package cli implements the 'schedule' command, which runs the ingest
pipeline on a fixed interval until interrupted.
*/
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/ingest"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/observability"
	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/version"
)

// NewScheduleCmd creates the 'schedule' command for periodic ingestion.
func NewScheduleCmd(opts *RootOptions) *cobra.Command {
	var interval time.Duration
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Ingest periodically until interrupted",
		Long: `Run an ingest immediately and then once per interval until SIGINT or
SIGTERM. Runs never overlap: a run still in progress when the next one is
due delays it.

With --metrics-addr, Prometheus metrics are served on /metrics and a
liveness check on /health.`,
		Example: `  marsweather schedule
  marsweather schedule --interval 30m --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSchedule(ctx, cmd.OutOrStdout(), opts, interval, metricsAddr)
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Time between runs (overrides schedule.interval)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve /metrics and /health on this address (overrides schedule.metrics_addr)")

	return cmd
}

// runSchedule blocks until ctx is done.
func runSchedule(ctx context.Context, out io.Writer, opts *RootOptions, interval time.Duration, metricsAddr string) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	if interval > 0 {
		rt.cfg.Schedule.Interval = interval
	}
	if metricsAddr != "" {
		rt.cfg.Schedule.MetricsAddr = metricsAddr
	}

	pipeline, err := rt.pipeline()
	if err != nil {
		return err
	}

	var srv *http.Server
	if addr := rt.cfg.Schedule.MetricsAddr; addr != "" {
		srv = &http.Server{
			Addr:         addr,
			Handler:      newMetricsRouter(),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			rt.logger.Info("metrics server starting", zap.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				rt.logger.Error("metrics server", zap.Error(err))
			}
		}()
	}

	scheduler := ingest.NewScheduler(pipeline, rt.cfg.Schedule.Interval, rt.logger)
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	fmt.Fprintf(out, "Ingesting every %s. Press Ctrl+C to stop.\n", rt.cfg.Schedule.Interval)

	<-ctx.Done()
	rt.logger.Info("shutdown triggered")
	scheduler.Stop()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			rt.logger.Error("metrics server shutdown", zap.Error(err))
		}
	}
	return nil
}

// newMetricsRouter serves GET /health and /metrics.
func newMetricsRouter() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health", getHealth).Methods(http.MethodGet)
	router.Handle("/metrics", observability.MetricsHandler())
	return router
}

func getHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"version": version.Version,
	})
}
