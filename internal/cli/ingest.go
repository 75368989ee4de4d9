/*
Package cli implements the 'ingest' command.

It fetches the latest InSight report once, stores every sol it carries and
appends an audit row with the response body.
*/
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewIngestCmd creates the 'ingest' command, which runs one fetch-and-store pass.
func NewIngestCmd(opts *RootOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch the latest InSight weather and store it",
		Long: `Fetch the current NASA InSight weather report, store one record per sol
(replacing sols already stored) and append an audit entry for the run.
The stored data and statistics are printed afterwards.`,
		Example: `  marsweather ingest
  marsweather ingest --quiet
  NASA_API_KEY=... marsweather ingest --db /var/lib/marsweather/mars.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), cmd.OutOrStdout(), opts, quiet)
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the run summary")

	return cmd
}

func runIngest(ctx context.Context, out io.Writer, opts *RootOptions, quiet bool) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	pipeline, err := rt.pipeline()
	if err != nil {
		return err
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	fmt.Fprintf(out, "Ingest complete: %d sols stored (run %s)\n", result.Sols, result.RunID)
	if !result.Audited {
		fmt.Fprintln(out, "Warning: the audit entry for this run could not be written")
	}
	if quiet {
		return nil
	}

	records, err := rt.store.GetAll(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printRecords(out, records)

	stats, err := rt.store.GetStatistics(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printStatistics(out, stats)
	return nil
}
