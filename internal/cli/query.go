/*
Package cli implements the read-only commands over the stored sols.

Each prints a table by default or JSON with --json.
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// NewListCmd creates the 'list' command for showing stored sols.
func NewListCmd(opts *RootOptions) *cobra.Command {
	var jsonOutput bool
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored sols, newest first",
		Example: `  marsweather list
  marsweather ls --limit 7
  marsweather list --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), cmd.OutOrStdout(), opts, limit, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many sols (0 for all)")

	return cmd
}

func runList(ctx context.Context, out io.Writer, opts *RootOptions, limit int, jsonOutput bool) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	records, err := rt.store.GetRecent(ctx, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, records)
	}
	printRecords(out, records)
	return nil
}

// NewSolCmd creates the 'sol' command for looking up a single sol.
func NewSolCmd(opts *RootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "sol <number>",
		Short:   "Show the stored record for one sol",
		Example: `  marsweather sol 675`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sol, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid sol %q: must be a number", args[0])
			}
			return runSol(cmd.Context(), cmd.OutOrStdout(), opts, sol, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runSol(ctx context.Context, out io.Writer, opts *RootOptions, sol int, jsonOutput bool) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	rec, err := rt.store.GetBySol(ctx, sol)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, rec)
	}
	if rec == nil {
		fmt.Fprintf(out, "No data found for sol %d\n", sol)
		return nil
	}
	printRecord(out, "Weather", rec)
	return nil
}

// NewLatestCmd creates the 'latest' command.
func NewLatestCmd(opts *RootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the most recent stored sol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLatest(cmd.Context(), cmd.OutOrStdout(), opts, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runLatest(ctx context.Context, out io.Writer, opts *RootOptions, jsonOutput bool) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	rec, err := rt.store.GetLatest(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, rec)
	}
	if rec == nil {
		fmt.Fprintln(out, "No data stored")
		return nil
	}
	printRecord(out, "Latest weather", rec)
	return nil
}

// NewStatsCmd creates the 'stats' command.
func NewStatsCmd(opts *RootOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics over every stored sol",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), cmd.OutOrStdout(), opts, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")

	return cmd
}

func runStats(ctx context.Context, out io.Writer, opts *RootOptions, jsonOutput bool) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	stats, err := rt.store.GetStatistics(ctx)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, stats)
	}
	printStatistics(out, stats)
	return nil
}

// NewAuditCmd creates the 'audit' command for reviewing past ingest runs.
func NewAuditCmd(opts *RootOptions) *cobra.Command {
	var jsonOutput bool
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List recorded ingest runs, newest first",
		Long: `List the append-only audit log: one entry per ingest run with the number
of sols processed and the size of the raw response kept for it.
With --json the raw responses are included.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), cmd.OutOrStdout(), opts, limit, jsonOutput)
		},
	}

	cmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many runs (0 for all)")

	return cmd
}

func runAudit(ctx context.Context, out io.Writer, opts *RootOptions, limit int, jsonOutput bool) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	entries, err := rt.store.GetMetadata(ctx, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, entries)
	}
	printAudit(out, entries)
	return nil
}
