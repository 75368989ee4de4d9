/*
Package cli implements the marsweather commands.

Every command resolves configuration once, opens the SQLite store and
passes both explicitly to the components it drives. Command output goes to
the command's stdout; logs go to stderr.
*/
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/version"
)

// RootOptions holds the persistent flags shared by every command.
type RootOptions struct {
	ConfigPath string
	DBPath     string
}

// NewRootCmd creates the marsweather root command with all subcommands.
func NewRootCmd() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "marsweather",
		Short: "Mars weather ingest and assistant",
		Long: `marsweather retrieves NASA InSight weather telemetry, stores one record
per sol in a local SQLite database and answers questions about the stored
history with a language model grounded on that data.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a YAML config file (default $MARSWEATHER_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (overrides config)")

	cmd.AddCommand(NewIngestCmd(opts))
	cmd.AddCommand(NewListCmd(opts))
	cmd.AddCommand(NewSolCmd(opts))
	cmd.AddCommand(NewLatestCmd(opts))
	cmd.AddCommand(NewStatsCmd(opts))
	cmd.AddCommand(NewAuditCmd(opts))
	cmd.AddCommand(NewAskCmd(opts))
	cmd.AddCommand(NewMenuCmd(opts))
	cmd.AddCommand(NewScheduleCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	cmd.SetVersionTemplate(fmt.Sprintf("marsweather %s\n", version.GetVersion()))
	return cmd
}
