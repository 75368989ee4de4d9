/*
Package main is the entry point for the marsweather CLI.

marsweather ingests NASA InSight weather telemetry into a local SQLite
database and answers questions about it with a grounded language model.

Usage:
  marsweather [command]

Available Commands:
  ingest      Fetch the latest InSight weather and store it
  list        List stored sols, newest first
  sol         Show the stored record for one sol
  latest      Show the most recent stored sol
  stats       Show aggregate statistics over every stored sol
  audit       List recorded ingest runs, newest first
  ask         Ask the assistant a question about the stored weather
  menu        Interactive menu
  schedule    Ingest periodically until interrupted
  version     Show version information

Examples:
  # Store the current report
  NASA_API_KEY=... marsweather ingest

  # Ask about it
  GEMINI_API_KEY=... marsweather ask what was the coldest sol

  # Keep the database fresh and expose metrics
  marsweather schedule --interval 1h --metrics-addr :9090
*/
package main

import (
	"fmt"
	"os"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
