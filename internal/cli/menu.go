/*
Package cli provides the interactive menu.

The menu reads choices from the command input and works on one runtime
for the whole session.
*/
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TomasPinedaNaranjo/TomasOceanicPruebaTecnica/internal/assistant"
)

// NewMenuCmd creates the 'menu' command, an interactive loop over every operation.
func NewMenuCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu",
		Long: `Run an interactive menu to ingest data, browse stored sols, show
statistics and chat with the assistant. Reads choices from stdin until
"exit" or end of input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	return cmd
}

type menu struct {
	rt        *runtime
	in        *bufio.Scanner
	out       io.Writer
	assistant *assistant.Client
}

func runMenu(ctx context.Context, in io.Reader, out io.Writer, opts *RootOptions) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	m := &menu{rt: rt, in: bufio.NewScanner(in), out: out}
	for {
		m.printOptions()
		choice, ok := m.prompt("\nSelect an option (1-7): ")
		if !ok {
			return nil
		}

		switch strings.ToLower(choice) {
		case "1":
			m.ingest(ctx)
		case "2":
			m.list(ctx)
		case "3":
			m.lookup(ctx)
		case "4":
			m.latest(ctx)
		case "5":
			m.statistics(ctx)
		case "6":
			m.chat(ctx)
		case "7", "exit", "quit", "q":
			fmt.Fprintln(m.out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid option. Choose a number from 1 to 7.")
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

func (m *menu) printOptions() {
	fmt.Fprintln(m.out, "\nMars Weather Monitor")
	fmt.Fprintln(m.out, strings.Repeat("=", 50))
	fmt.Fprintln(m.out, "1. Fetch and store NASA data")
	fmt.Fprintln(m.out, "2. Show all stored data")
	fmt.Fprintln(m.out, "3. Look up a sol")
	fmt.Fprintln(m.out, "4. Show latest data")
	fmt.Fprintln(m.out, "5. Show statistics")
	fmt.Fprintln(m.out, "6. Ask the assistant")
	fmt.Fprintln(m.out, "7. Exit")
}

// prompt prints label and reads one trimmed line. ok is false at end of input.
func (m *menu) prompt(label string) (string, bool) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

func (m *menu) ingest(ctx context.Context) {
	fmt.Fprintln(m.out, "\nFetching data from NASA...")
	pipeline, err := m.rt.pipeline()
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	result, err := pipeline.Run(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Ingest failed: %v\n", err)
		return
	}
	fmt.Fprintf(m.out, "Data updated: %d sols stored\n", result.Sols)
}

func (m *menu) list(ctx context.Context) {
	records, err := m.rt.store.GetAll(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out)
	printRecords(m.out, records)
}

func (m *menu) lookup(ctx context.Context) {
	input, ok := m.prompt("Enter the sol number: ")
	if !ok {
		return
	}
	sol, err := strconv.Atoi(input)
	if err != nil {
		fmt.Fprintln(m.out, "Please enter a valid number")
		return
	}
	rec, err := m.rt.store.GetBySol(ctx, sol)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	if rec == nil {
		fmt.Fprintf(m.out, "No data found for sol %d\n", sol)
		return
	}
	fmt.Fprintln(m.out)
	printRecord(m.out, "Weather", rec)
}

func (m *menu) latest(ctx context.Context) {
	rec, err := m.rt.store.GetLatest(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	if rec == nil {
		fmt.Fprintln(m.out, "No data stored")
		return
	}
	fmt.Fprintln(m.out)
	printRecord(m.out, "Latest weather", rec)
}

func (m *menu) statistics(ctx context.Context) {
	stats, err := m.rt.store.GetStatistics(ctx)
	if err != nil {
		fmt.Fprintf(m.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(m.out)
	printStatistics(m.out, stats)
}

// chat asks questions until an empty line or "exit".
func (m *menu) chat(ctx context.Context) {
	if m.assistant == nil {
		client, err := m.rt.assistant()
		if err != nil {
			fmt.Fprintf(m.out, "Assistant unavailable: %v\n", err)
			return
		}
		m.assistant = client
	}

	fmt.Fprintln(m.out, "\nAssistant chat. Type 'exit' or an empty line to go back.")
	for {
		question, ok := m.prompt("Your question: ")
		if !ok || question == "" || strings.EqualFold(question, "exit") {
			return
		}
		fmt.Fprintf(m.out, "\nAssistant: %s\n\n", m.assistant.Ask(ctx, question))
	}
}
