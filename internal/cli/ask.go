/*
Package cli provides the 'ask' command for questions to the assistant.
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

// NewAskCmd creates the 'ask' command, which asks one question about the stored data.
func NewAskCmd(opts *RootOptions) *cobra.Command {
	var showContext bool

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: "Ask the assistant a question about the stored weather",
		Long: `Ask a question in natural language. The assistant only sees a digest of
the most recent stored sols and their statistics, rebuilt for every
question, and says so when the answer is not in the data.

Requires GEMINI_API_KEY (or assistant.api_key in the config file).`,
		Example: `  marsweather ask what was the coldest sol
  marsweather ask "How windy was it last week?"
  marsweather ask --show-context average pressure`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), cmd.OutOrStdout(), opts, strings.Join(args, " "), showContext)
		},
	}

	cmd.Flags().BoolVar(&showContext, "show-context", false, "Print the data digest sent with the question")

	return cmd
}

func runAsk(ctx context.Context, out io.Writer, opts *RootOptions, question string, showContext bool) error {
	rt, err := openRuntime(ctx, opts)
	if err != nil {
		return err
	}
	defer rt.Close()

	client, err := rt.assistant()
	if err != nil {
		return err
	}

	if showContext {
		fmt.Fprintln(out, client.Digest(ctx))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, client.Ask(ctx, question))
	return nil
}
