package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/theirongolddev/cflow/internal/cli"
	"github.com/theirongolddev/cflow/internal/config"
	"github.com/theirongolddev/cflow/internal/ledger"
	"github.com/theirongolddev/cflow/internal/source"

	"github.com/spf13/cobra"
)

var (
	flagReplayStrict  bool
	flagReplayNoTable bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Record transactions from a file or stdin and print the result",
	Long: `Record one transaction per line and print the resulting ledger.

Lines look like "+100", "-30", "in 100", "out 30.5", or a JSON object
{"amount":"12.50","direction":"inflow"}. Blank lines and # comments are
skipped. Invalid lines are reported on stderr and skipped.

With no file, or "-", lines are read from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagReplayStrict, "strict", false, "Exit non-zero if any line is invalid")
	replayCmd.Flags().BoolVar(&flagReplayNoTable, "no-table", false, "Print only the summary, not every transaction")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(_ *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	l := ledger.New()

	var res source.ReplayResult
	if len(args) == 0 || args[0] == "-" {
		res, err = source.Replay(os.Stdin, l)
	} else {
		res, err = source.ReplayFile(args[0], l)
	}
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "  line %d: %v\n", e.Line, e.Err)
	}

	writeReplayReport(os.Stdout, l, res, cfg.Currency.Resolve(), !flagReplayNoTable)

	if flagReplayStrict && len(res.Errors) > 0 {
		return fmt.Errorf("%d invalid lines", len(res.Errors))
	}
	return nil
}

// writeReplayReport prints the summary table and, optionally, every transaction.
func writeReplayReport(w io.Writer, l *ledger.Ledger, res source.ReplayResult, cur config.Currency, withHistory bool) {
	totals := l.Totals()

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTitle("CFLOW REPLAY"))
	fmt.Fprintln(w)

	rows := [][]string{
		{"Recorded", cli.FormatNumber(int64(res.Recorded))},
		{"Invalid", cli.FormatNumber(int64(len(res.Errors)))},
		{"---"},
		{"Inflow", fmt.Sprintf("%s (%d)", cli.FormatMoney(totals.In, cur), totals.InCount)},
		{"Outflow", fmt.Sprintf("%s (%d)", cli.FormatMoney(totals.Out, cur), totals.OutCount)},
		{"---"},
		{"Balance", cli.FormatMoney(l.CurrentBalance(), cur)},
	}
	if totals.In.IsPositive() {
		spent := totals.Out.Div(totals.In).InexactFloat64()
		rows = append(rows, []string{"Spent", cli.FormatPercent(spent)})
	}
	fmt.Fprint(w, cli.RenderTable(cli.Table{
		Title:   "Summary",
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))

	if withHistory && l.Len() > 0 {
		fmt.Fprintln(w)
		table := cli.HistoryTable(l.HistorySnapshot(), cur)
		table.Title = "Transactions"
		fmt.Fprint(w, cli.RenderTable(table))
	}
}
