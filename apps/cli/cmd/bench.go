package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/studiowebux/jsonfetch/packages/bench"
	"github.com/studiowebux/jsonfetch/packages/output"
)

var benchCmd = &cobra.Command{
	Use:   "bench <url|file.yaml>",
	Short: "Issue repeated requests and report latency percentiles",
	Long: `Perform the same one-shot request repeatedly and summarize latencies.

Examples:
  jsonfetch bench https://api.example.com/health -n 200 -c 10
  jsonfetch bench request.yaml -n 100 --rate 50`,
	Args: cobra.ExactArgs(1),
	RunE: benchCommand,
}

var (
	benchRequestsFlag    int
	benchConcurrencyFlag int
	benchRateFlag        float64
	benchNoColorFlag     bool
)

func init() {
	benchCmd.Flags().IntVarP(&benchRequestsFlag, "requests", "n", 100, "Total number of requests to perform")
	benchCmd.Flags().IntVarP(&benchConcurrencyFlag, "concurrency", "c", 5, "Number of concurrent requests")
	benchCmd.Flags().Float64Var(&benchRateFlag, "rate", 0, "Request rate limit per second (0 = unlimited)")
	benchCmd.Flags().BoolVar(&benchNoColorFlag, "no-color", getEnvBool("JSONFETCH_NO_COLOR", false), "Disable colored output (env: JSONFETCH_NO_COLOR)")
}

func benchCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	formatter := output.NewConsoleFormatter(output.WithNoColor(benchNoColorFlag))

	params, err := baseParams(args[0])
	if err != nil {
		formatter.PrintError(err)
		os.Exit(ExitInputError)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := bench.New(bench.Config{
		Requests:    benchRequestsFlag,
		Concurrency: benchConcurrencyFlag,
		Rate:        benchRateFlag,
	})

	report, err := runner.Run(ctx, params)
	if err != nil {
		formatter.PrintError(err)
	}
	formatter.PrintBenchReport(report)

	if report.Failed > 0 {
		os.Exit(ExitRequestFailure)
	}
	return nil
}
