// Package output renders request results, errors, and bench reports for the
// terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/studiowebux/jsonfetch/packages/bench"
	"github.com/studiowebux/jsonfetch/packages/history"
	"github.com/studiowebux/jsonfetch/packages/request"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

// PrintResult renders a buffered result: status line, headers when verbose,
// and the re-indented JSON body.
func (f *ConsoleFormatter) PrintResult(result *request.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", green(result.Status), cyan(result.Duration.Round(time.Millisecond)))

	if f.verbose {
		keys := make([]string, 0, len(result.Headers))
		for k := range result.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(f.writer, "%s: %s\n", cyan(k), result.Headers[k])
		}
		fmt.Fprintln(f.writer)
	}

	pretty, err := json.MarshalIndent(result.Value, "", "  ")
	if err != nil {
		fmt.Fprintln(f.writer, result.BodyString())
		return
	}
	fmt.Fprintln(f.writer, string(pretty))
}

func (f *ConsoleFormatter) PrintError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

// PrintBenchReport renders the latency summary of a bench run.
func (f *ConsoleFormatter) PrintBenchReport(report *bench.Report) {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("Bench results"))
	fmt.Fprintf(f.writer, "  Requests: %d (%s %d, %s %d)\n",
		report.Total, green("ok"), report.Success, red("failed"), report.Failed)
	fmt.Fprintf(f.writer, "  Duration: %s (%.1f req/s)\n", report.Duration.Round(time.Millisecond), report.RPS)
	fmt.Fprintf(f.writer, "  Latency:  min %s  mean %s  p50 %s  p95 %s  p99 %s  max %s\n",
		report.Min, report.Mean, report.P50, report.P95, report.P99, report.Max)
}

// PrintHistory renders recorded requests, newest first.
func (f *ConsoleFormatter) PrintHistory(entries []history.Entry) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if len(entries) == 0 {
		fmt.Fprintln(f.writer, "No requests recorded yet.")
		return
	}

	for _, e := range entries {
		status := green(fmt.Sprintf("%d", e.StatusCode))
		if e.Error != "" {
			status = red("ERR")
		}
		fmt.Fprintf(f.writer, "%s  %s %-6s %s (%dms)",
			e.CreatedAt.Format("2006-01-02 15:04:05"), status, e.Method, cyan(e.URL), e.DurationMs)
		if e.Error != "" {
			fmt.Fprintf(f.writer, "  %s", e.Error)
		}
		fmt.Fprintln(f.writer)
	}
}
