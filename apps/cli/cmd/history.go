package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studiowebux/jsonfetch/packages/history"
	"github.com/studiowebux/jsonfetch/packages/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently performed requests",
	RunE:  historyCommand,
}

var (
	historyLimitFlag   int
	historyNoColorFlag bool
)

func init() {
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "Maximum number of entries to show")
	historyCmd.Flags().BoolVar(&historyNoColorFlag, "no-color", getEnvBool("JSONFETCH_NO_COLOR", false), "Disable colored output (env: JSONFETCH_NO_COLOR)")
}

func historyCommand(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	formatter := output.NewConsoleFormatter(output.WithNoColor(historyNoColorFlag))

	path, err := history.DefaultPath()
	if err != nil {
		formatter.PrintError(err)
		os.Exit(ExitInputError)
	}

	store, err := history.Open(path)
	if err != nil {
		formatter.PrintError(fmt.Errorf("cannot open history: %w", err))
		os.Exit(ExitInputError)
	}
	defer store.Close()

	entries, err := store.List(historyLimitFlag)
	if err != nil {
		formatter.PrintError(err)
		os.Exit(ExitInputError)
	}

	formatter.PrintHistory(entries)
	return nil
}
