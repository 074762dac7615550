package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"costcheck/config"
	"costcheck/internal/storage"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = config.Conf.History.Limit
			}
			return listHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of runs to list (default from config)")

	cmd.AddCommand(newHistoryShowCommand())
	cmd.AddCommand(newHistoryDeleteCommand())

	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print one recorded run with its per-check results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRun(cmd, args[0])
		},
	}
}

func newHistoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Remove a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.InitDB(); err != nil {
				return wrapExitError(exitCommandError, "open history", err)
			}
			defer storage.Close()

			if err := storage.DeleteRun(args[0]); err != nil {
				return wrapExitError(exitCommandError, "delete run", err)
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return err
		},
	}
}

func showRun(cmd *cobra.Command, runID string) error {
	if err := storage.InitDB(); err != nil {
		return wrapExitError(exitCommandError, "open history", err)
	}
	defer storage.Close()

	run, err := storage.GetRun(runID)
	if err != nil {
		return wrapExitError(exitCommandError, "show run", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run %s against %s\n", run.RunId, run.BaseURL)
	fmt.Fprintf(out, "started %s via %s: %s, %d passed, %d failed, %d errors\n",
		time.UnixMilli(run.CreateTime).UTC().Format(time.RFC3339),
		run.Source,
		resultLabel(run.Passed),
		run.PassCount, run.FailCount, run.ErrorCount)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tCHECK\tENDPOINT\tDURATION\tMESSAGE")
	for _, check := range run.Checks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%dms\t%s\n",
			strings.ToUpper(check.Status),
			check.Name,
			check.Endpoint,
			check.DurationMs,
			check.Message)
	}
	return tw.Flush()
}

func resultLabel(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func listHistory(cmd *cobra.Command, limit int) error {
	if err := storage.InitDB(); err != nil {
		return wrapExitError(exitCommandError, "open history", err)
	}
	defer storage.Close()

	runs, err := storage.GetRunHistory(limit)
	if err != nil {
		return wrapExitError(exitCommandError, "read history", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		_, err = fmt.Fprintln(out, "no runs recorded")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tSTARTED\tSOURCE\tRESULT\tPASS/FAIL/ERROR\tBASE URL")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d/%d\t%s\n",
			run.RunId,
			time.UnixMilli(run.CreateTime).UTC().Format(time.RFC3339),
			run.Source,
			resultLabel(run.Passed),
			run.PassCount, run.FailCount, run.ErrorCount,
			run.BaseURL)
	}
	return tw.Flush()
}
