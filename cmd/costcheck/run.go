package main

import (
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"costcheck/config"
	"costcheck/internal/conformance"
	"costcheck/internal/storage"
	"costcheck/internal/types"
	"costcheck/log"
)

type runOptions struct {
	BaseURL   string
	JSON      bool
	NoHistory bool
	Extended  bool
	Cleanup   bool
	Tag       bool
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the conformance checks once",
		Long: `Run the about, add cost and monthly report checks against the service
and print one line per check. The exit code is 0 only when every check passed.

Example:
  costcheck run
  costcheck run --base-url http://localhost:3000 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecks(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "service base URL (overrides config)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&opts.NoHistory, "no-history", false, "do not record the run")
	cmd.Flags().BoolVar(&opts.Extended, "extended", false, "also check the user details endpoint")
	cmd.Flags().BoolVar(&opts.Cleanup, "cleanup", false, "delete the created cost entry afterwards")
	cmd.Flags().BoolVar(&opts.Tag, "tag", false, "append the run ID to the created entry's description")

	return cmd
}

func runChecks(cmd *cobra.Command, opts *runOptions) error {
	cfg := config.Conf
	baseURL := lo.Ternary(opts.BaseURL != "", opts.BaseURL, cfg.Target.BaseURL)

	runOpts := optionsFromConfig(cfg)
	runOpts.Extended = runOpts.Extended || opts.Extended
	runOpts.Cleanup = runOpts.Cleanup || opts.Cleanup
	runOpts.TagDescription = runOpts.TagDescription || opts.Tag

	report := conformance.New(baseURL, runOpts, clientOptions(cfg)...).
		WithLogger(log.GetLogger()).
		Run(cmd.Context())

	out := cmd.OutOrStdout()
	var err error
	if opts.JSON {
		err = report.WriteJSON(out)
	} else {
		err = report.WriteSummary(out)
	}
	if err != nil {
		return wrapExitError(exitCommandError, "write report", err)
	}

	if cfg.History.Enabled && !opts.NoHistory {
		recordRun(report)
	}

	if code := report.ExitCode(); code != exitSuccess {
		return &exitError{Code: code}
	}
	return nil
}

// recordRun stores the report in history. Store problems are logged only.
func recordRun(report *conformance.Report) {
	logger := log.GetLogger()
	if err := storage.InitDB(); err != nil {
		logger.Warn("history unavailable, run not recorded", zap.Error(err))
		return
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Warn("close history database", zap.Error(err))
		}
	}()

	if err := storage.SaveRun(report.Record(types.RunSourceCLI)); err != nil {
		logger.Warn("failed to record run", zap.String("run_id", report.RunID), zap.Error(err))
	}
}
