package main

import (
	"time"

	"github.com/spf13/cobra"

	"costcheck/config"
	"costcheck/internal/conformance"
	"costcheck/log"
	"costcheck/pkg/costapi"
)

// skipConfigAnnotation marks commands that must work without a valid config.
const skipConfigAnnotation = "costcheck/skip-config"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "costcheck",
		Short: "Conformance checks for the cost manager REST API",
		Long: `costcheck exercises a running cost manager service through its public
endpoints and reports, per check, whether the observable contract holds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, skip := cmd.Annotations[skipConfigAnnotation]; skip {
				return nil
			}
			if err := config.LoadConfig(); err != nil {
				return wrapExitError(exitCommandError, "load config", err)
			}
			return nil
		},
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newHistoryCommand())
	cmd.AddCommand(newEnqueueCommand())
	cmd.AddCommand(newWorkerCommand())
	cmd.AddCommand(newFakeCommand())
	cmd.AddCommand(newConfigCommand())
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// optionsFromConfig maps the [run] and [target] sections onto harness options.
func optionsFromConfig(cfg config.Config) conformance.Options {
	return conformance.Options{
		UserID:         cfg.Run.UserID,
		Year:           cfg.Run.Year,
		Month:          cfg.Run.Month,
		Description:    cfg.Run.Description,
		Category:       cfg.Run.Category,
		Sum:            cfg.Run.Sum,
		TagDescription: cfg.Run.TagDescription,
		Cleanup:        cfg.Run.Cleanup,
		Extended:       cfg.Run.Extended,
		Timeout:        time.Duration(cfg.Target.TimeoutSeconds) * time.Second,
	}
}

func clientOptions(cfg config.Config) []costapi.Option {
	return []costapi.Option{
		costapi.WithUserAgent(cfg.Target.UserAgent),
		costapi.WithLogger(log.GetLogger()),
	}
}
