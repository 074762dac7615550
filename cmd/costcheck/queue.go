package main

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"costcheck/config"
	"costcheck/internal/queue"
	"costcheck/internal/storage"
)

var startWorker = queue.StartWorker

func queueConfig(cfg config.Config) queue.QueueConfig {
	return queue.QueueConfig{
		RedisAddr:     cfg.Queue.RedisAddr,
		RedisPassword: cfg.Queue.RedisPassword,
		RedisDB:       cfg.Queue.RedisDB,
		Concurrency:   cfg.Queue.Concurrency,
	}
}

func newEnqueueCommand() *cobra.Command {
	var (
		baseURL string
		delay   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "enqueue",
		Short: "Queue a conformance run for a worker",
		Long: `Queue a conformance run on Redis. A running "costcheck worker" executes it
and records the result in its history.

Example:
  costcheck enqueue --in 10m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Conf
			payload := queue.ConformanceRunPayload{
				BaseURL: lo.Ternary(baseURL != "", baseURL, cfg.Target.BaseURL),
				Options: optionsFromConfig(cfg),
			}

			q := queue.NewQueue(queueConfig(cfg))
			defer q.Close()

			runID, err := q.EnqueueConformanceRun(payload, delay)
			if err != nil {
				return wrapExitError(exitCommandError, "enqueue run", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), runID)
			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "service base URL (overrides config)")
	cmd.Flags().DurationVar(&delay, "in", 0, "delay before the run is processed")

	return cmd
}

func newWorkerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Process queued conformance runs until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Conf

			if err := storage.InitDB(); err != nil {
				return wrapExitError(exitCommandError, "open history", err)
			}
			defer storage.Close()

			q := queue.NewQueue(queueConfig(cfg))
			defer q.Close()

			if err := startWorker(q, storage.Recorder{}, clientOptions(cfg)...); err != nil {
				return wrapExitError(exitCommandError, "worker stopped", err)
			}
			return nil
		},
	}
}
