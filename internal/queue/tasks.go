package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"costcheck/internal/conformance"
	"costcheck/internal/types"
	"costcheck/log"
	"costcheck/pkg/costapi"
)

// RunRecorder persists finished runs.
type RunRecorder interface {
	SaveRun(run *types.ConformanceRun) error
}

// TaskHandlers provides handlers for different task types
type TaskHandlers struct {
	recorder   RunRecorder
	clientOpts []costapi.Option
}

// NewTaskHandlers creates a new TaskHandlers instance
func NewTaskHandlers(recorder RunRecorder, clientOpts ...costapi.Option) *TaskHandlers {
	return &TaskHandlers{recorder: recorder, clientOpts: clientOpts}
}

// HandleConformanceRun executes a queued run and records it. A run with
// failing checks is reported as a task error so it lands in the archive.
func (h *TaskHandlers) HandleConformanceRun(ctx context.Context, t *asynq.Task) error {
	var payload ConformanceRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logger := log.GetLogger()
	logger.Info("[Queue] Processing conformance run",
		zap.String("run_id", payload.RunID),
		zap.String("base_url", payload.BaseURL))

	report := conformance.New(payload.BaseURL, payload.Options, h.clientOpts...).
		WithLogger(logger).
		WithRunID(payload.RunID).
		Run(ctx)

	if h.recorder != nil {
		if err := h.recorder.SaveRun(report.Record(types.RunSourceQueue)); err != nil {
			return fmt.Errorf("record run %s: %v: %w", report.RunID, err, asynq.SkipRetry)
		}
	}

	if !report.Passed() {
		_, fail, errored := report.Counts()
		return fmt.Errorf("run %s: %d failed, %d errors: %w", report.RunID, fail, errored, asynq.SkipRetry)
	}

	logger.Info("[Queue] Conformance run passed", zap.String("run_id", report.RunID))
	return nil
}

// RegisterHandlers registers all task handlers with the Asynq server mux
func (h *TaskHandlers) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeConformanceRun, h.HandleConformanceRun)
}

// StartWorker blocks serving queued runs until the process is signalled.
func StartWorker(q *Queue, recorder RunRecorder, clientOpts ...costapi.Option) error {
	handlers := NewTaskHandlers(recorder, clientOpts...)

	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	log.GetLogger().Info("[Queue] Starting worker",
		zap.String("redis_addr", q.config.RedisAddr),
		zap.Int("concurrency", q.config.Concurrency))

	return q.server.Run(mux)
}
