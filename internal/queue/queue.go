// Package queue runs conformance checks as background tasks using Asynq.
// A scheduler or CI job enqueues runs; a worker executes and records them.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"costcheck/internal/conformance"
	"costcheck/log"
	apperrors "costcheck/pkg/errors"
)

// Task type names
const (
	TypeConformanceRun = "conformance:run"
)

const queueName = "conformance"

// ConformanceRunPayload contains the data for one queued run
type ConformanceRunPayload struct {
	RunID   string              `json:"run_id"`
	BaseURL string              `json:"base_url"`
	Options conformance.Options `json:"options"`
}

// QueueConfig holds Redis configuration for Asynq
type QueueConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Concurrency   int
}

// Queue manages task enqueueing and processing
type Queue struct {
	client *asynq.Client
	server *asynq.Server
	config QueueConfig
}

// DefaultConfig returns default queue configuration
func DefaultConfig() QueueConfig {
	return QueueConfig{
		RedisAddr:   "localhost:6379",
		RedisDB:     0,
		Concurrency: 1,
	}
}

// NewQueue creates a new Queue instance
func NewQueue(cfg QueueConfig) *Queue {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      map[string]int{queueName: 1},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.GetLogger().Error("Task failed",
					zap.String("type", task.Type()),
					zap.ByteString("payload", task.Payload()),
					zap.Error(err))
			}),
		},
	)

	return &Queue{
		client: client,
		server: server,
		config: cfg,
	}
}

// NewConformanceRunTask builds the task for payload. Runs are never retried.
func NewConformanceRunTask(payload ConformanceRunPayload, delay time.Duration) (*asynq.Task, error) {
	if payload.BaseURL == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParams, "base URL is required")
	}
	if payload.RunID == "" {
		payload.RunID = conformance.NewRunID()
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	opts := []asynq.Option{
		asynq.MaxRetry(0),
		asynq.Timeout(10 * time.Minute),
		asynq.Queue(queueName),
		asynq.TaskID(payload.RunID),
	}
	if delay > 0 {
		opts = append(opts, asynq.ProcessIn(delay))
	}
	return asynq.NewTask(TypeConformanceRun, data, opts...), nil
}

// EnqueueConformanceRun adds a run to the queue and returns its run ID
func (q *Queue) EnqueueConformanceRun(payload ConformanceRunPayload, delay time.Duration) (string, error) {
	task, err := NewConformanceRunTask(payload, delay)
	if err != nil {
		return "", err
	}

	info, err := q.client.Enqueue(task)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeQueue, "failed to enqueue task", err)
	}

	log.GetLogger().Info("Conformance run enqueued",
		zap.String("run_id", info.ID),
		zap.String("queue", info.Queue),
		zap.Time("process_at", info.NextProcessAt))

	return info.ID, nil
}

// Close gracefully shuts down the queue
func (q *Queue) Close() error {
	if err := q.client.Close(); err != nil {
		return err
	}
	q.server.Shutdown()
	return nil
}
