// Package conformance checks a running cost manager service against its
// observable REST contract.
//
// Checks run one after another. A violated expectation marks that check
// failed; a request that gets no response marks it errored. Either way the
// remaining checks still run. Nothing is retried.
package conformance

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"costcheck/pkg/costapi"
)

type Harness struct {
	client *costapi.Client
	opts   Options
	logger *zap.Logger
	runID  string
	now    func() time.Time
}

// New builds a harness for the service at baseURL.
func New(baseURL string, opts Options, clientOpts ...costapi.Option) *Harness {
	if opts.Timeout > 0 {
		clientOpts = append([]costapi.Option{costapi.WithTimeout(opts.Timeout)}, clientOpts...)
	}
	return &Harness{
		client: costapi.NewClient(baseURL, clientOpts...),
		opts:   opts,
		logger: zap.NewNop(),
		runID:  NewRunID(),
		now:    time.Now,
	}
}

// WithLogger sets the logger used for per-check events.
func (h *Harness) WithLogger(logger *zap.Logger) *Harness {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithRunID replaces the generated run ID, e.g. with one assigned by the queue.
func (h *Harness) WithRunID(runID string) *Harness {
	if runID != "" {
		h.runID = runID
	}
	return h
}

func (h *Harness) RunID() string {
	return h.runID
}

func (h *Harness) BaseURL() string {
	return h.client.BaseURL
}

// NewRunID returns a lexically sortable run identifier.
func NewRunID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.DefaultEntropy()).String()
}

// Run executes every check in order and returns the report.
func (h *Harness) Run(ctx context.Context) *Report {
	report := &Report{
		RunID:     h.runID,
		BaseURL:   h.client.BaseURL,
		StartedAt: h.now(),
	}
	h.logger.Info("conformance run started",
		zap.String("run_id", h.runID), zap.String("base_url", h.client.BaseURL))

	for _, check := range h.Checks() {
		report.Results = append(report.Results, h.RunCheck(ctx, check))
	}

	report.FinishedAt = h.now()
	pass, fail, errored := report.Counts()
	h.logger.Info("conformance run finished",
		zap.String("run_id", h.runID),
		zap.Int("passed", pass), zap.Int("failed", fail), zap.Int("errors", errored))
	return report
}

// RunCheck executes one check and classifies its outcome.
func (h *Harness) RunCheck(ctx context.Context, check Check) Result {
	start := h.now()
	err := check.Run(ctx)
	result := Result{
		Name:     check.Name,
		Endpoint: check.Endpoint,
		Status:   classify(err),
		Duration: h.now().Sub(start),
	}

	var assertErr *AssertionError
	switch {
	case err == nil:
		h.logger.Debug("check passed", zap.String("check", check.Name))
	case errors.As(err, &assertErr):
		result.Message = assertErr.Summary()
		h.logger.Warn("check failed", zap.String("check", check.Name), zap.String("reason", result.Message))
	default:
		result.Message = err.Error()
		h.logger.Error("check errored", zap.String("check", check.Name), zap.Error(err))
	}
	return result
}

func classify(err error) Status {
	if err == nil {
		return StatusPass
	}
	var assertErr *AssertionError
	if errors.As(err, &assertErr) {
		return StatusFail
	}
	return StatusError
}
