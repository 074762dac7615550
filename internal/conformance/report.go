package conformance

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/samber/lo"

	"costcheck/internal/types"
)

type Status string

const (
	StatusPass  Status = types.CheckStatusPass
	StatusFail  Status = types.CheckStatusFail
	StatusError Status = types.CheckStatusError
)

type Result struct {
	Name     string        `json:"name"`
	Endpoint string        `json:"endpoint"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

type Report struct {
	RunID      string    `json:"run_id"`
	BaseURL    string    `json:"base_url"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Results    []Result  `json:"results"`
}

// Passed reports whether every check passed. An empty report does not pass.
func (r *Report) Passed() bool {
	return len(r.Results) > 0 && lo.EveryBy(r.Results, func(res Result) bool {
		return res.Status == StatusPass
	})
}

// Counts returns the number of passed, failed and errored checks.
func (r *Report) Counts() (pass, fail, errored int) {
	pass = lo.CountBy(r.Results, func(res Result) bool { return res.Status == StatusPass })
	fail = lo.CountBy(r.Results, func(res Result) bool { return res.Status == StatusFail })
	errored = lo.CountBy(r.Results, func(res Result) bool { return res.Status == StatusError })
	return pass, fail, errored
}

// Failures returns the results that did not pass, in execution order.
func (r *Report) Failures() []Result {
	return lo.Filter(r.Results, func(res Result, _ int) bool {
		return res.Status != StatusPass
	})
}

// Result looks up a check result by name.
func (r *Report) Result(name string) (Result, bool) {
	return lo.Find(r.Results, func(res Result) bool { return res.Name == name })
}

func (r *Report) ExitCode() int {
	if r.Passed() {
		return 0
	}
	return 1
}

// Record converts the report into its history row.
func (r *Report) Record(source string) *types.ConformanceRun {
	pass, fail, errored := r.Counts()
	return &types.ConformanceRun{
		RunId:      r.RunID,
		BaseURL:    r.BaseURL,
		Source:     source,
		Passed:     r.Passed(),
		PassCount:  pass,
		FailCount:  fail,
		ErrorCount: errored,
		CreateTime: r.StartedAt.UnixMilli(),
		FinishTime: r.FinishedAt.UnixMilli(),
		Checks: lo.Map(r.Results, func(res Result, i int) types.CheckResult {
			return types.CheckResult{
				RunId:      r.RunID,
				Position:   i,
				Name:       res.Name,
				Endpoint:   res.Endpoint,
				Status:     string(res.Status),
				Message:    res.Message,
				DurationMs: res.Duration.Milliseconds(),
			}
		}),
	}
}

// WriteSummary prints one line per check and a totals line.
func (r *Report) WriteSummary(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "costcheck run %s against %s\n", r.RunID, r.BaseURL)
	for _, res := range r.Results {
		line := fmt.Sprintf("%-5s  %-14s  %-19s  %s", strings.ToUpper(string(res.Status)), res.Name, res.Endpoint, res.Message)
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteByte('\n')
	}
	pass, fail, errored := r.Counts()
	fmt.Fprintf(&b, "%d checks: %d passed, %d failed, %d errors\n", len(r.Results), pass, fail, errored)

	_, err := io.WriteString(w, b.String())
	return err
}

func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
