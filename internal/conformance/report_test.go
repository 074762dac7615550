package conformance

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costcheck/internal/types"
)

const sampleRunID = "01JMNQ8Z4W6Y5R2T3V7X9A0BCD"

func mixedReport() *Report {
	started := time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC)
	return &Report{
		RunID:      sampleRunID,
		BaseURL:    "http://localhost:3000",
		StartedAt:  started,
		FinishedAt: started.Add(120 * time.Millisecond),
		Results: []Result{
			{Name: CheckAbout, Endpoint: "GET /api/about", Status: StatusPass, Duration: 10 * time.Millisecond},
			{
				Name:     CheckAddCost,
				Endpoint: "POST /api/add",
				Status:   StatusError,
				Message:  "[1100] Request failed: dial tcp 127.0.0.1:3000: connect: connection refused",
				Duration: 2 * time.Millisecond,
			},
			{
				Name:     CheckMonthlyReport,
				Endpoint: "GET /api/report",
				Status:   StatusFail,
				Message:  `No costs found in the report (expected keys "costs", got keys [month userid year])`,
				Duration: 35 * time.Millisecond,
			},
		},
	}
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestWriteSummaryGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, mixedReport().WriteSummary(&buf))

	newGoldie(t).Assert(t, "summary_mixed", buf.Bytes())
}

func TestWriteSummaryExtendedGolden(t *testing.T) {
	report := &Report{
		RunID:   sampleRunID,
		BaseURL: "http://localhost:3000",
		Results: []Result{
			{Name: CheckAbout, Endpoint: "GET /api/about", Status: StatusPass},
			{Name: CheckAddCost, Endpoint: "POST /api/add", Status: StatusPass},
			{Name: CheckMonthlyReport, Endpoint: "GET /api/report", Status: StatusPass},
			{Name: CheckUserDetails, Endpoint: "GET /api/users/{id}", Status: StatusPass},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.WriteSummary(&buf))

	newGoldie(t).Assert(t, "summary_extended_pass", buf.Bytes())
}

func TestReportCounts(t *testing.T) {
	report := mixedReport()

	pass, fail, errored := report.Counts()
	assert.Equal(t, 1, pass)
	assert.Equal(t, 1, fail)
	assert.Equal(t, 1, errored)
	assert.False(t, report.Passed())
	assert.Equal(t, 1, report.ExitCode())

	failures := report.Failures()
	require.Len(t, failures, 2)
	assert.Equal(t, CheckAddCost, failures[0].Name)
	assert.Equal(t, CheckMonthlyReport, failures[1].Name)

	_, ok := report.Result("nope")
	assert.False(t, ok)
}

func TestEmptyReportDoesNotPass(t *testing.T) {
	report := &Report{}
	assert.False(t, report.Passed())
	assert.Equal(t, 1, report.ExitCode())
}

func TestRecord(t *testing.T) {
	report := mixedReport()

	rec := report.Record(types.RunSourceQueue)

	assert.Equal(t, sampleRunID, rec.RunId)
	assert.Equal(t, "http://localhost:3000", rec.BaseURL)
	assert.Equal(t, types.RunSourceQueue, rec.Source)
	assert.False(t, rec.Passed)
	assert.Equal(t, 1, rec.PassCount)
	assert.Equal(t, 1, rec.FailCount)
	assert.Equal(t, 1, rec.ErrorCount)
	assert.Equal(t, report.StartedAt.UnixMilli(), rec.CreateTime)
	assert.Equal(t, int64(120), rec.FinishTime-rec.CreateTime)

	require.Len(t, rec.Checks, 3)
	assert.Equal(t, 2, rec.Checks[2].Position)
	assert.Equal(t, types.CheckStatusFail, rec.Checks[2].Status)
	assert.Equal(t, int64(35), rec.Checks[2].DurationMs)
	assert.Equal(t, sampleRunID, rec.Checks[0].RunId)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, mixedReport().WriteJSON(&buf))

	var decoded struct {
		RunID   string `json:"run_id"`
		Results []struct {
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleRunID, decoded.RunID)
	require.Len(t, decoded.Results, 3)
	assert.Equal(t, "error", decoded.Results[1].Status)
}
