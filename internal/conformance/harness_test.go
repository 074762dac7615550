package conformance

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costcheck/internal/costmanagertest"
	apperrors "costcheck/pkg/errors"
)

func startService(t *testing.T, opts ...costmanagertest.Option) (*costmanagertest.Service, string) {
	t.Helper()

	svc, srv := costmanagertest.NewServer(opts...)
	t.Cleanup(srv.Close)
	return svc, srv.URL
}

func TestRunAgainstConformingService(t *testing.T) {
	svc, baseURL := startService(t)

	report := New(baseURL, DefaultOptions()).Run(context.Background())

	require.Len(t, report.Results, 3)
	for _, res := range report.Results {
		assert.Equal(t, StatusPass, res.Status, "%s: %s", res.Name, res.Message)
	}
	assert.True(t, report.Passed())
	assert.Equal(t, 0, report.ExitCode())
	assert.Equal(t, baseURL, report.BaseURL)
	assert.False(t, report.FinishedAt.Before(report.StartedAt))

	costs := svc.Costs()
	require.Len(t, costs, 1)
	assert.Equal(t, costmanagertest.DefaultUserID, costs[0].UserID)
	assert.Equal(t, "Test Item", costs[0].Description)
	assert.Equal(t, "food", costs[0].Category)
	assert.Equal(t, float64(50), costs[0].Sum)
}

func TestMissingCostsKeyFailsOnlyReportCheck(t *testing.T) {
	_, baseURL := startService(t, costmanagertest.WithFaults(costmanagertest.Faults{OmitReportCosts: true}))

	report := New(baseURL, DefaultOptions()).Run(context.Background())

	failures := report.Failures()
	require.Len(t, failures, 1)
	assert.Equal(t, CheckMonthlyReport, failures[0].Name)
	assert.Equal(t, StatusFail, failures[0].Status)
	assert.Contains(t, failures[0].Message, "No costs found in the report")

	about, ok := report.Result(CheckAbout)
	require.True(t, ok)
	assert.Equal(t, StatusPass, about.Status)
	add, ok := report.Result(CheckAddCost)
	require.True(t, ok)
	assert.Equal(t, StatusPass, add.Status)

	assert.Equal(t, 1, report.ExitCode())
}

func TestUnreachableServiceErrorsEveryCheck(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	report := New(baseURL, DefaultOptions()).Run(context.Background())

	require.Len(t, report.Results, 3)
	for _, res := range report.Results {
		assert.Equal(t, StatusError, res.Status, res.Name)
		assert.Contains(t, res.Message, "Request failed")
	}
	pass, fail, errored := report.Counts()
	assert.Equal(t, [3]int{0, 0, 3}, [3]int{pass, fail, errored})
	assert.False(t, report.Passed())
}

func TestContractViolations(t *testing.T) {
	testCases := []struct {
		name        string
		faults      costmanagertest.Faults
		failedCheck string
		wantMessage string
	}{
		{
			name:        "about status",
			faults:      costmanagertest.Faults{AboutStatus: http.StatusInternalServerError},
			failedCheck: CheckAbout,
			wantMessage: "Failed to get /api/about (expected status 200, got status 500)",
		},
		{
			name:        "about empty body",
			faults:      costmanagertest.Faults{EmptyAbout: true},
			failedCheck: CheckAbout,
			wantMessage: "No JSON response returned (expected a non-empty JSON value, got [])",
		},
		{
			name:        "add status",
			faults:      costmanagertest.Faults{AddStatus: http.StatusOK},
			failedCheck: CheckAddCost,
			wantMessage: "Failed to add a cost item (expected status 201, got status 200)",
		},
		{
			name:        "report status",
			faults:      costmanagertest.Faults{ReportStatus: http.StatusNotFound},
			failedCheck: CheckMonthlyReport,
			wantMessage: "Failed to get the monthly report (expected status 200, got status 404)",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, baseURL := startService(t, costmanagertest.WithFaults(tc.faults))

			report := New(baseURL, DefaultOptions()).Run(context.Background())

			failures := report.Failures()
			require.Len(t, failures, 1)
			assert.Equal(t, tc.failedCheck, failures[0].Name)
			assert.Equal(t, StatusFail, failures[0].Status)
			assert.Equal(t, tc.wantMessage, failures[0].Message)
		})
	}
}

func TestAddCostIsNotIdempotent(t *testing.T) {
	svc, baseURL := startService(t)

	New(baseURL, DefaultOptions()).Run(context.Background())
	New(baseURL, DefaultOptions()).Run(context.Background())

	assert.Len(t, svc.Costs(), 2)
}

func TestChecksRunInAnyOrder(t *testing.T) {
	_, baseURL := startService(t)
	h := New(baseURL, DefaultOptions())

	checks := h.Checks()
	for i := len(checks) - 1; i >= 0; i-- {
		res := h.RunCheck(context.Background(), checks[i])
		assert.Equal(t, StatusPass, res.Status, "%s: %s", res.Name, res.Message)
	}
}

func TestTagDescription(t *testing.T) {
	svc, baseURL := startService(t)
	opts := DefaultOptions()
	opts.TagDescription = true

	h := New(baseURL, opts).WithRunID("01JMNQ8Z4W6Y5R2T3V7X9A0BCD")
	report := h.Run(context.Background())
	require.True(t, report.Passed())
	assert.Equal(t, "01JMNQ8Z4W6Y5R2T3V7X9A0BCD", report.RunID)

	costs := svc.Costs()
	require.Len(t, costs, 1)
	assert.Equal(t, "Test Item [costcheck 01JMNQ8Z4W6Y5R2T3V7X9A0BCD]", costs[0].Description)
}

func TestCleanupDeletesCreatedEntry(t *testing.T) {
	svc, baseURL := startService(t)
	opts := DefaultOptions()
	opts.Cleanup = true

	report := New(baseURL, opts).Run(context.Background())

	require.True(t, report.Passed())
	assert.Empty(t, svc.Costs())
}

func TestCleanupProblemsDoNotFailTheCheck(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/add", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"userId":123123}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	opts := DefaultOptions()
	opts.Cleanup = true
	h := New(srv.URL, opts)

	var addCheck Check
	for _, c := range h.Checks() {
		if c.Name == CheckAddCost {
			addCheck = c
		}
	}
	res := h.RunCheck(context.Background(), addCheck)
	assert.Equal(t, StatusPass, res.Status)
}

func TestExtendedAddsUserDetailsCheck(t *testing.T) {
	_, baseURL := startService(t)
	opts := DefaultOptions()
	opts.Extended = true

	report := New(baseURL, opts).Run(context.Background())

	require.Len(t, report.Results, 4)
	details, ok := report.Result(CheckUserDetails)
	require.True(t, ok)
	assert.Equal(t, StatusPass, details.Status, details.Message)
	assert.True(t, report.Passed())
}

func TestExtendedUnknownUserFails(t *testing.T) {
	_, baseURL := startService(t, costmanagertest.WithUsers(costmanagertest.User{ID: 1}))
	opts := DefaultOptions()
	opts.Extended = true

	report := New(baseURL, opts).Run(context.Background())

	details, ok := report.Result(CheckUserDetails)
	require.True(t, ok)
	assert.Equal(t, StatusFail, details.Status)
	assert.True(t, strings.HasPrefix(details.Message, "Failed to get the user details"))
}

func TestCanceledContextErrors(t *testing.T) {
	_, baseURL := startService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := New(baseURL, DefaultOptions()).Run(ctx)

	for _, res := range report.Results {
		assert.Equal(t, StatusError, res.Status, res.Name)
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, StatusPass, classify(nil))
	assert.Equal(t, StatusFail, classify(&AssertionError{}))
	assert.Equal(t, StatusError, classify(apperrors.New(apperrors.CodeTransport, "Request failed")))
}

func TestNewRunIDIsSortable(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	assert.Len(t, a, 26)
	assert.LessOrEqual(t, a[:10], b[:10], "timestamp prefix must not go backwards")
}
