package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"costcheck/internal/types"
	apperrors "costcheck/pkg/errors"
)

func useTempDB(t *testing.T) {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)

	original := DB
	DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		DB = original
	})
}

func sampleRun(runId string, createTime int64, passed bool) *types.ConformanceRun {
	status := types.CheckStatusPass
	if !passed {
		status = types.CheckStatusFail
	}
	return &types.ConformanceRun{
		RunId:      runId,
		BaseURL:    "http://localhost:3000",
		Source:     types.RunSourceCLI,
		Passed:     passed,
		PassCount:  2,
		CreateTime: createTime,
		FinishTime: createTime + 50,
		Checks: []types.CheckResult{
			{RunId: runId, Position: 1, Name: "add_cost", Endpoint: "POST /api/add", Status: types.CheckStatusPass},
			{RunId: runId, Position: 0, Name: "about", Endpoint: "GET /api/about", Status: types.CheckStatusPass},
			{RunId: runId, Position: 2, Name: "monthly_report", Endpoint: "GET /api/report", Status: status},
		},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	useTempDB(t)

	require.NoError(t, SaveRun(sampleRun("RUN-A", 1000, true)))

	got, err := GetRun("RUN-A")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", got.BaseURL)
	assert.True(t, got.Passed)
	assert.Equal(t, int64(1000), got.CreateTime)
	require.Len(t, got.Checks, 3)
	assert.Equal(t, "about", got.Checks[0].Name, "checks come back in position order")
	assert.Equal(t, "monthly_report", got.Checks[2].Name)
}

func TestSaveRunTwiceFails(t *testing.T) {
	useTempDB(t)

	require.NoError(t, SaveRun(sampleRun("RUN-A", 1000, true)))
	err := SaveRun(sampleRun("RUN-A", 2000, true))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeDBError))
}

func TestGetRunNotFound(t *testing.T) {
	useTempDB(t)

	_, err := GetRun("missing")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestGetRunHistoryNewestFirst(t *testing.T) {
	useTempDB(t)

	require.NoError(t, SaveRun(sampleRun("RUN-1", 1000, true)))
	require.NoError(t, SaveRun(sampleRun("RUN-3", 3000, false)))
	require.NoError(t, SaveRun(sampleRun("RUN-2", 2000, true)))

	runs, err := GetRunHistory(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "RUN-3", runs[0].RunId)
	assert.Equal(t, "RUN-2", runs[1].RunId)
	assert.False(t, runs[0].Passed)
	assert.Len(t, runs[0].Checks, 3)
}

func TestDeleteRun(t *testing.T) {
	useTempDB(t)

	require.NoError(t, SaveRun(sampleRun("RUN-A", 1000, true)))
	require.NoError(t, DeleteRun("RUN-A"))

	_, err := GetRun("RUN-A")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	var orphans int64
	require.NoError(t, DB.Model(&types.CheckResult{}).Where("run_id = ?", "RUN-A").Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestDeleteRunNotFound(t *testing.T) {
	useTempDB(t)

	err := DeleteRun("missing")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	assert.Equal(t, "missing", apperrors.GetDetail(err))
}

func TestNotInitialized(t *testing.T) {
	original := DB
	DB = nil
	t.Cleanup(func() { DB = original })

	assert.Error(t, SaveRun(&types.ConformanceRun{}))
	_, err := GetRunHistory(1)
	assert.Error(t, err)
	assert.Error(t, DeleteRun("RUN-A"))

	var rec Recorder
	assert.True(t, apperrors.Is(rec.SaveRun(&types.ConformanceRun{}), apperrors.CodeDBError))
}
