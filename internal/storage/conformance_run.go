package storage

import (
	"errors"

	"costcheck/internal/types"
	apperrors "costcheck/pkg/errors"

	"gorm.io/gorm"
)

var errNotInitialized = apperrors.New(apperrors.CodeDBError, "database not initialized")

// SaveRun inserts a run with its check results. Saving a run ID twice is an error.
func SaveRun(run *types.ConformanceRun) error {
	if DB == nil {
		return errNotInitialized
	}
	if err := DB.Create(run).Error; err != nil {
		return apperrors.Wrap(apperrors.CodeDBError, "save run", err)
	}
	return nil
}

// GetRun loads one run with its checks in execution order.
func GetRun(runId string) (*types.ConformanceRun, error) {
	if DB == nil {
		return nil, errNotInitialized
	}
	var run types.ConformanceRun
	err := DB.Preload("Checks", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("run_id = ?", runId).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.WrapWithDetail(apperrors.CodeNotFound, "run not found", runId, err)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDBError, "load run", err)
	}
	return &run, nil
}

// GetRunHistory returns the latest runs, newest first.
func GetRunHistory(limit int) ([]types.ConformanceRun, error) {
	if DB == nil {
		return nil, errNotInitialized
	}
	var runs []types.ConformanceRun
	err := DB.Preload("Checks", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Order("create_time desc").Order("run_id desc").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDBError, "load run history", err)
	}
	return runs, nil
}

// DeleteRun removes a run and its check results.
func DeleteRun(runId string) error {
	if DB == nil {
		return errNotInitialized
	}
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", runId).Delete(&types.CheckResult{}).Error; err != nil {
			return err
		}
		result := tx.Where("run_id = ?", runId).Delete(&types.ConformanceRun{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.WrapWithDetail(apperrors.CodeNotFound, "run not found", runId, gorm.ErrRecordNotFound)
		}
		return nil
	})
	if err != nil && !apperrors.Is(err, apperrors.CodeNotFound) {
		return apperrors.Wrap(apperrors.CodeDBError, "delete run", err)
	}
	return err
}

// Recorder adapts the package-level store to callers that take an interface.
type Recorder struct{}

func (Recorder) SaveRun(run *types.ConformanceRun) error {
	return SaveRun(run)
}
