package conformance

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"costcheck/pkg/costapi"
)

// Check names, stable across releases since they are stored in run history.
const (
	CheckAbout         = "about"
	CheckAddCost       = "add_cost"
	CheckMonthlyReport = "monthly_report"
	CheckUserDetails   = "user_details"
)

// Check is a single request/assert sequence against one endpoint.
type Check struct {
	Name     string
	Endpoint string
	Run      func(ctx context.Context) error
}

// Checks returns the suite in execution order. The three contract checks are
// always present; the user details check only with Options.Extended.
func (h *Harness) Checks() []Check {
	checks := []Check{
		{Name: CheckAbout, Endpoint: "GET " + costapi.PathAbout, Run: h.checkAbout},
		{Name: CheckAddCost, Endpoint: "POST " + costapi.PathAdd, Run: h.checkAddCost},
		{Name: CheckMonthlyReport, Endpoint: "GET " + costapi.PathReport, Run: h.checkMonthlyReport},
	}
	if h.opts.Extended {
		checks = append(checks, Check{Name: CheckUserDetails, Endpoint: "GET " + costapi.PathUser, Run: h.checkUserDetails})
	}
	return checks
}

func (h *Harness) checkAbout(ctx context.Context) error {
	resp, err := h.client.About(ctx)
	if err != nil {
		return err
	}
	if err = expectStatus(resp, http.StatusOK, "Failed to get /api/about"); err != nil {
		return err
	}
	return expectTruthyJSON(resp, "No JSON response returned")
}

func (h *Harness) checkAddCost(ctx context.Context) error {
	entry := costapi.CostEntry{
		UserID:      h.opts.UserID,
		Description: h.opts.Description,
		Category:    h.opts.Category,
		Sum:         h.opts.Sum,
	}
	if h.opts.TagDescription {
		entry.Description = fmt.Sprintf("%s [costcheck %s]", entry.Description, h.runID)
	}

	resp, err := h.client.AddCost(ctx, entry)
	if err != nil {
		return err
	}
	if err = expectStatus(resp, http.StatusCreated, "Failed to add a cost item"); err != nil {
		return err
	}

	if h.opts.Cleanup {
		h.deleteCreated(ctx, resp)
	}
	return nil
}

// deleteCreated removes the entry created by the add check. Problems are
// logged only; they never change the check outcome.
func (h *Harness) deleteCreated(ctx context.Context, created *costapi.Response) {
	var saved costapi.SavedCost
	if err := created.Decode(&saved); err != nil || saved.ID == "" {
		h.logger.Warn("cleanup skipped, created entry has no _id",
			zap.String("run_id", h.runID), zap.Error(err))
		return
	}

	resp, err := h.client.DeleteCost(ctx, saved.ID)
	if err != nil {
		h.logger.Warn("cleanup request failed",
			zap.String("run_id", h.runID), zap.String("cost_id", saved.ID), zap.Error(err))
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Warn("cleanup rejected",
			zap.String("run_id", h.runID), zap.String("cost_id", saved.ID), zap.Int("status", resp.StatusCode))
		return
	}
	h.logger.Debug("cleanup done", zap.String("run_id", h.runID), zap.String("cost_id", saved.ID))
}

func (h *Harness) checkMonthlyReport(ctx context.Context) error {
	resp, err := h.client.MonthlyReport(ctx, costapi.ReportQuery{
		UserID: h.opts.UserID,
		Year:   h.opts.Year,
		Month:  h.opts.Month,
	})
	if err != nil {
		return err
	}
	if err = expectStatus(resp, http.StatusOK, "Failed to get the monthly report"); err != nil {
		return err
	}
	return expectKeys(resp, "No costs found in the report", "costs")
}

func (h *Harness) checkUserDetails(ctx context.Context) error {
	resp, err := h.client.UserDetails(ctx, h.opts.UserID)
	if err != nil {
		return err
	}
	if err = expectStatus(resp, http.StatusOK, "Failed to get the user details"); err != nil {
		return err
	}
	return expectKeys(resp, "Incomplete user details", "first_name", "last_name", "id", "total")
}
