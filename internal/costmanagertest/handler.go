package costmanagertest

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"costcheck/internal/response"
	apperrors "costcheck/pkg/errors"
)

var developers = []gin.H{
	{"first_name": "Dana", "last_name": "Levi"},
	{"first_name": "Noam", "last_name": "Cohen"},
}

const errInvalidUserID = "Invalid user ID. Please provide a valid numeric user ID."

type addCostRequest struct {
	UserID      any        `json:"userId"`
	Description string     `json:"description" binding:"required"`
	Category    string     `json:"category" binding:"required"`
	Sum         any        `json:"sum"`
	Date        *time.Time `json:"date"`
}

func (s *Service) about(c *gin.Context) {
	faults := s.currentFaults()
	status := lo.Ternary(faults.AboutStatus != 0, faults.AboutStatus, http.StatusOK)
	if faults.EmptyAbout {
		c.JSON(status, []gin.H{})
		return
	}
	c.JSON(status, developers)
}

func (s *Service) addCost(c *gin.Context) {
	var req addCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// a non-numeric user ID wins over other binding problems
		if _, idErr := cast.ToIntE(req.UserID); req.UserID != nil && idErr != nil {
			response.Error(c, http.StatusBadRequest, errInvalidUserID)
			return
		}
		response.ErrorResponse(c, apperrors.WrapWithDetail(apperrors.CodeInvalidParams, "Failed to add cost", err.Error(), err))
		return
	}

	userID, err := parseUserID(req.UserID)
	if err != nil {
		response.Error(c, http.StatusBadRequest, errInvalidUserID)
		return
	}
	sum, err := cast.ToFloat64E(req.Sum)
	if req.Sum == nil || err != nil {
		response.ErrorResponse(c, apperrors.WrapWithDetail(apperrors.CodeInvalidParams, "Failed to add cost", "sum must be a number", err))
		return
	}
	if _, ok := s.user(userID); !ok {
		c.JSON(http.StatusNotFound, response.ErrorBody{
			Error:   "User not found",
			Message: fmt.Sprintf("No user found with ID %d", userID),
		})
		return
	}

	cost := Cost{
		ID:          uuid.NewString(),
		UserID:      userID,
		Description: req.Description,
		Category:    req.Category,
		Sum:         sum,
		Date:        s.now().UTC(),
	}
	if req.Date != nil {
		cost.Date = req.Date.UTC()
	}
	s.AddCost(cost)

	if faults := s.currentFaults(); faults.AddStatus != 0 {
		c.JSON(faults.AddStatus, cost)
		return
	}
	response.Created(c, cost)
}

func (s *Service) monthlyReport(c *gin.Context) {
	userID, err := parseUserID(c.Query("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, errInvalidUserID)
		return
	}
	yearRaw, monthRaw := strings.TrimSpace(c.Query("year")), strings.TrimSpace(c.Query("month"))
	if yearRaw == "" || monthRaw == "" {
		response.Error(c, http.StatusBadRequest, "Missing required parameters: year or month")
		return
	}
	year, yearErr := cast.ToIntE(yearRaw)
	month, monthErr := cast.ToIntE(monthRaw)
	if yearErr != nil || monthErr != nil || month < 1 || month > 12 {
		response.Error(c, http.StatusBadRequest, "Invalid year or month")
		return
	}
	if _, ok := s.user(userID); !ok {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeNotFound, "User not found"))
		return
	}

	costs := lo.FilterMap(s.Costs(), func(cost Cost, _ int) (gin.H, bool) {
		if cost.UserID != userID || cost.Date.Year() != year || int(cost.Date.Month()) != month {
			return nil, false
		}
		return gin.H{
			"_id":         cost.ID,
			"category":    cost.Category,
			"sum":         cost.Sum,
			"description": cost.Description,
			"day":         cost.Date.Day(),
		}, true
	})

	body := gin.H{
		"userid": userID,
		"year":   year,
		"month":  month,
	}
	faults := s.currentFaults()
	if !faults.OmitReportCosts {
		body["costs"] = costs
	}
	c.JSON(lo.Ternary(faults.ReportStatus != 0, faults.ReportStatus, http.StatusOK), body)
}

func (s *Service) userDetails(c *gin.Context) {
	userID, err := parseUserID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, errInvalidUserID)
		return
	}
	user, ok := s.user(userID)
	if !ok {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeNotFound, "User not found"))
		return
	}

	total := lo.SumBy(s.Costs(), func(cost Cost) float64 {
		return lo.Ternary(cost.UserID == userID, cost.Sum, 0)
	})
	response.Success(c, gin.H{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"id":         user.ID,
		"total":      total,
	})
}

func (s *Service) deleteCost(c *gin.Context) {
	id := c.Param("id")

	s.mu.Lock()
	_, index, found := lo.FindIndexOf(s.costs, func(cost Cost) bool { return cost.ID == id })
	if found {
		s.costs = append(s.costs[:index], s.costs[index+1:]...)
	}
	s.mu.Unlock()

	if !found {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeNotFound, "Item not found"))
		return
	}
	response.Success(c, gin.H{"deleted": id})
}

func parseUserID(raw any) (int, error) {
	if raw == nil {
		return 0, apperrors.ErrInvalidParams
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return 0, apperrors.ErrInvalidParams
	}
	return cast.ToIntE(raw)
}
