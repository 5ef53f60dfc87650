package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"practice-manager-server/internal/services"
	"practice-manager-server/internal/utils"
)

// DashboardHandler serves the financial overview.
type DashboardHandler struct {
	Financial *services.FinancialService
	Patients  *services.PatientService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(financial *services.FinancialService, patients *services.PatientService) *DashboardHandler {
	return &DashboardHandler{Financial: financial, Patients: patients}
}

// DashboardResponse aggregates everything the dashboard page renders.
type DashboardResponse struct {
	SelectedMonth        string                     `json:"selectedMonth"`
	SelectedMonthSummary *services.FinancialSummary `json:"selectedMonthSummary"`
	PreviousMonthSummary *services.FinancialSummary `json:"previousMonthSummary"`
	ActivePatients       int64                      `json:"activePatients"`
	ChartData            []services.MonthlyTotals   `json:"chartData"`
}

// GetDashboard returns the month summary, the previous month for comparison,
// the active patient count and the twelve-month chart. The month comes from
// ?month=YYYY-MM, defaulting to the current month; a malformed value falls
// back to the current month as well.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	now := time.Now()
	selected := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if raw := c.Query("month"); raw != "" {
		if parsed, err := time.Parse("2006-01", raw); err == nil {
			selected = parsed
		}
	}

	selectedEnd := selected.AddDate(0, 1, 0).Add(-time.Nanosecond)
	previousStart := selected.AddDate(0, -1, 0)
	previousEnd := selected.Add(-time.Nanosecond)

	ctx := c.Request.Context()

	selectedSummary, err := h.Financial.SummaryForPeriod(ctx, selected, selectedEnd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	previousSummary, err := h.Financial.SummaryForPeriod(ctx, previousStart, previousEnd)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	activePatients, err := h.Patients.ActiveCount(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	chartData, err := h.Financial.MonthlyChart(ctx, selected)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.Success(c, "Dashboard fetched successfully", DashboardResponse{
		SelectedMonth:        selected.Format("2006-01"),
		SelectedMonthSummary: selectedSummary,
		PreviousMonthSummary: previousSummary,
		ActivePatients:       activePatients,
		ChartData:            chartData,
	})
}
