package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pacerapp/pacer-backend/internal/domain"
	"github.com/pacerapp/pacer-backend/internal/middleware"
	"github.com/pacerapp/pacer-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReportHandler handles budget report and monthly overview HTTP requests
type ReportHandler struct {
	reportService   *service.ReportService
	overviewService *service.OverviewService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, overviewService *service.OverviewService) *ReportHandler {
	return &ReportHandler{
		reportService:   reportService,
		overviewService: overviewService,
	}
}

// ChartDatumResponse represents one category's budgeted-vs-spent pair
type ChartDatumResponse struct {
	CategoryID        uuid.UUID `json:"categoryId"`
	CategoryName      string    `json:"categoryName"`
	CategoryIconName  string    `json:"categoryIconName"`
	AllocationAmount  string    `json:"allocationAmount"`
	TransactionAmount string    `json:"transactionAmount"`
}

// BudgetReportResponse represents the adherence report for one budget
type BudgetReportResponse struct {
	Budget        BudgetResponse       `json:"budget"`
	BARValue      string               `json:"barValue"`
	Adherence     string               `json:"adherence"`
	ChartData     []ChartDatumResponse `json:"chartData"`
	TotalBudgeted string               `json:"totalBudgeted"`
	TotalSpent    string               `json:"totalSpent"`
}

// MonthlyOverviewResponse represents the month spending overview
type MonthlyOverviewResponse struct {
	Year                  int    `json:"year"`
	Month                 int    `json:"month"`
	TotalSpent            string `json:"totalSpent"`
	BudgetedSpent         string `json:"budgetedSpent"`
	UnassignedSpent       string `json:"unassignedSpent"`
	BudgetedCount         int    `json:"budgetedCount"`
	UnassignedCount       int    `json:"unassignedCount"`
	PercentageSpent       string `json:"percentageSpent"`
	HasUnassignedSpending bool   `json:"hasUnassignedSpending"`
}

// GetReports handles GET /api/v1/reports. Reports are built for every budget
// active at the reference time, which defaults to now and can be overridden
// with ?asOf=YYYY-MM-DD.
func (h *ReportHandler) GetReports(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	now := time.Now().UTC()
	if raw := c.QueryParam("asOf"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return NewValidationError(c, "Invalid asOf date", []ValidationError{
				{Field: "asOf", Message: "Must be a date in YYYY-MM-DD format"},
			})
		}
		now = parsed
	}

	reports, err := h.reportService.ActiveReports(userID, now)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to build reports")
		return NewInternalError(c, "Failed to build reports")
	}

	responses := make([]BudgetReportResponse, len(reports))
	for i, r := range reports {
		responses[i] = toBudgetReportResponse(r)
	}
	return c.JSON(http.StatusOK, responses)
}

// GetReport handles GET /api/v1/reports/:budgetId
func (h *ReportHandler) GetReport(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	budgetID, err := uuid.Parse(c.Param("budgetId"))
	if err != nil {
		return NewValidationError(c, "Invalid budget ID", nil)
	}

	report, err := h.reportService.Report(userID, budgetID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrBudgetNotFound) {
			return NewNotFoundError(c, "Budget not found")
		}
		log.Error().Err(err).Str("user_id", userID).Str("budget_id", budgetID.String()).Msg("Failed to build report")
		return NewInternalError(c, "Failed to build report")
	}

	return c.JSON(http.StatusOK, toBudgetReportResponse(report))
}

// GetMonthlyOverview handles GET /api/v1/reports/overview/:year/:month
func (h *ReportHandler) GetMonthlyOverview(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == "" {
		return NewUnauthorizedError(c, "Authentication required")
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1900 || year > 2100 {
		return NewValidationError(c, "Invalid year", nil)
	}

	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return NewValidationError(c, "Invalid month", nil)
	}

	overview, err := h.overviewService.Overview(userID, year, month, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Int("year", year).Int("month", month).Msg("Failed to build overview")
		return NewInternalError(c, "Failed to build overview")
	}

	return c.JSON(http.StatusOK, MonthlyOverviewResponse{
		Year:                  overview.Year,
		Month:                 overview.Month,
		TotalSpent:            overview.TotalSpent.StringFixed(2),
		BudgetedSpent:         overview.BudgetedSpent.StringFixed(2),
		UnassignedSpent:       overview.UnassignedSpent.StringFixed(2),
		BudgetedCount:         overview.BudgetedCount,
		UnassignedCount:       overview.UnassignedCount,
		PercentageSpent:       overview.PercentageSpent.StringFixed(2),
		HasUnassignedSpending: overview.HasUnassignedSpending,
	})
}

func toBudgetReportResponse(report *domain.BudgetReport) BudgetReportResponse {
	chartData := make([]ChartDatumResponse, len(report.ChartData))
	for i, d := range report.ChartData {
		chartData[i] = ChartDatumResponse{
			CategoryID:        d.CategoryID,
			CategoryName:      d.CategoryName,
			CategoryIconName:  d.CategoryIconName,
			AllocationAmount:  d.AllocationAmount.StringFixed(2),
			TransactionAmount: d.TransactionAmount.StringFixed(2),
		}
	}
	return BudgetReportResponse{
		Budget:        toBudgetResponse(report.Budget),
		BARValue:      report.BARValue.StringFixed(4),
		Adherence:     string(report.Adherence),
		ChartData:     chartData,
		TotalBudgeted: report.TotalBudgeted.StringFixed(2),
		TotalSpent:    report.TotalSpent.StringFixed(2),
	}
}
