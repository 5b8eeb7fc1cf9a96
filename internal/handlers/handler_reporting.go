package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	portssvc "github.com/buildbooks/build_books_app/internal/core/ports/services"
	"github.com/buildbooks/build_books_app/internal/dto"
)

// reportingHandler handles the read-only report endpoints.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := &reportingHandler{reportingService: reportingService}

	reports := rg.Group("/reports")
	{
		reports.GET("/statement/:accountID", h.accountStatement)
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/payroll-summary", h.payrollSummary)
	}
}

// accountStatement godoc
// @Summary Account statement
// @Description Lists an account's cleared activity in a date range with running balances
// @Tags reports
// @Produce json
// @Param accountID path string true "Account ID"
// @Param from query string false "Start date (YYYY-MM-DD), defaults to 30 days ago"
// @Param to query string false "End date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.AccountStatementResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /reports/statement/{accountID} [get]
func (h *reportingHandler) accountStatement(c *gin.Context) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	from, ok := queryDate(c, "from", now.AddDate(0, 0, -30))
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", now)
	if !ok {
		return
	}

	accountID := c.Param("accountID")
	lines, err := h.reportingService.GetAccountStatement(c.Request.Context(), accountID, from, to)
	if err != nil {
		respondError(c, err, "Failed to build account statement")
		return
	}

	c.JSON(http.StatusOK, dto.AccountStatementResponse{
		AccountID: accountID,
		From:      from.Format(dto.DateFormat),
		To:        to.Format(dto.DateFormat),
		Lines:     lines,
	})
}

// trialBalance godoc
// @Summary Trial balance
// @Description Per-account debit/credit rows as of a date; total debits equal total credits
// @Tags reports
// @Produce json
// @Param asOf query string false "Cutoff date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.TrialBalanceResponse
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	asOf, ok := queryDate(c, "asOf", time.Now().UTC().Truncate(24*time.Hour))
	if !ok {
		return
	}

	rows, err := h.reportingService.GetTrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "Failed to build trial balance")
		return
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	for i := range rows {
		totalDebit = totalDebit.Add(rows[i].Debit)
		totalCredit = totalCredit.Add(rows[i].Credit)
	}

	c.JSON(http.StatusOK, dto.TrialBalanceResponse{
		AsOf:        asOf.Format(dto.DateFormat),
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	})
}

// payrollSummary godoc
// @Summary Payroll summary
// @Description Aggregates payroll totals by status for a period, optionally scoped to a project
// @Tags reports
// @Produce json
// @Param from query string false "Period start (YYYY-MM-DD), defaults to 30 days ago"
// @Param to query string false "Period end (YYYY-MM-DD), defaults to today"
// @Param projectID query string false "Project tag"
// @Success 200 {object} dto.PayrollSummaryResponse
// @Security BearerAuth
// @Router /reports/payroll-summary [get]
func (h *reportingHandler) payrollSummary(c *gin.Context) {
	now := time.Now().UTC().Truncate(24 * time.Hour)
	from, ok := queryDate(c, "from", now.AddDate(0, 0, -30))
	if !ok {
		return
	}
	to, ok := queryDate(c, "to", now)
	if !ok {
		return
	}
	projectID := optionalQuery(c, "projectID")

	rows, err := h.reportingService.GetPayrollSummary(c.Request.Context(), from, to, projectID)
	if err != nil {
		respondError(c, err, "Failed to build payroll summary")
		return
	}

	resp := dto.PayrollSummaryResponse{
		From: from.Format(dto.DateFormat),
		To:   to.Format(dto.DateFormat),
		Rows: rows,
	}
	if projectID != nil {
		resp.ProjectID = *projectID
	}
	c.JSON(http.StatusOK, resp)
}
