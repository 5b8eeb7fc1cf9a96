package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildbooks/build_books_app/internal/core/domain"
	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	portssvc "github.com/buildbooks/build_books_app/internal/core/ports/services"
	"github.com/buildbooks/build_books_app/internal/dto"
	"github.com/buildbooks/build_books_app/internal/middleware"
)

// payrollHandler handles HTTP requests for the payroll workflow.
type payrollHandler struct {
	payrollService portssvc.PayrollSvcFacade
}

// registerPayrollRoutes registers routes related to payroll entries.
func registerPayrollRoutes(rg *gin.RouterGroup, payrollService portssvc.PayrollSvcFacade) {
	h := &payrollHandler{payrollService: payrollService}

	payroll := rg.Group("/payroll")
	{
		payroll.POST("", h.buildEntry)
		payroll.GET("/:id", h.getEntry)
		payroll.GET("", h.listEntries)
		payroll.GET("/totals", h.totals)
		payroll.POST("/:id/approve", h.approveEntry)
		payroll.POST("/:id/pay", h.payEntry)
		payroll.POST("/:id/cancel", h.cancelEntry)
	}
}

// buildEntry godoc
// @Summary Build a draft payroll entry
// @Description Computes gross and net wages from attendance, rates, deductions and outstanding advances
// @Tags payroll
// @Accept json
// @Produce json
// @Param payroll body dto.BuildPayrollEntryRequest true "Payroll inputs"
// @Success 201 {object} dto.PayrollEntryResponse
// @Failure 400 {object} map[string]string "Invalid input or period"
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /payroll [post]
func (h *payrollHandler) buildEntry(c *gin.Context) {
	var req dto.BuildPayrollEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.payrollService.BuildPayrollEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to build payroll entry")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payroll entry drafted",
		slog.String("payroll_id", entry.PayrollID), slog.String("worker_id", entry.WorkerID))
	c.JSON(http.StatusCreated, dto.ToPayrollEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a payroll entry by ID
// @Tags payroll
// @Produce json
// @Param id path string true "Payroll ID"
// @Success 200 {object} dto.PayrollEntryResponse
// @Failure 404 {object} map[string]string "Payroll entry not found"
// @Security BearerAuth
// @Router /payroll/{id} [get]
func (h *payrollHandler) getEntry(c *gin.Context) {
	entry, err := h.payrollService.GetPayrollEntryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve payroll entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollEntryResponse(entry))
}

// listEntries godoc
// @Summary List payroll entries
// @Description Lists entries filtered by worker, project, status and period overlap
// @Tags payroll
// @Produce json
// @Param workerID query string false "Worker ID"
// @Param projectID query string false "Project tag"
// @Param status query string false "Workflow status"
// @Param periodFrom query string false "Period overlap start (YYYY-MM-DD)"
// @Param periodUntil query string false "Period overlap end (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListPayrollEntriesResponse
// @Security BearerAuth
// @Router /payroll [get]
func (h *payrollHandler) listEntries(c *gin.Context) {
	filter, ok := payrollFilterFromQuery(c)
	if !ok {
		return
	}

	entries, err := h.payrollService.ListPayrollEntries(c.Request.Context(), filter, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err, "Failed to list payroll entries")
		return
	}

	resp := dto.ListPayrollEntriesResponse{Entries: make([]dto.PayrollEntryResponse, 0, len(entries))}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToPayrollEntryResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// totals godoc
// @Summary Aggregate payroll totals
// @Description Sums the monetary columns over entries matching the filter
// @Tags payroll
// @Produce json
// @Param workerID query string false "Worker ID"
// @Param projectID query string false "Project tag"
// @Param status query string false "Workflow status"
// @Param periodFrom query string false "Period overlap start (YYYY-MM-DD)"
// @Param periodUntil query string false "Period overlap end (YYYY-MM-DD)"
// @Success 200 {object} dto.PayrollTotalsResponse
// @Security BearerAuth
// @Router /payroll/totals [get]
func (h *payrollHandler) totals(c *gin.Context) {
	filter, ok := payrollFilterFromQuery(c)
	if !ok {
		return
	}

	totals, err := h.payrollService.PayrollTotals(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to aggregate payroll totals")
		return
	}

	c.JSON(http.StatusOK, dto.PayrollTotalsResponse{
		EntryCount:       totals.EntryCount,
		GrossWage:        totals.GrossWage,
		Deductions:       totals.Deductions,
		AdvancesDeducted: totals.AdvancesDeducted,
		NetWage:          totals.NetWage,
	})
}

// approveEntry godoc
// @Summary Approve a draft payroll entry
// @Tags payroll
// @Produce json
// @Param id path string true "Payroll ID"
// @Success 200 {object} dto.PayrollEntryResponse
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Security BearerAuth
// @Router /payroll/{id}/approve [post]
func (h *payrollHandler) approveEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	entry, err := h.payrollService.Approve(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to approve payroll entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollEntryResponse(entry))
}

// payEntry godoc
// @Summary Pay an approved payroll entry
// @Description Clears an expense transaction for the net wage and settles the contributing advances oldest first, atomically
// @Tags payroll
// @Accept json
// @Produce json
// @Param id path string true "Payroll ID"
// @Param payment body dto.PayPayrollRequest true "Payment source account"
// @Success 200 {object} dto.PayrollEntryResponse
// @Failure 409 {object} map[string]string "Entry is not approved or net wage is not payable"
// @Security BearerAuth
// @Router /payroll/{id}/pay [post]
func (h *payrollHandler) payEntry(c *gin.Context) {
	var req dto.PayPayrollRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	entry, err := h.payrollService.Pay(c.Request.Context(), c.Param("id"), req, userID)
	if err != nil {
		respondError(c, err, "Failed to pay payroll entry")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payroll entry paid",
		slog.String("payroll_id", entry.PayrollID), slog.String("payment_transaction_id", entry.PaymentTransactionID))
	c.JSON(http.StatusOK, dto.ToPayrollEntryResponse(entry))
}

// cancelEntry godoc
// @Summary Cancel a payroll entry
// @Description Moves a draft or approved entry to CANCELLED; paid entries cannot be cancelled
// @Tags payroll
// @Produce json
// @Param id path string true "Payroll ID"
// @Success 200 {object} dto.PayrollEntryResponse
// @Failure 409 {object} map[string]string "Entry already paid"
// @Security BearerAuth
// @Router /payroll/{id}/cancel [post]
func (h *payrollHandler) cancelEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	entry, err := h.payrollService.Cancel(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to cancel payroll entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToPayrollEntryResponse(entry))
}

// payrollFilterFromQuery reads the shared listing/totals filter parameters.
func payrollFilterFromQuery(c *gin.Context) (portsrepo.ListPayrollFilter, bool) {
	var filter portsrepo.ListPayrollFilter
	filter.WorkerID = optionalQuery(c, "workerID")
	filter.ProjectID = optionalQuery(c, "projectID")
	if raw := c.Query("status"); raw != "" {
		status := domain.PayrollStatus(raw)
		filter.Status = &status
	}
	if from, ok := queryDate(c, "periodFrom", zeroTime); !ok {
		return filter, false
	} else if !from.IsZero() {
		filter.PeriodFrom = &from
	}
	if until, ok := queryDate(c, "periodUntil", zeroTime); !ok {
		return filter, false
	} else if !until.IsZero() {
		filter.PeriodUntil = &until
	}
	return filter, true
}
