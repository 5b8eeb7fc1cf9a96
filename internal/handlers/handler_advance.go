package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/buildbooks/build_books_app/internal/core/ports/repositories"
	portssvc "github.com/buildbooks/build_books_app/internal/core/ports/services"
	"github.com/buildbooks/build_books_app/internal/dto"
	"github.com/buildbooks/build_books_app/internal/middleware"
)

// advanceHandler handles HTTP requests for worker salary advances.
type advanceHandler struct {
	advanceService portssvc.AdvanceSvcFacade
}

// registerAdvanceRoutes registers routes related to worker advances.
func registerAdvanceRoutes(rg *gin.RouterGroup, advanceService portssvc.AdvanceSvcFacade) {
	h := &advanceHandler{advanceService: advanceService}

	advances := rg.Group("/advances")
	{
		advances.POST("", h.recordAdvance)
		advances.GET("/:id", h.getAdvance)
		advances.GET("", h.listAdvances)
		advances.POST("/:id/settle", h.settleAdvance)
	}
	rg.GET("/workers/:id/outstanding", h.workerOutstanding)
}

// recordAdvance godoc
// @Summary Record a worker advance
// @Description Registers a salary advance, optionally disbursing it from a cash account in the same call
// @Tags advances
// @Accept json
// @Produce json
// @Param advance body dto.RecordAdvanceRequest true "Advance details"
// @Success 201 {object} dto.AdvanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Worker not found"
// @Security BearerAuth
// @Router /advances [post]
func (h *advanceHandler) recordAdvance(c *gin.Context) {
	var req dto.RecordAdvanceRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	advance, err := h.advanceService.RecordAdvance(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to record advance")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Advance recorded",
		slog.String("advance_id", advance.AdvanceID), slog.String("worker_id", advance.WorkerID))
	c.JSON(http.StatusCreated, dto.ToAdvanceResponse(advance))
}

// getAdvance godoc
// @Summary Get an advance by ID
// @Tags advances
// @Produce json
// @Param id path string true "Advance ID"
// @Success 200 {object} dto.AdvanceResponse
// @Failure 404 {object} map[string]string "Advance not found"
// @Security BearerAuth
// @Router /advances/{id} [get]
func (h *advanceHandler) getAdvance(c *gin.Context) {
	advance, err := h.advanceService.GetAdvanceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve advance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvanceResponse(advance))
}

// listAdvances godoc
// @Summary List advances
// @Description Lists advances filtered by worker and outstanding state, newest first
// @Tags advances
// @Produce json
// @Param workerID query string false "Worker ID"
// @Param outstandingOnly query bool false "Only advances with an unsettled remainder"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListAdvancesResponse
// @Security BearerAuth
// @Router /advances [get]
func (h *advanceHandler) listAdvances(c *gin.Context) {
	filter := portsrepo.ListAdvancesFilter{
		WorkerID:        optionalQuery(c, "workerID"),
		OutstandingOnly: c.Query("outstandingOnly") == "true",
	}

	advances, err := h.advanceService.ListAdvances(c.Request.Context(), filter, queryInt(c, "limit", 50), queryInt(c, "offset", 0))
	if err != nil {
		respondError(c, err, "Failed to list advances")
		return
	}

	resp := dto.ListAdvancesResponse{Advances: make([]dto.AdvanceResponse, 0, len(advances))}
	for i := range advances {
		resp.Advances = append(resp.Advances, dto.ToAdvanceResponse(&advances[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// settleAdvance godoc
// @Summary Settle part of an advance
// @Description Applies an amount against the advance; settling beyond the outstanding remainder fails
// @Tags advances
// @Accept json
// @Produce json
// @Param id path string true "Advance ID"
// @Param settlement body dto.SettleAdvanceRequest true "Settlement details"
// @Success 200 {object} dto.AdvanceResponse
// @Failure 404 {object} map[string]string "Advance not found"
// @Failure 409 {object} map[string]string "Amount exceeds outstanding remainder"
// @Security BearerAuth
// @Router /advances/{id}/settle [post]
func (h *advanceHandler) settleAdvance(c *gin.Context) {
	var req dto.SettleAdvanceRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	advance, err := h.advanceService.Settle(c.Request.Context(), c.Param("id"), req.Amount, req.SettlementTransactionID, date, userID)
	if err != nil {
		respondError(c, err, "Failed to settle advance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAdvanceResponse(advance))
}

// workerOutstanding godoc
// @Summary Get a worker's outstanding advance total
// @Tags advances
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} dto.OutstandingResponse
// @Security BearerAuth
// @Router /workers/{id}/outstanding [get]
func (h *advanceHandler) workerOutstanding(c *gin.Context) {
	workerID := c.Param("id")
	outstanding, err := h.advanceService.OutstandingForWorker(c.Request.Context(), workerID)
	if err != nil {
		respondError(c, err, "Failed to compute outstanding amount")
		return
	}
	c.JSON(http.StatusOK, dto.OutstandingResponse{WorkerID: workerID, Outstanding: outstanding})
}
