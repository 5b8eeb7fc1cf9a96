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

// journalHandler handles HTTP requests for the append-only journal.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// registerJournalRoutes registers routes related to journal entries.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := &journalHandler{journalService: journalService}

	journal := rg.Group("/journal")
	{
		journal.POST("/entries", h.recordEntry)
		journal.GET("/entries/:id", h.getEntry)
		journal.GET("/entries", h.listEntries)
		journal.POST("/entries/:id/reverse", h.reverseEntry)
	}
}

// recordEntry godoc
// @Summary Record a journal entry
// @Description Appends a balanced debit/credit entry and applies its balance effects atomically
// @Tags journal
// @Accept json
// @Produce json
// @Param entry body dto.RecordEntryRequest true "Entry details"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Invalid input or same account on both sides"
// @Security BearerAuth
// @Router /journal/entries [post]
func (h *journalHandler) recordEntry(c *gin.Context) {
	var req dto.RecordEntryRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	date, err := req.ParsedDate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	entry, err := h.journalService.Record(c.Request.Context(), portssvc.RecordEntryInput{
		DebitAccountID:  req.DebitAccountID,
		CreditAccountID: req.CreditAccountID,
		Amount:          req.Amount,
		ReferenceType:   req.ReferenceType,
		ReferenceID:     req.ReferenceID,
		Date:            date,
		Description:     req.Description,
	}, userID)
	if err != nil {
		respondError(c, err, "Failed to record journal entry")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Journal entry recorded",
		slog.String("entry_id", entry.EntryID))
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry by ID
// @Tags journal
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /journal/entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	entry, err := h.journalService.GetEntryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Lists entries filtered by account, reference type and date range, newest first
// @Tags journal
// @Produce json
// @Param accountID query string false "Account on either side"
// @Param referenceType query string false "Reference type"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Security BearerAuth
// @Router /journal/entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	var filter portsrepo.ListJournalEntriesFilter
	filter.AccountID = optionalQuery(c, "accountID")
	if raw := c.Query("referenceType"); raw != "" {
		refType := domain.ReferenceType(raw)
		filter.ReferenceType = &refType
	}
	if from, ok := queryDate(c, "dateFrom", zeroTime); !ok {
		return
	} else if !from.IsZero() {
		filter.DateFrom = &from
	}
	if until, ok := queryDate(c, "dateTo", zeroTime); !ok {
		return
	} else if !until.IsZero() {
		filter.DateTo = &until
	}

	entries, nextToken, err := h.journalService.ListEntries(c.Request.Context(), filter, queryInt(c, "limit", 50), optionalQuery(c, "nextToken"))
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}

	resp := dto.ListJournalEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, 0, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries = append(resp.Entries, dto.ToJournalEntryResponse(&entries[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Appends a new entry swapping the original's debit and credit sides
// @Tags journal
// @Produce json
// @Param id path string true "Entry ID to reverse"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry already reversed"
// @Security BearerAuth
// @Router /journal/entries/{id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	entry, err := h.journalService.Reverse(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}
