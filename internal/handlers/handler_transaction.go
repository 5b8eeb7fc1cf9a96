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

// transactionHandler handles HTTP requests for the transaction lifecycle.
type transactionHandler struct {
	txnService portssvc.TransactionSvcFacade
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, txnService portssvc.TransactionSvcFacade) {
	h := &transactionHandler{txnService: txnService}

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.submitTransaction)
		transactions.GET("/:id", h.getTransaction)
		transactions.GET("", h.listTransactions)
		transactions.POST("/:id/clear", h.clearTransaction)
		transactions.POST("/:id/void", h.voidTransaction)
	}
}

// submitTransaction godoc
// @Summary Submit a transaction
// @Description Records a transaction intent in PENDING state; with autoClear it is cleared in the same call
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.SubmitTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Security BearerAuth
// @Router /transactions [post]
func (h *transactionHandler) submitTransaction(c *gin.Context) {
	var req dto.SubmitTransactionRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	txn, err := h.txnService.Submit(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "Failed to submit transaction")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction submitted",
		slog.String("transaction_id", txn.TransactionID), slog.String("status", string(txn.Status)))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.txnService.GetTransactionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Lists transactions filtered by account, project, worker, status and date range, newest first
// @Tags transactions
// @Produce json
// @Param accountID query string false "Account on either side"
// @Param projectID query string false "Project tag"
// @Param workerID query string false "Worker tag"
// @Param status query string false "Lifecycle status"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Param limit query int false "Page size"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var filter portsrepo.ListTransactionsFilter
	filter.AccountID = optionalQuery(c, "accountID")
	filter.ProjectID = optionalQuery(c, "projectID")
	filter.WorkerID = optionalQuery(c, "workerID")
	if raw := c.Query("status"); raw != "" {
		status := domain.TransactionStatus(raw)
		filter.Status = &status
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

	txns, nextToken, err := h.txnService.ListTransactions(c.Request.Context(), filter, queryInt(c, "limit", 50), optionalQuery(c, "nextToken"))
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	resp := dto.ListTransactionsResponse{
		Transactions: make([]dto.TransactionResponse, 0, len(txns)),
		NextToken:    nextToken,
	}
	for i := range txns {
		resp.Transactions = append(resp.Transactions, dto.ToTransactionResponse(&txns[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// clearTransaction godoc
// @Summary Clear a pending transaction
// @Description Commits the balance effects and journal entry of a pending transaction atomically
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction is not pending"
// @Security BearerAuth
// @Router /transactions/{id}/clear [post]
func (h *transactionHandler) clearTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	txn, err := h.txnService.Clear(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to clear transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// voidTransaction godoc
// @Summary Void a transaction
// @Description Cancels a pending transaction, or reverses a cleared one with an inverse journal entry
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Transaction already void"
// @Security BearerAuth
// @Router /transactions/{id}/void [post]
func (h *transactionHandler) voidTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	txn, err := h.txnService.Void(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondError(c, err, "Failed to void transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
