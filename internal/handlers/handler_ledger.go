package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/baki_khata/internal/core/ports/services"
	"github.com/SscSPs/baki_khata/internal/dto"
	"github.com/SscSPs/baki_khata/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves single-transaction writes and the ledger-wide views.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers the /ledger routes, customers included.
func registerLedgerRoutes(v1 *gin.RouterGroup, ls portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ls)
	ch := newCustomerHandler(ls)

	ledger := v1.Group("/ledger")
	{
		ledger.GET("/totals", h.getTotals)
		ledger.GET("/recent", h.listRecent)
		ledger.POST("/recent/clear", h.clearRecent)
		ledger.POST("/reload", h.reload)
		ledger.POST("/session/reset", h.resetSession)

		txns := ledger.Group("/transactions")
		{
			txns.POST("", h.createTransaction)
			txns.PATCH("/:transactionID", h.updateTransaction)
			txns.POST("/:transactionID/toggle-paid", h.toggleTransactionPaid)
			txns.DELETE("/:transactionID", h.deleteTransaction)
		}

		customers := ledger.Group("/customers")
		{
			customers.GET("", ch.listCustomers)
			customers.GET("/:customerName", ch.getCustomer)
			customers.DELETE("/:customerName/transactions", ch.deleteCustomerTransactions)
			customers.DELETE("/:customerName/transactions/paid", ch.deleteCustomerPaidTransactions)
			customers.POST("/:customerName/toggle-paid", ch.toggleCustomerPaid)
			customers.PUT("/:customerName/paid", ch.setCustomerPaid)
		}
	}
}

// createTransaction godoc
// @Summary Record a transaction
// @Description Adds a baki (lend) or dena (borrow) entry. The amount is a positive magnitude; the direction sets its sign.
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Backend rejected the write; nothing was kept"
// @Router /ledger/transactions [post]
func (h *ledgerHandler) createTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	txn, err := h.ledgerService.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Create transaction")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction created", slog.String("transaction_id", txn.ID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// updateTransaction godoc
// @Summary Update a transaction
// @Description Changes the amount, notes or direction of a transaction. Omitted fields are left as they are.
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transactionID path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /ledger/transactions/{transactionID} [patch]
func (h *ledgerHandler) updateTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	txn, err := h.ledgerService.UpdateTransaction(c.Request.Context(), userID, c.Param("transactionID"), req)
	if err != nil {
		respondError(c, err, "Update transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// toggleTransactionPaid godoc
// @Summary Toggle paid
// @Description Flips the paid flag of one transaction.
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /ledger/transactions/{transactionID}/toggle-paid [post]
func (h *ledgerHandler) toggleTransactionPaid(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	txn, err := h.ledgerService.ToggleTransactionPaid(c.Request.Context(), userID, c.Param("transactionID"))
	if err != nil {
		respondError(c, err, "Toggle paid")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Tags ledger
// @Security BearerAuth
// @Param transactionID path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /ledger/transactions/{transactionID} [delete]
func (h *ledgerHandler) deleteTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), userID, c.Param("transactionID")); err != nil {
		respondError(c, err, "Delete transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// getTotals godoc
// @Summary Ledger totals
// @Description Outstanding receivable and payable amounts across every customer.
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.LedgerTotalsResponse
// @Failure 401 {object} ErrorResponse
// @Router /ledger/totals [get]
func (h *ledgerHandler) getTotals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	totals, err := h.ledgerService.GetTotals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Get totals")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerTotalsResponse(totals))
}

// listRecent godoc
// @Summary Recent activity
// @Description Lists transactions not hidden from recent activity, newest first.
// @Tags ledger
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListRecentResponse
// @Failure 400 {object} ErrorResponse
// @Router /ledger/recent [get]
func (h *ledgerHandler) listRecent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListRecentParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	txns, nextToken, err := h.ledgerService.ListRecent(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "List recent activity")
		return
	}
	c.JSON(http.StatusOK, dto.ListRecentResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	})
}

// clearRecent godoc
// @Summary Clear recent activity
// @Description Hides the given transactions from recent activity. Balances are unchanged; unknown ids are ignored.
// @Tags ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ClearRecentRequest true "Transactions to hide"
// @Success 200 {object} dto.BulkResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "None of the ids exist"
// @Failure 502 {object} ErrorResponse
// @Router /ledger/recent/clear [post]
func (h *ledgerHandler) clearRecent(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.ClearRecentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	n, err := h.ledgerService.ClearRecent(c.Request.Context(), userID, req.TransactionIDs)
	if err != nil {
		respondError(c, err, "Clear recent activity")
		return
	}
	c.JSON(http.StatusOK, dto.BulkResult{Affected: n})
}

// reload godoc
// @Summary Reload the ledger
// @Description Replaces the in-memory ledger with the rows currently stored.
// @Tags ledger
// @Security BearerAuth
// @Success 204
// @Failure 500 {object} ErrorResponse
// @Router /ledger/reload [post]
func (h *ledgerHandler) reload(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.ledgerService.ReloadSession(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Reload ledger")
		return
	}
	c.Status(http.StatusNoContent)
}

// resetSession godoc
// @Summary Reset the ledger session
// @Description Drops the in-memory ledger, typically on logout. The next request loads it again.
// @Tags ledger
// @Security BearerAuth
// @Success 204
// @Router /ledger/session/reset [post]
func (h *ledgerHandler) resetSession(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	h.ledgerService.ResetSession(c.Request.Context(), userID)
	c.Status(http.StatusNoContent)
}
