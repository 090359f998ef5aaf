package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/baki_khata/internal/core/ports/services"
	"github.com/SscSPs/baki_khata/internal/dto"
	"github.com/SscSPs/baki_khata/internal/middleware"
	"github.com/gin-gonic/gin"
)

// customerHandler serves the per-customer views and bulk operations.
// Customer names in the path are matched case-insensitively after trimming.
type customerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newCustomerHandler(ls portssvc.LedgerSvcFacade) *customerHandler {
	return &customerHandler{ledgerService: ls}
}

// listCustomers godoc
// @Summary List customers
// @Description Groups the ledger by customer with balances.
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param sort query string false "recent, name or balance" default(recent)
// @Param direction query string false "Only lend or only borrow rows"
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 400 {object} ErrorResponse
// @Router /ledger/customers [get]
func (h *customerHandler) listCustomers(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var params dto.ListCustomersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		bindError(c, err)
		return
	}

	summaries, err := h.ledgerService.ListCustomers(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "List customers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCustomersResponse(summaries))
}

// getCustomer godoc
// @Summary Get a customer
// @Description Returns one customer's transactions, newest first, with totals.
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param customerName path string true "Customer name"
// @Success 200 {object} dto.CustomerSummaryResponse
// @Failure 404 {object} ErrorResponse
// @Router /ledger/customers/{customerName} [get]
func (h *customerHandler) getCustomer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, totals, err := h.ledgerService.GetCustomer(c.Request.Context(), userID, c.Param("customerName"))
	if err != nil {
		respondError(c, err, "Get customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerSummaryResponse(summary, *totals, true))
}

// deleteCustomerTransactions godoc
// @Summary Delete a customer
// @Description Removes every transaction of the customer.
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param customerName path string true "Customer name"
// @Success 200 {object} dto.BulkResult
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /ledger/customers/{customerName}/transactions [delete]
func (h *customerHandler) deleteCustomerTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	n, err := h.ledgerService.DeleteCustomerTransactions(c.Request.Context(), userID, c.Param("customerName"))
	if err != nil {
		respondError(c, err, "Delete customer")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Customer transactions deleted", slog.Int("count", n))
	c.JSON(http.StatusOK, dto.BulkResult{Affected: n})
}

// deleteCustomerPaidTransactions godoc
// @Summary Delete paid transactions
// @Description Removes the customer's paid transactions and keeps the unpaid ones.
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param customerName path string true "Customer name"
// @Success 200 {object} dto.BulkResult
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /ledger/customers/{customerName}/transactions/paid [delete]
func (h *customerHandler) deleteCustomerPaidTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	n, err := h.ledgerService.DeleteCustomerPaidTransactions(c.Request.Context(), userID, c.Param("customerName"))
	if err != nil {
		respondError(c, err, "Delete paid transactions")
		return
	}
	c.JSON(http.StatusOK, dto.BulkResult{Affected: n})
}

// toggleCustomerPaid godoc
// @Summary Toggle a customer's paid state
// @Description Marks every transaction paid, or every transaction unpaid when all of them already are.
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param customerName path string true "Customer name"
// @Success 200 {object} dto.BulkResult
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /ledger/customers/{customerName}/toggle-paid [post]
func (h *customerHandler) toggleCustomerPaid(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	paid, n, err := h.ledgerService.ToggleCustomerPaid(c.Request.Context(), userID, c.Param("customerName"))
	if err != nil {
		respondError(c, err, "Toggle customer paid")
		return
	}
	c.JSON(http.StatusOK, dto.BulkResult{Affected: n, IsPaid: &paid})
}

// setCustomerPaid godoc
// @Summary Set a customer's paid state
// @Description Forces the paid flag on every transaction of the customer.
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customerName path string true "Customer name"
// @Param request body dto.SetCustomerPaidRequest true "Paid flag"
// @Success 200 {object} dto.BulkResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /ledger/customers/{customerName}/paid [put]
func (h *customerHandler) setCustomerPaid(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.SetCustomerPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	n, err := h.ledgerService.SetCustomerPaid(c.Request.Context(), userID, c.Param("customerName"), *req.IsPaid)
	if err != nil {
		respondError(c, err, "Set customer paid")
		return
	}
	c.JSON(http.StatusOK, dto.BulkResult{Affected: n, IsPaid: req.IsPaid})
}
