package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/baki_khata/internal/core/ports/services"
	"github.com/SscSPs/baki_khata/internal/dto"
	"github.com/SscSPs/baki_khata/internal/middleware"
	"github.com/SscSPs/baki_khata/internal/utils"
	"github.com/gin-gonic/gin"
)

type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	posthogClient  *utils.PosthogClientWrapper
}

func registerAccountRoutes(v1 *gin.RouterGroup, as portssvc.AccountSvcFacade, posthogClient *utils.PosthogClientWrapper) {
	h := &accountHandler{accountService: as, posthogClient: posthogClient}
	v1.DELETE("/account", h.deleteAccount)
}

// deleteAccount godoc
// @Summary Delete account
// @Description Deletes every ledger transaction and then the account itself. When only the account record could not be removed the response is still 200 with a warning.
// @Tags account
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.AccountDeletionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Ledger could not be wiped; the account was kept"
// @Router /account [delete]
func (h *accountHandler) deleteAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.accountService.DeleteAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Delete account")
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if result.Warning != "" {
		logger.Warn("Account deleted with warning", slog.String("warning", result.Warning))
	} else {
		logger.Info("Account deleted", slog.Int("transactions_deleted", result.TransactionsDeleted))
	}
	middleware.PosthogEvent(c, h.posthogClient, "account_deleted", map[string]any{
		"transactions_deleted": result.TransactionsDeleted,
		"account_deleted":      result.AccountDeleted,
	})

	c.JSON(http.StatusOK, dto.AccountDeletionResponse{
		TransactionsDeleted: result.TransactionsDeleted,
		AccountDeleted:      result.AccountDeleted,
		Warning:             result.Warning,
	})
}
