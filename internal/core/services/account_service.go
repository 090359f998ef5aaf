package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/baki_khata/internal/apperrors"
	"github.com/SscSPs/baki_khata/internal/core/domain"
	portsrepo "github.com/SscSPs/baki_khata/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/baki_khata/internal/core/ports/services"
)

const accountRecordWarning = "ledger data was deleted but the account record could not be removed; contact support"

// accountService tears down a user's account: ledger first, then the user record.
type accountService struct {
	BaseService
	ledger   portssvc.LedgerSvcFacade
	userRepo portsrepo.UserRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(ledgerSvc portssvc.LedgerSvcFacade, userRepo portsrepo.UserRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{ledger: ledgerSvc, userRepo: userRepo}
}

// DeleteAccount wipes every transaction and then deletes the user. When the
// ledger wipe fails the user is kept and the error returned. When only the
// user deletion fails the result carries a warning; the ledger is not restored.
func (s *accountService) DeleteAccount(ctx context.Context, userID string) (*domain.AccountDeletion, error) {
	if userID == "" {
		return nil, apperrors.ErrNoSession
	}

	deleted, err := s.ledger.DeleteAllTransactions(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Account deletion aborted: ledger wipe failed", slog.String("user_id", userID))
		return nil, err
	}

	result := &domain.AccountDeletion{TransactionsDeleted: deleted}
	if err := s.userRepo.DeleteUser(ctx, userID); err != nil {
		s.LogError(ctx, err, "Ledger wiped but user record deletion failed", slog.String("user_id", userID))
		result.Warning = accountRecordWarning
	} else {
		result.AccountDeleted = true
	}

	s.ledger.ResetSession(ctx, userID)
	s.LogInfo(ctx, "Account deleted",
		slog.String("user_id", userID),
		slog.Int("transactions_deleted", deleted),
		slog.Bool("account_deleted", result.AccountDeleted))
	return result, nil
}
