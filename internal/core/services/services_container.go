package services

import (
	"github.com/SscSPs/baki_khata/internal/core/ledger"
	portsrepo "github.com/SscSPs/baki_khata/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/baki_khata/internal/core/ports/services"
	"github.com/SscSPs/baki_khata/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, opts ...ledger.SessionOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	if cfg.LedgerQueueSize > 0 {
		opts = append([]ledger.SessionOption{ledger.WithQueueSize(cfg.LedgerQueueSize)}, opts...)
	}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)
	container.Ledger = NewLedgerService(repos.TransactionRepo, opts...)
	// Account deletion drives the ledger service so the session is wiped and dropped with the data.
	container.Account = NewAccountService(container.Ledger, repos.UserRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.UserSvcFacade    = (*userService)(nil)
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.TokenSvcFacade   = (*tokenService)(nil)
)
