package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
)

// LedgerService defines the methods of the application layer for the token
// balance ledger.
type LedgerService interface {
	BalanceOf(ctx context.Context, address string) (*domain.Account, error)
	TotalSupply(ctx context.Context) (*domain.Supply, error)
	ListAccounts(ctx context.Context, page *domain.Page) ([]domain.Account, error)
	Transfer(ctx context.Context, caller, to string, amount uint64) error
	Approve(ctx context.Context, caller, spender string, amount uint64) error
	Allowance(ctx context.Context, owner, spender string) (uint64, error)
	TransferFrom(
		ctx context.Context, caller, from, to string, amount uint64,
	) error
}

type ledgerService struct {
	repoManager ports.RepoManager
}

// NewLedgerService is a constructor function for LedgerService.
func NewLedgerService(repoManager ports.RepoManager) LedgerService {
	return &ledgerService{repoManager}
}

func (s *ledgerService) BalanceOf(
	ctx context.Context, address string,
) (*domain.Account, error) {
	if err := domain.ValidateAccount(address); err != nil {
		return nil, err
	}

	account, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.AccountRepository().GetAccount(ctx, address)
		},
	)
	if err != nil {
		return nil, err
	}
	return account.(*domain.Account), nil
}

func (s *ledgerService) TotalSupply(ctx context.Context) (*domain.Supply, error) {
	supply, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.AccountRepository().GetSupply(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	return supply.(*domain.Supply), nil
}

func (s *ledgerService) ListAccounts(
	ctx context.Context, page *domain.Page,
) ([]domain.Account, error) {
	accounts, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.AccountRepository().ListAccounts(ctx, page)
		},
	)
	if err != nil {
		return nil, err
	}
	return accounts.([]domain.Account), nil
}

func (s *ledgerService) Transfer(
	ctx context.Context, caller, to string, amount uint64,
) error {
	if err := validateTransfer(caller, to, amount); err != nil {
		return err
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, transfer(ctx, s.repoManager, caller, to, amount)
		},
	); err != nil {
		return err
	}

	log.Debugf("transferred %d from %s to %s", amount, caller, to)
	return nil
}

func (s *ledgerService) Approve(
	ctx context.Context, caller, spender string, amount uint64,
) error {
	allowance, err := domain.NewAllowance(caller, spender)
	if err != nil {
		return err
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, s.repoManager.AccountRepository().UpdateAllowance(
				ctx, allowance.Owner, allowance.Spender,
				func(a *domain.Allowance) (*domain.Allowance, error) {
					a.Set(amount)
					return a, nil
				},
			)
		},
	); err != nil {
		return err
	}

	log.Debugf("%s approved %d to %s", caller, amount, spender)
	return nil
}

func (s *ledgerService) Allowance(
	ctx context.Context, owner, spender string,
) (uint64, error) {
	if _, err := domain.NewAllowance(owner, spender); err != nil {
		return 0, err
	}

	allowance, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.AccountRepository().GetAllowance(
				ctx, owner, spender,
			)
		},
	)
	if err != nil {
		return 0, err
	}
	return allowance.(*domain.Allowance).Amount, nil
}

func (s *ledgerService) TransferFrom(
	ctx context.Context, caller, from, to string, amount uint64,
) error {
	if err := domain.ValidateAccount(caller); err != nil {
		return err
	}
	if err := validateTransfer(from, to, amount); err != nil {
		return err
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if err := s.repoManager.AccountRepository().UpdateAllowance(
				ctx, from, caller,
				func(a *domain.Allowance) (*domain.Allowance, error) {
					if err := a.Spend(amount); err != nil {
						return nil, err
					}
					return a, nil
				},
			); err != nil {
				return nil, err
			}
			return nil, transfer(ctx, s.repoManager, from, to, amount)
		},
	); err != nil {
		return err
	}

	log.Debugf("%s transferred %d from %s to %s", caller, amount, from, to)
	return nil
}
