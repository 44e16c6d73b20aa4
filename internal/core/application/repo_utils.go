package application

import (
	"context"

	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
)

// The helpers below are the only places where account balances and supply
// counters change. They must run inside a write transaction of repoManager.

// credit adds amount to the balance of address.
func credit(
	ctx context.Context, repoManager ports.RepoManager,
	address string, amount uint64,
) error {
	return repoManager.AccountRepository().UpdateAccount(
		ctx, address, func(a *domain.Account) (*domain.Account, error) {
			if err := a.Credit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

// debit subtracts amount from the balance of address.
func debit(
	ctx context.Context, repoManager ports.RepoManager,
	address string, amount uint64,
) error {
	return repoManager.AccountRepository().UpdateAccount(
		ctx, address, func(a *domain.Account) (*domain.Account, error) {
			if err := a.Debit(amount); err != nil {
				return nil, err
			}
			return a, nil
		},
	)
}

// transfer moves amount from one account to another. A self transfer leaves
// the balance untouched but still requires it to cover amount.
func transfer(
	ctx context.Context, repoManager ports.RepoManager,
	from, to string, amount uint64,
) error {
	if from == to {
		return repoManager.AccountRepository().UpdateAccount(
			ctx, from, func(a *domain.Account) (*domain.Account, error) {
				if err := a.Debit(amount); err != nil {
					return nil, err
				}
				if err := a.Credit(amount); err != nil {
					return nil, err
				}
				return a, nil
			},
		)
	}
	if err := debit(ctx, repoManager, from, amount); err != nil {
		return err
	}
	return credit(ctx, repoManager, to, amount)
}

// updateSupply applies fn to the supply counters.
func updateSupply(
	ctx context.Context, repoManager ports.RepoManager,
	fn func(s *domain.Supply) error,
) error {
	return repoManager.AccountRepository().UpdateSupply(
		ctx, func(s *domain.Supply) (*domain.Supply, error) {
			if err := fn(s); err != nil {
				return nil, err
			}
			return s, nil
		},
	)
}
