package inmemory

import (
	"context"

	"github.com/zakoken/zkkd/internal/core/domain"
)

type accountRepositoryImpl struct {
	db *repoManager
}

func (r accountRepositoryImpl) GetAccount(
	ctx context.Context, address string,
) (*domain.Account, error) {
	var account *domain.Account
	err := r.db.read(ctx, func(s *state) error {
		account = getAccount(s, address)
		return nil
	})
	return account, err
}

func (r accountRepositoryImpl) UpdateAccount(
	ctx context.Context,
	address string, updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	return r.db.write(ctx, func(s *state) error {
		updated, err := updateFn(getAccount(s, address))
		if err != nil {
			return err
		}
		s.accounts[address] = *updated
		return nil
	})
}

func (r accountRepositoryImpl) ListAccounts(
	ctx context.Context, page *domain.Page,
) ([]domain.Account, error) {
	var accounts []domain.Account
	err := r.db.read(ctx, func(s *state) error {
		keys := sortedKeys(s.accounts)
		start, end := paginate(len(keys), page)
		accounts = make([]domain.Account, 0, end-start)
		for _, k := range keys[start:end] {
			accounts = append(accounts, s.accounts[k])
		}
		return nil
	})
	return accounts, err
}

func (r accountRepositoryImpl) GetAllowance(
	ctx context.Context, owner, spender string,
) (*domain.Allowance, error) {
	var allowance *domain.Allowance
	err := r.db.read(ctx, func(s *state) error {
		allowance = getAllowance(s, owner, spender)
		return nil
	})
	return allowance, err
}

func (r accountRepositoryImpl) UpdateAllowance(
	ctx context.Context, owner, spender string,
	updateFn func(a *domain.Allowance) (*domain.Allowance, error),
) error {
	return r.db.write(ctx, func(s *state) error {
		updated, err := updateFn(getAllowance(s, owner, spender))
		if err != nil {
			return err
		}
		s.allowances[updated.Key()] = *updated
		return nil
	})
}

func (r accountRepositoryImpl) GetSupply(ctx context.Context) (*domain.Supply, error) {
	var supply domain.Supply
	err := r.db.read(ctx, func(s *state) error {
		supply = s.supply
		return nil
	})
	return &supply, err
}

func (r accountRepositoryImpl) UpdateSupply(
	ctx context.Context, updateFn func(s *domain.Supply) (*domain.Supply, error),
) error {
	return r.db.write(ctx, func(s *state) error {
		supply := s.supply
		updated, err := updateFn(&supply)
		if err != nil {
			return err
		}
		s.supply = *updated
		return nil
	})
}

func getAccount(s *state, address string) *domain.Account {
	if account, ok := s.accounts[address]; ok {
		return &account
	}
	return &domain.Account{Address: address}
}

func getAllowance(s *state, owner, spender string) *domain.Allowance {
	if allowance, ok := s.allowances[domain.AllowanceKey(owner, spender)]; ok {
		return &allowance
	}
	return &domain.Allowance{Owner: owner, Spender: spender}
}
