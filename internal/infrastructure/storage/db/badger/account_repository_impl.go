package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
)

const supplyKey = "supply"

type accountRepositoryImpl struct {
	db *repoManager
}

func (r accountRepositoryImpl) GetAccount(
	ctx context.Context, address string,
) (*domain.Account, error) {
	var account *domain.Account
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) (err error) {
		account, err = r.getAccount(tx, address)
		return
	})
	return account, err
}

func (r accountRepositoryImpl) UpdateAccount(
	ctx context.Context,
	address string, updateFn func(a *domain.Account) (*domain.Account, error),
) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		account, err := r.getAccount(tx, address)
		if err != nil {
			return err
		}
		updated, err := updateFn(account)
		if err != nil {
			return err
		}
		return r.db.store.TxUpsert(tx, address, *updated)
	})
}

func (r accountRepositoryImpl) ListAccounts(
	ctx context.Context, page *domain.Page,
) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0)
	query := paged((&badgerhold.Query{}).SortBy("Address"), page)
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &accounts, query)
	})
	return accounts, err
}

func (r accountRepositoryImpl) GetAllowance(
	ctx context.Context, owner, spender string,
) (*domain.Allowance, error) {
	var allowance *domain.Allowance
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) (err error) {
		allowance, err = r.getAllowance(tx, owner, spender)
		return
	})
	return allowance, err
}

func (r accountRepositoryImpl) UpdateAllowance(
	ctx context.Context, owner, spender string,
	updateFn func(a *domain.Allowance) (*domain.Allowance, error),
) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		allowance, err := r.getAllowance(tx, owner, spender)
		if err != nil {
			return err
		}
		updated, err := updateFn(allowance)
		if err != nil {
			return err
		}
		return r.db.store.TxUpsert(tx, updated.Key(), *updated)
	})
}

func (r accountRepositoryImpl) GetSupply(ctx context.Context) (*domain.Supply, error) {
	var supply *domain.Supply
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) (err error) {
		supply, err = r.getSupply(tx)
		return
	})
	return supply, err
}

func (r accountRepositoryImpl) UpdateSupply(
	ctx context.Context, updateFn func(s *domain.Supply) (*domain.Supply, error),
) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		supply, err := r.getSupply(tx)
		if err != nil {
			return err
		}
		updated, err := updateFn(supply)
		if err != nil {
			return err
		}
		return r.db.store.TxUpsert(tx, supplyKey, *updated)
	})
}

func (r accountRepositoryImpl) getAccount(
	tx *badger.Txn, address string,
) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.store.TxGet(tx, address, &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return &domain.Account{Address: address}, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r accountRepositoryImpl) getAllowance(
	tx *badger.Txn, owner, spender string,
) (*domain.Allowance, error) {
	var allowance domain.Allowance
	key := domain.AllowanceKey(owner, spender)
	if err := r.db.store.TxGet(tx, key, &allowance); err != nil {
		if err == badgerhold.ErrNotFound {
			return &domain.Allowance{Owner: owner, Spender: spender}, nil
		}
		return nil, err
	}
	return &allowance, nil
}

func (r accountRepositoryImpl) getSupply(tx *badger.Txn) (*domain.Supply, error) {
	var supply domain.Supply
	if err := r.db.store.TxGet(tx, supplyKey, &supply); err != nil {
		if err == badgerhold.ErrNotFound {
			return &domain.Supply{}, nil
		}
		return nil, err
	}
	return &supply, nil
}
