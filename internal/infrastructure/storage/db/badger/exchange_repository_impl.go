package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
)

const (
	vaultKey    = "vault"
	exchangeKey = "exchange"
)

type vaultRepositoryImpl struct {
	db *repoManager
}

func (r vaultRepositoryImpl) AddVault(ctx context.Context, vault domain.Vault) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		if err := r.db.store.TxInsert(tx, vaultKey, vault); err != nil &&
			err != badgerhold.ErrKeyExists {
			return err
		}
		return nil
	})
}

func (r vaultRepositoryImpl) GetVault(ctx context.Context) (*domain.Vault, error) {
	var vault *domain.Vault
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) (err error) {
		vault, err = r.getVault(tx)
		return
	})
	return vault, err
}

func (r vaultRepositoryImpl) UpdateVault(
	ctx context.Context, updateFn func(v *domain.Vault) (*domain.Vault, error),
) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		vault, err := r.getVault(tx)
		if err != nil {
			return err
		}
		updated, err := updateFn(vault)
		if err != nil {
			return err
		}
		return r.db.store.TxUpdate(tx, vaultKey, *updated)
	})
}

func (r vaultRepositoryImpl) getVault(tx *badger.Txn) (*domain.Vault, error) {
	var vault domain.Vault
	if err := r.db.store.TxGet(tx, vaultKey, &vault); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrVaultNotFound
		}
		return nil, err
	}
	return &vault, nil
}

type exchangeRepositoryImpl struct {
	db *repoManager
}

func (r exchangeRepositoryImpl) AddExchange(
	ctx context.Context, exchange domain.Exchange,
) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		if err := r.db.store.TxInsert(tx, exchangeKey, exchange); err != nil &&
			err != badgerhold.ErrKeyExists {
			return err
		}
		return nil
	})
}

func (r exchangeRepositoryImpl) GetExchange(
	ctx context.Context,
) (*domain.Exchange, error) {
	var exchange *domain.Exchange
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) (err error) {
		exchange, err = r.getExchange(tx)
		return
	})
	return exchange, err
}

func (r exchangeRepositoryImpl) UpdateExchange(
	ctx context.Context, updateFn func(e *domain.Exchange) (*domain.Exchange, error),
) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		exchange, err := r.getExchange(tx)
		if err != nil {
			return err
		}
		updated, err := updateFn(exchange)
		if err != nil {
			return err
		}
		return r.db.store.TxUpdate(tx, exchangeKey, *updated)
	})
}

func (r exchangeRepositoryImpl) AddRedemption(
	ctx context.Context, redemption domain.Redemption,
) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		return r.db.store.TxInsert(tx, redemption.ID, redemption)
	})
}

func (r exchangeRepositoryImpl) ListRedemptions(
	ctx context.Context, account string, page *domain.Page,
) ([]domain.Redemption, error) {
	query := &badgerhold.Query{}
	if len(account) > 0 {
		query = badgerhold.Where("Requester").Eq(account).
			Or(badgerhold.Where("Recipient").Eq(account))
	}
	query = paged(query.SortBy("Timestamp", "ID"), page)

	redemptions := make([]domain.Redemption, 0)
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &redemptions, query)
	})
	return redemptions, err
}

func (r exchangeRepositoryImpl) getExchange(tx *badger.Txn) (*domain.Exchange, error) {
	var exchange domain.Exchange
	if err := r.db.store.TxGet(tx, exchangeKey, &exchange); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrExchangeNotFound
		}
		return nil, err
	}
	return &exchange, nil
}
