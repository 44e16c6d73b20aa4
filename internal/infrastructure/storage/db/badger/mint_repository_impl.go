package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
)

type mintRepositoryImpl struct {
	db *repoManager
}

func (r mintRepositoryImpl) AddMintRecord(
	ctx context.Context, record domain.MintRecord,
) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		if err := r.db.store.TxInsert(tx, record.ExternalRef, record); err != nil {
			if err == badgerhold.ErrKeyExists {
				return domain.ErrReplayRejected
			}
			return err
		}
		return nil
	})
}

func (r mintRepositoryImpl) GetMintRecord(
	ctx context.Context, externalRef string,
) (*domain.MintRecord, error) {
	var record domain.MintRecord
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) error {
		if err := r.db.store.TxGet(tx, externalRef, &record); err != nil {
			if err == badgerhold.ErrNotFound {
				return domain.ErrMintRecordNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r mintRepositoryImpl) ListMintRecords(
	ctx context.Context, tag string, page *domain.Page,
) ([]domain.MintRecord, error) {
	query := &badgerhold.Query{}
	if len(tag) > 0 {
		query = badgerhold.Where("Tag").Eq(tag)
	}
	query = paged(query.SortBy("Timestamp", "ExternalRef"), page)

	records := make([]domain.MintRecord, 0)
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &records, query)
	})
	return records, err
}
