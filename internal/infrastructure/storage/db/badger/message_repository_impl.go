package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
)

type messageRepositoryImpl struct {
	db *repoManager
}

func (r messageRepositoryImpl) AddMessage(
	ctx context.Context, message domain.Message,
) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		if err := r.db.store.TxInsert(tx, message.Key(), message); err != nil {
			if err == badgerhold.ErrKeyExists {
				return domain.ErrMessageReplayed
			}
			return err
		}
		return nil
	})
}

func (r messageRepositoryImpl) GetMessage(
	ctx context.Context, direction domain.MessageDirection, id string,
) (*domain.Message, error) {
	var message *domain.Message
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) (err error) {
		message, err = r.getMessage(tx, domain.MessageKey(direction, id))
		return
	})
	return message, err
}

func (r messageRepositoryImpl) UpdateMessage(
	ctx context.Context, direction domain.MessageDirection, id string,
	updateFn func(m *domain.Message) (*domain.Message, error),
) error {
	key := domain.MessageKey(direction, id)
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		message, err := r.getMessage(tx, key)
		if err != nil {
			return err
		}
		updated, err := updateFn(message)
		if err != nil {
			return err
		}
		return r.db.store.TxUpdate(tx, key, *updated)
	})
}

func (r messageRepositoryImpl) GetPendingMessages(
	ctx context.Context, limit int,
) ([]domain.Message, error) {
	query := badgerhold.Where("Direction").Eq(domain.MessageOutbound).
		And("Status").Eq(domain.MessagePending).
		SortBy("CreatedAt", "ID")
	if limit > 0 {
		query = query.Limit(limit)
	}

	messages := make([]domain.Message, 0)
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &messages, query)
	})
	return messages, err
}

func (r messageRepositoryImpl) ListMessages(
	ctx context.Context, direction domain.MessageDirection, page *domain.Page,
) ([]domain.Message, error) {
	query := paged(
		badgerhold.Where("Direction").Eq(direction).SortBy("CreatedAt", "ID"),
		page,
	)

	messages := make([]domain.Message, 0)
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &messages, query)
	})
	return messages, err
}

func (r messageRepositoryImpl) getMessage(
	tx *badger.Txn, key string,
) (*domain.Message, error) {
	var message domain.Message
	if err := r.db.store.TxGet(tx, key, &message); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrMessageNotFound
		}
		return nil, err
	}
	return &message, nil
}
