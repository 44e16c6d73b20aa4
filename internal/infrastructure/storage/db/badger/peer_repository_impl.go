package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/timshannon/badgerhold/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
)

type peerRepositoryImpl struct {
	db *repoManager
}

func (r peerRepositoryImpl) GetPeer(
	ctx context.Context, domainID uint32,
) (*domain.Peer, error) {
	var peer domain.Peer
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) error {
		if err := r.db.store.TxGet(tx, domainID, &peer); err != nil {
			if err == badgerhold.ErrNotFound {
				return domain.ErrPeerNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &peer, nil
}

func (r peerRepositoryImpl) UpsertPeer(ctx context.Context, peer domain.Peer) error {
	return r.db.withTx(ctx, true, func(tx *badger.Txn) error {
		return r.db.store.TxUpsert(tx, peer.DomainID, peer)
	})
}

func (r peerRepositoryImpl) ListPeers(ctx context.Context) ([]domain.Peer, error) {
	peers := make([]domain.Peer, 0)
	query := (&badgerhold.Query{}).SortBy("DomainID")
	err := r.db.withTx(ctx, false, func(tx *badger.Txn) error {
		return r.db.store.TxFind(tx, &peers, query)
	})
	return peers, err
}
