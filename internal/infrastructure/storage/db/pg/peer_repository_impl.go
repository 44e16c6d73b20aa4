package postgresdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/zakoken/zkkd/internal/core/domain"
)

const (
	selectPeer = `SELECT domain_id, address, updated_at FROM peer WHERE domain_id = $1`
	upsertPeer = `INSERT INTO peer (domain_id, address, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (domain_id) DO UPDATE
SET address = EXCLUDED.address, updated_at = EXCLUDED.updated_at`
	listPeers = `SELECT domain_id, address, updated_at FROM peer ORDER BY domain_id`
)

type peerRepositoryImpl struct {
	db *repoManager
}

func (r peerRepositoryImpl) GetPeer(
	ctx context.Context, domainID uint32,
) (*domain.Peer, error) {
	peer, err := scanPeer(
		r.db.querier(ctx).QueryRow(ctx, selectPeer, int64(domainID)),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPeerNotFound
		}
		return nil, err
	}
	return peer, nil
}

func (r peerRepositoryImpl) UpsertPeer(ctx context.Context, peer domain.Peer) error {
	return r.db.inTx(ctx, func(q querier) error {
		_, err := q.Exec(
			ctx, upsertPeer, int64(peer.DomainID), peer.Address, peer.UpdatedAt,
		)
		return err
	})
}

func (r peerRepositoryImpl) ListPeers(ctx context.Context) ([]domain.Peer, error) {
	rows, err := r.db.querier(ctx).Query(ctx, listPeers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	peers := make([]domain.Peer, 0)
	for rows.Next() {
		peer, err := scanPeer(rows)
		if err != nil {
			return nil, err
		}
		peers = append(peers, *peer)
	}
	return peers, rows.Err()
}

func scanPeer(row pgx.Row) (*domain.Peer, error) {
	var peer domain.Peer
	var domainID int64
	if err := row.Scan(&domainID, &peer.Address, &peer.UpdatedAt); err != nil {
		return nil, err
	}
	peer.DomainID = uint32(domainID)
	return &peer, nil
}
