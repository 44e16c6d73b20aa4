package inmemory

import (
	"context"
	"sort"

	"github.com/zakoken/zkkd/internal/core/domain"
)

type peerRepositoryImpl struct {
	db *repoManager
}

func (r peerRepositoryImpl) GetPeer(
	ctx context.Context, domainID uint32,
) (*domain.Peer, error) {
	var peer *domain.Peer
	err := r.db.read(ctx, func(s *state) error {
		p, ok := s.peers[domainID]
		if !ok {
			return domain.ErrPeerNotFound
		}
		peer = &p
		return nil
	})
	return peer, err
}

func (r peerRepositoryImpl) UpsertPeer(ctx context.Context, peer domain.Peer) error {
	return r.db.write(ctx, func(s *state) error {
		s.peers[peer.DomainID] = peer
		return nil
	})
}

func (r peerRepositoryImpl) ListPeers(ctx context.Context) ([]domain.Peer, error) {
	var peers []domain.Peer
	err := r.db.read(ctx, func(s *state) error {
		peers = make([]domain.Peer, 0, len(s.peers))
		for _, p := range s.peers {
			peers = append(peers, p)
		}
		sort.SliceStable(peers, func(i, j int) bool {
			return peers[i].DomainID < peers[j].DomainID
		})
		return nil
	})
	return peers, err
}
