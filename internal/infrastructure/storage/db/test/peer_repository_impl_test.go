package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/domain"
)

func TestPeerRepositoryImplementations(t *testing.T) {
	for _, repo := range createRepoManagers(t) {
		repo := repo
		t.Run(repo.Name, func(t *testing.T) {
			testUpsertPeer(t, repo)
		})
	}
}

func testUpsertPeer(t *testing.T, repo repoManager) {
	ctx := context.Background()
	peerRepo := repo.DBManager.PeerRepository()

	peer, err := peerRepo.GetPeer(ctx, baseSepolia)
	require.ErrorIs(t, err, domain.ErrPeerNotFound)
	require.Nil(t, peer)

	first, err := domain.NewPeer(baseSepolia, randomAddress())
	require.NoError(t, err)
	require.NoError(t, peerRepo.UpsertPeer(ctx, *first))

	second, err := domain.NewPeer(baseSepolia, randomAddress())
	require.NoError(t, err)
	require.NoError(t, peerRepo.UpsertPeer(ctx, *second))

	other, err := domain.NewPeer(sepolia, randomAddress())
	require.NoError(t, err)
	require.NoError(t, peerRepo.UpsertPeer(ctx, *other))

	peer, err = peerRepo.GetPeer(ctx, baseSepolia)
	require.NoError(t, err)
	require.Equal(t, second.Address, peer.Address)

	peers, err := peerRepo.ListPeers(ctx)
	require.NoError(t, err)
	require.Len(t, peers, 2)
	require.Equal(t, sepolia, peers[0].DomainID)
	require.Equal(t, baseSepolia, peers[1].DomainID)
}
