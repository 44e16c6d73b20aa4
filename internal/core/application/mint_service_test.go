package application_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/domain"
)

func TestMintWithCompose(t *testing.T) {
	t.Run("double mint", func(t *testing.T) {
		n := newNode(t, sepolia, sepoliaToken)

		record, err := n.mint.MintWithCompose(ctx, operator, "alice", 100, "tx1", "")
		require.NoError(t, err)
		require.Equal(t, tag, record.Tag)
		require.Equal(t, uint64(100), n.balanceOf(t, "alice"))

		record, err = n.mint.MintWithCompose(ctx, operator, "alice", 100, "tx1", "")
		require.ErrorIs(t, err, domain.ErrReplayRejected)
		require.Nil(t, record)
		require.Equal(t, uint64(100), n.balanceOf(t, "alice"))

		supply, err := n.ledger.TotalSupply(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(100), supply.Total())
		require.Equal(t, uint64(100), supply.Minted)

		stored, err := n.mint.GetMintRecord(ctx, "tx1")
		require.NoError(t, err)
		require.True(t, stored.Consumed)
		require.Equal(t, "alice", stored.Recipient)
	})

	t.Run("concurrent duplicates", func(t *testing.T) {
		n := newNode(t, sepolia, sepoliaToken)

		var wg sync.WaitGroup
		var lock sync.Mutex
		succeeded, rejected := 0, 0
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := n.mint.MintWithCompose(
					ctx, attester, "bob", 50, "tx-concurrent", "campaign",
				)
				lock.Lock()
				defer lock.Unlock()
				if err == nil {
					succeeded++
					return
				}
				if errors.Is(err, domain.ErrReplayRejected) {
					rejected++
				}
			}()
		}
		wg.Wait()

		require.Equal(t, 1, succeeded)
		require.Equal(t, 19, rejected)
		require.Equal(t, uint64(50), n.balanceOf(t, "bob"))
		n.requireSupplyMatchesBalances(t)
	})

	t.Run("unauthorized", func(t *testing.T) {
		n := newNode(t, sepolia, sepoliaToken)

		_, err := n.mint.MintWithCompose(ctx, "mallory", "mallory", 100, "tx2", "")
		require.ErrorIs(t, err, domain.ErrUnauthorized)
		require.Zero(t, n.balanceOf(t, "mallory"))

		_, err = n.mint.GetMintRecord(ctx, "tx2")
		require.ErrorIs(t, err, domain.ErrMintRecordNotFound)
	})

	t.Run("invalid", func(t *testing.T) {
		n := newNode(t, sepolia, sepoliaToken)

		_, err := n.mint.MintWithCompose(ctx, operator, "alice", 0, "tx3", "")
		require.ErrorIs(t, err, domain.ErrInvalidAmount)
		_, err = n.mint.MintWithCompose(ctx, operator, "", 1, "tx3", "")
		require.ErrorIs(t, err, domain.ErrInvalidAccount)
		_, err = n.mint.MintWithCompose(ctx, operator, "alice", 1, "", "")
		require.ErrorIs(t, err, domain.ErrInvalidExternalRef)
	})

	t.Run("list by tag", func(t *testing.T) {
		n := newNode(t, sepolia, sepoliaToken)

		for i := 0; i < 3; i++ {
			_, err := n.mint.MintWithCompose(
				ctx, operator, "alice", 1, randomHex(32), "project-a",
			)
			require.NoError(t, err)
		}
		_, err := n.mint.MintWithCompose(ctx, operator, "alice", 1, randomHex(32), "")
		require.NoError(t, err)

		records, err := n.mint.ListMints(ctx, "project-a", nil)
		require.NoError(t, err)
		require.Len(t, records, 3)

		records, err = n.mint.ListMints(ctx, "", nil)
		require.NoError(t, err)
		require.Len(t, records, 4)
	})
}
