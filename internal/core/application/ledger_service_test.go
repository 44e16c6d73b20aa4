package application_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/domain"
)

func TestTransfer(t *testing.T) {
	n := newNode(t, sepolia, sepoliaToken)
	n.mintTo(t, "alice", 100)

	err := n.ledger.Transfer(ctx, "alice", "bob", 40)
	require.NoError(t, err)
	require.Equal(t, uint64(60), n.balanceOf(t, "alice"))
	require.Equal(t, uint64(40), n.balanceOf(t, "bob"))

	err = n.ledger.Transfer(ctx, "alice", "bob", 61)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	require.Equal(t, uint64(60), n.balanceOf(t, "alice"))
	require.Equal(t, uint64(40), n.balanceOf(t, "bob"))

	err = n.ledger.Transfer(ctx, "alice", "alice", 60)
	require.NoError(t, err)
	require.Equal(t, uint64(60), n.balanceOf(t, "alice"))

	err = n.ledger.Transfer(ctx, "alice", "alice", 61)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	err = n.ledger.Transfer(ctx, "alice", "bob", 0)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	n.requireSupplyMatchesBalances(t)
}

func TestTransferFrom(t *testing.T) {
	n := newNode(t, sepolia, sepoliaToken)
	n.mintTo(t, "alice", 100)

	err := n.ledger.TransferFrom(ctx, "bob", "alice", "carol", 10)
	require.ErrorIs(t, err, domain.ErrInsufficientAllowance)

	err = n.ledger.Approve(ctx, "alice", "bob", 50)
	require.NoError(t, err)

	allowance, err := n.ledger.Allowance(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Equal(t, uint64(50), allowance)

	err = n.ledger.TransferFrom(ctx, "bob", "alice", "carol", 30)
	require.NoError(t, err)
	require.Equal(t, uint64(70), n.balanceOf(t, "alice"))
	require.Equal(t, uint64(30), n.balanceOf(t, "carol"))
	require.Zero(t, n.balanceOf(t, "bob"))

	allowance, err = n.ledger.Allowance(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Equal(t, uint64(20), allowance)

	err = n.ledger.TransferFrom(ctx, "bob", "alice", "carol", 21)
	require.ErrorIs(t, err, domain.ErrInsufficientAllowance)

	// The allowance covers the amount but the balance doesn't: nothing
	// changes, the allowance included.
	err = n.ledger.Approve(ctx, "alice", "bob", 1000)
	require.NoError(t, err)
	err = n.ledger.TransferFrom(ctx, "bob", "alice", "carol", 71)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)

	allowance, err = n.ledger.Allowance(ctx, "alice", "bob")
	require.NoError(t, err)
	require.Equal(t, uint64(1000), allowance)
	require.Equal(t, uint64(70), n.balanceOf(t, "alice"))

	n.requireSupplyMatchesBalances(t)
}
