package application_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/core/domain"
)

func TestRedeem(t *testing.T) {
	n := newNode(t, sepolia, sepoliaToken)
	n.mintTo(t, "alice", 100000)

	vault, err := n.exchange.DepositCollateral(ctx, operator, 50000)
	require.NoError(t, err)
	require.Equal(t, uint64(50000), vault.Available())

	ok, err := n.exchange.CanRedeem(ctx, 1000)
	require.NoError(t, err)
	require.True(t, ok)

	out, err := n.exchange.GetOutputAmount(ctx, 1000)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), out)

	redemption, err := n.exchange.Redeem(ctx, "alice", 1000, "")
	require.NoError(t, err)
	require.Equal(t, "alice", redemption.Recipient)
	require.Equal(t, uint64(1000), redemption.CollateralAmount)

	available, err := n.exchange.GetAvailableCollateral(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(49000), available)
	require.Equal(t, uint64(99000), n.balanceOf(t, "alice"))

	account, err := n.ledger.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, uint64(1000), account.CollateralBalance)

	ok, err = n.exchange.CanRedeem(ctx, 60000)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = n.exchange.Redeem(ctx, "alice", 60000, "")
	require.ErrorIs(t, err, domain.ErrInsufficientCollateral)
	require.Equal(t, uint64(99000), n.balanceOf(t, "alice"))

	supply, err := n.ledger.TotalSupply(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), supply.Redeemed)
	n.requireSupplyMatchesBalances(t)

	redemptions, err := n.exchange.ListRedemptions(ctx, "alice", nil)
	require.NoError(t, err)
	require.Len(t, redemptions, 1)
}

func TestRedeemToRecipient(t *testing.T) {
	n := newNode(t, sepolia, sepoliaToken)
	n.mintTo(t, "alice", 10000)
	_, err := n.exchange.DepositCollateral(ctx, operator, 10000)
	require.NoError(t, err)

	err = n.exchange.SetExchangeRate(ctx, operator, 5000)
	require.NoError(t, err)

	redemption, err := n.exchange.Redeem(ctx, "alice", 3, "bob")
	require.NoError(t, err)
	require.Equal(t, uint64(1), redemption.CollateralAmount)
	require.Equal(t, uint64(5000), redemption.Rate)

	bob, err := n.ledger.BalanceOf(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, uint64(1), bob.CollateralBalance)
	require.Zero(t, bob.Balance)
	require.Equal(t, uint64(9997), n.balanceOf(t, "alice"))

	// The quote of a single unit truncates to zero: the tokens are burned
	// without any payout.
	redemption, err = n.exchange.Redeem(ctx, "alice", 1, "")
	require.NoError(t, err)
	require.Zero(t, redemption.CollateralAmount)

	available, err := n.exchange.GetAvailableCollateral(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(9999), available)
	n.requireSupplyMatchesBalances(t)
}

func TestRedeemFailures(t *testing.T) {
	t.Run("paused", func(t *testing.T) {
		n := newNode(t, sepolia, sepoliaToken)
		n.mintTo(t, "alice", 100)
		_, err := n.exchange.DepositCollateral(ctx, operator, 100)
		require.NoError(t, err)

		err = n.exchange.Pause(ctx, operator)
		require.NoError(t, err)

		ok, err := n.exchange.CanRedeem(ctx, 10)
		require.NoError(t, err)
		require.False(t, ok)

		_, err = n.exchange.Redeem(ctx, "alice", 10, "")
		require.ErrorIs(t, err, domain.ErrExchangePaused)

		err = n.exchange.Resume(ctx, operator)
		require.NoError(t, err)
		_, err = n.exchange.Redeem(ctx, "alice", 10, "")
		require.NoError(t, err)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		n := newNode(t, sepolia, sepoliaToken)
		n.mintTo(t, "alice", 100)
		_, err := n.exchange.DepositCollateral(ctx, operator, 1000)
		require.NoError(t, err)

		_, err = n.exchange.Redeem(ctx, "alice", 101, "")
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)

		// The vault payout is rolled back along with the failed debit.
		available, err := n.exchange.GetAvailableCollateral(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(1000), available)
		require.Equal(t, uint64(100), n.balanceOf(t, "alice"))
	})
}

func TestExchangeOperatorOnly(t *testing.T) {
	n := newNode(t, sepolia, sepoliaToken)
	_, err := n.exchange.DepositCollateral(ctx, operator, 500)
	require.NoError(t, err)

	_, err = n.exchange.DepositCollateral(ctx, "mallory", 10)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = n.exchange.WithdrawCollateral(ctx, "mallory", 10)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	err = n.exchange.Pause(ctx, "mallory")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	err = n.exchange.Resume(ctx, attester)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	err = n.exchange.SetExchangeRate(ctx, "mallory", 1)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	info, err := n.exchange.GetExchangeInfo(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.BasisPoints, info.Rate)
	require.Equal(t, domain.ExchangeActive, info.Status)
	require.Equal(t, "USDC", info.CollateralAsset)
	require.Equal(t, uint64(500), info.AvailableCollateral)

	err = n.exchange.SetExchangeRate(ctx, operator, 0)
	require.ErrorIs(t, err, domain.ErrInvalidRate)

	vault, err := n.exchange.WithdrawCollateral(ctx, operator, 200)
	require.NoError(t, err)
	require.Equal(t, uint64(300), vault.Available())

	_, err = n.exchange.WithdrawCollateral(ctx, operator, 301)
	require.ErrorIs(t, err, domain.ErrInsufficientReserve)

	account, err := n.ledger.BalanceOf(ctx, operator)
	require.NoError(t, err)
	require.Equal(t, uint64(200), account.CollateralBalance)
}

func TestExchangeRateSurvivesRestart(t *testing.T) {
	n := newNode(t, sepolia, sepoliaToken)
	err := n.exchange.SetExchangeRate(ctx, operator, 12500)
	require.NoError(t, err)

	// A new service on the same store keeps the stored rate.
	svc, err := application.NewExchangeService(
		n.repo, roles, "USDC", domain.BasisPoints,
	)
	require.NoError(t, err)
	out, err := svc.GetOutputAmount(ctx, 10000)
	require.NoError(t, err)
	require.Equal(t, uint64(12500), out)
}
