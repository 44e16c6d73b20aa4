package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/domain"
)

func TestVault(t *testing.T) {
	t.Parallel()

	vault, err := domain.NewVault("USDC")
	require.NoError(t, err)
	require.Zero(t, vault.Available())

	require.NoError(t, vault.Deposit(50000))
	require.Equal(t, uint64(50000), vault.Available())

	require.NoError(t, vault.PayOut(1000))
	require.Equal(t, uint64(49000), vault.Available())

	require.ErrorIs(t, vault.PayOut(60000), domain.ErrInsufficientCollateral)
	require.Equal(t, uint64(49000), vault.Available())

	require.ErrorIs(t, vault.Withdraw(49001), domain.ErrInsufficientReserve)
	require.Equal(t, uint64(49000), vault.Available())

	require.NoError(t, vault.Withdraw(49000))
	require.Zero(t, vault.Available())

	require.ErrorIs(t, vault.Deposit(0), domain.ErrInvalidAmount)
}

func TestFailingNewVault(t *testing.T) {
	t.Parallel()

	vault, err := domain.NewVault("")
	require.Error(t, err)
	require.Nil(t, vault)
}
