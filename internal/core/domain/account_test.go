package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/domain"
)

func TestNewAccount(t *testing.T) {
	t.Parallel()

	account, err := domain.NewAccount("0x7462f4984a1551ACeE53ecAF3E2CCC6ffd6Ae4e1")
	require.NoError(t, err)
	require.Zero(t, account.Balance)

	for _, addr := range []string{"", "with space", "a/b"} {
		account, err := domain.NewAccount(addr)
		require.ErrorIs(t, err, domain.ErrInvalidAccount)
		require.Nil(t, account)
	}
}

func TestAccountCreditDebit(t *testing.T) {
	t.Parallel()

	account, err := domain.NewAccount("alice")
	require.NoError(t, err)

	err = account.Credit(100)
	require.NoError(t, err)
	require.Equal(t, uint64(100), account.Balance)

	err = account.Debit(101)
	require.ErrorIs(t, err, domain.ErrInsufficientBalance)
	require.Equal(t, uint64(100), account.Balance)

	err = account.Debit(100)
	require.NoError(t, err)
	require.Zero(t, account.Balance)

	err = account.Credit(0)
	require.ErrorIs(t, err, domain.ErrInvalidAmount)

	account.Balance = math.MaxUint64
	err = account.Credit(1)
	require.ErrorIs(t, err, domain.ErrAmountOverflow)
	require.Equal(t, uint64(math.MaxUint64), account.Balance)
}

func TestAllowanceSpend(t *testing.T) {
	t.Parallel()

	allowance, err := domain.NewAllowance("alice", "bob")
	require.NoError(t, err)
	require.Equal(t, "alice/bob", allowance.Key())

	allowance.Set(50)

	err = allowance.Spend(20)
	require.NoError(t, err)
	require.Equal(t, uint64(30), allowance.Amount)

	err = allowance.Spend(31)
	require.ErrorIs(t, err, domain.ErrInsufficientAllowance)
	require.Equal(t, uint64(30), allowance.Amount)
}

func TestSupply(t *testing.T) {
	t.Parallel()

	supply := domain.Supply{}

	require.NoError(t, supply.AddMinted(1000))
	require.NoError(t, supply.AddReceived(500))
	require.NoError(t, supply.AddSent(300))
	require.NoError(t, supply.AddRedeemed(200))
	require.Equal(t, uint64(1000), supply.Total())

	require.ErrorIs(t, supply.AddSent(1001), domain.ErrInsufficientBalance)
	require.ErrorIs(t, supply.AddRedeemed(1001), domain.ErrInsufficientBalance)
	require.Equal(t, uint64(1000), supply.Total())

	supply = domain.Supply{Minted: math.MaxUint64}
	require.ErrorIs(t, supply.AddReceived(1), domain.ErrAmountOverflow)
}
