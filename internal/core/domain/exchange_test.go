package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/domain"
)

func TestNewExchange(t *testing.T) {
	t.Parallel()

	exchange, err := domain.NewExchange(domain.BasisPoints)
	require.NoError(t, err)
	require.True(t, exchange.IsActive())

	exchange, err = domain.NewExchange(0)
	require.ErrorIs(t, err, domain.ErrInvalidRate)
	require.Nil(t, exchange)
}

func TestExchangeQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rate     uint64
		amount   uint64
		expected uint64
	}{
		{10000, 1000, 1000},
		{10000, 0, 0},
		{5000, 1000, 500},
		{12500, 1000, 1250},
		{9999, 1, 0},
		{3333, 3, 0},
		{3333, 30000, 9999},
	}

	for _, tt := range tests {
		exchange, err := domain.NewExchange(tt.rate)
		require.NoError(t, err)

		out, err := exchange.Quote(tt.amount)
		require.NoError(t, err)
		require.Equal(t, tt.expected, out)
	}
}

func TestExchangeQuoteIsLinear(t *testing.T) {
	t.Parallel()

	rates := []uint64{1, 3333, 5000, 9999, 10000, 12345, 20000}
	amounts := []uint64{1, 2, 3, 7, 999, 1000, 123456789, math.MaxUint32}

	for _, rate := range rates {
		exchange, err := domain.NewExchange(rate)
		require.NoError(t, err)

		for _, x := range amounts {
			single, err := exchange.Quote(x)
			require.NoError(t, err)
			double, err := exchange.Quote(2 * x)
			require.NoError(t, err)

			require.GreaterOrEqual(t, double, 2*single)
			require.LessOrEqual(t, double-2*single, uint64(1))

			if rate == domain.BasisPoints {
				require.Equal(t, 2*single, double)
			}
		}
	}
}

func TestExchangeQuoteOverflow(t *testing.T) {
	t.Parallel()

	exchange, err := domain.NewExchange(2 * domain.BasisPoints)
	require.NoError(t, err)

	_, err = exchange.Quote(math.MaxUint64)
	require.ErrorIs(t, err, domain.ErrAmountOverflow)
}

func TestExchangeStatus(t *testing.T) {
	t.Parallel()

	exchange, err := domain.NewExchange(domain.BasisPoints)
	require.NoError(t, err)

	exchange.Pause()
	require.False(t, exchange.IsActive())
	require.Equal(t, "paused", exchange.Status.String())

	exchange.Resume()
	require.True(t, exchange.IsActive())

	require.ErrorIs(t, exchange.ChangeRate(0), domain.ErrInvalidRate)
	require.Equal(t, domain.BasisPoints, exchange.Rate)

	require.NoError(t, exchange.ChangeRate(5000))
	require.Equal(t, uint64(5000), exchange.Rate)
}
