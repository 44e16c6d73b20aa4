package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/zakoken/zkkd/pkg/mathutil"
)

// BasisPoints is the fixed denominator of the exchange rate. A rate of
// BasisPoints means 1 token for 1 collateral unit.
const BasisPoints = mathutil.BasisPoints

// ExchangeStatus ...
type ExchangeStatus int

const (
	ExchangeActive ExchangeStatus = iota
	ExchangePaused
)

func (s ExchangeStatus) String() string {
	if s == ExchangePaused {
		return "paused"
	}
	return "active"
}

// Exchange is the fixed-rate redemption engine configuration.
type Exchange struct {
	// Rate is the numerator over BasisPoints.
	Rate      uint64
	Status    ExchangeStatus
	UpdatedAt int64
}

// NewExchange returns an active exchange with the given rate.
func NewExchange(rate uint64) (*Exchange, error) {
	if rate == 0 {
		return nil, ErrInvalidRate
	}
	return &Exchange{
		Rate:      rate,
		Status:    ExchangeActive,
		UpdatedAt: time.Now().Unix(),
	}, nil
}

// Quote returns the collateral owed for tokenAmount at the current rate,
// floor(tokenAmount * Rate / BasisPoints). Truncation always favors the
// vault by strictly less than one collateral unit, so
// Quote(2x) - 2*Quote(x) is either 0 or 1.
func (e Exchange) Quote(tokenAmount uint64) (uint64, error) {
	out, err := mathutil.ApplyBasisPoints(tokenAmount, e.Rate)
	if err != nil {
		if errors.Is(err, mathutil.ErrOverflow) {
			return 0, ErrAmountOverflow
		}
		return 0, err
	}
	return out, nil
}

// IsActive ...
func (e Exchange) IsActive() bool {
	return e.Status == ExchangeActive
}

// Pause ...
func (e *Exchange) Pause() {
	e.Status = ExchangePaused
	e.UpdatedAt = time.Now().Unix()
}

// Resume ...
func (e *Exchange) Resume() {
	e.Status = ExchangeActive
	e.UpdatedAt = time.Now().Unix()
}

// ChangeRate ...
func (e *Exchange) ChangeRate(rate uint64) error {
	if rate == 0 {
		return ErrInvalidRate
	}
	e.Rate = rate
	e.UpdatedAt = time.Now().Unix()
	return nil
}

// Redemption is the audit record of a token-for-collateral exchange.
type Redemption struct {
	ID               string
	Requester        string
	Recipient        string
	TokenAmount      uint64
	CollateralAmount uint64
	Rate             uint64
	Timestamp        int64
}

// NewRedemption ...
func NewRedemption(
	requester, recipient string, tokenAmount, collateralAmount, rate uint64,
) *Redemption {
	return &Redemption{
		ID:               uuid.New().String(),
		Requester:        requester,
		Recipient:        recipient,
		TokenAmount:      tokenAmount,
		CollateralAmount: collateralAmount,
		Rate:             rate,
		Timestamp:        time.Now().Unix(),
	}
}
