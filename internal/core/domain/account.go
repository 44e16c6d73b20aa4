package domain

import "github.com/zakoken/zkkd/pkg/mathutil"

// Account holds the token balance of an address along with the collateral
// it received from redemptions or withdrawals and can claim on the
// collateral ledger.
type Account struct {
	Address           string
	Balance           uint64
	CollateralBalance uint64
}

// NewAccount returns an empty account for the given address.
func NewAccount(address string) (*Account, error) {
	if err := ValidateAccount(address); err != nil {
		return nil, err
	}
	return &Account{Address: address}, nil
}

// Credit adds amount to the token balance.
func (a *Account) Credit(amount uint64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	balance, err := mathutil.Add(a.Balance, amount)
	if err != nil {
		return ErrAmountOverflow
	}
	a.Balance = balance
	return nil
}

// Debit subtracts amount from the token balance.
func (a *Account) Debit(amount uint64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	balance, err := mathutil.Sub(a.Balance, amount)
	if err != nil {
		return ErrInsufficientBalance
	}
	a.Balance = balance
	return nil
}

// CreditCollateral adds amount to the claimable collateral balance.
func (a *Account) CreditCollateral(amount uint64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	balance, err := mathutil.Add(a.CollateralBalance, amount)
	if err != nil {
		return ErrAmountOverflow
	}
	a.CollateralBalance = balance
	return nil
}

// Allowance is the amount Spender is allowed to move out of Owner's account.
type Allowance struct {
	Owner   string
	Spender string
	Amount  uint64
}

// NewAllowance returns a zero allowance for the given pair.
func NewAllowance(owner, spender string) (*Allowance, error) {
	if err := ValidateAccount(owner); err != nil {
		return nil, err
	}
	if err := ValidateAccount(spender); err != nil {
		return nil, err
	}
	return &Allowance{Owner: owner, Spender: spender}, nil
}

// Key returns the identifier used to store the allowance.
func (a Allowance) Key() string {
	return AllowanceKey(a.Owner, a.Spender)
}

// AllowanceKey ...
func AllowanceKey(owner, spender string) string {
	return owner + "/" + spender
}

// Set overwrites the approved amount. Zero revokes the allowance.
func (a *Allowance) Set(amount uint64) {
	a.Amount = amount
}

// Spend decrements the allowance by amount.
func (a *Allowance) Spend(amount uint64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	left, err := mathutil.Sub(a.Amount, amount)
	if err != nil {
		return ErrInsufficientAllowance
	}
	a.Amount = left
	return nil
}

// Supply tracks every flow that changes the token's circulating supply on
// this domain.
type Supply struct {
	// Minted via attested external events.
	Minted uint64
	// Received from other domains.
	Received uint64
	// Sent (burned) to other domains.
	Sent uint64
	// Redeemed for collateral.
	Redeemed uint64
}

// Total returns the circulating supply, that's always equal to the sum of all
// account balances.
func (s Supply) Total() uint64 {
	return s.Minted + s.Received - s.Sent - s.Redeemed
}

// AddMinted ...
func (s *Supply) AddMinted(amount uint64) error {
	if err := s.checkInflow(amount); err != nil {
		return err
	}
	s.Minted += amount
	return nil
}

// AddReceived ...
func (s *Supply) AddReceived(amount uint64) error {
	if err := s.checkInflow(amount); err != nil {
		return err
	}
	s.Received += amount
	return nil
}

// AddSent ...
func (s *Supply) AddSent(amount uint64) error {
	if err := s.checkOutflow(amount); err != nil {
		return err
	}
	s.Sent += amount
	return nil
}

// AddRedeemed ...
func (s *Supply) AddRedeemed(amount uint64) error {
	if err := s.checkOutflow(amount); err != nil {
		return err
	}
	s.Redeemed += amount
	return nil
}

// Minted + Received bounds every other counter and the total.
func (s Supply) checkInflow(amount uint64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if _, err := mathutil.Add(s.Minted+s.Received, amount); err != nil {
		return ErrAmountOverflow
	}
	return nil
}

func (s Supply) checkOutflow(amount uint64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount > s.Total() {
		return ErrInsufficientBalance
	}
	return nil
}
