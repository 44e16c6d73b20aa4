package domain

import "github.com/zakoken/zkkd/pkg/mathutil"

// Vault keeps track of the collateral backing redemptions. Collateral enters
// with operator deposits and leaves either with operator withdrawals or as
// redemption payouts.
type Vault struct {
	Asset     string
	Deposited uint64
	Withdrawn uint64
	// Redeemed is the collateral paid out to redeemers.
	Redeemed uint64
}

// NewVault returns an empty vault for the given collateral asset.
func NewVault(asset string) (*Vault, error) {
	if !isValidIdentifier(asset) {
		return nil, ErrInvalidAccount
	}
	return &Vault{Asset: asset}, nil
}

// Available returns the collateral that can still be withdrawn or paid out.
func (v Vault) Available() uint64 {
	return v.Deposited - v.Withdrawn - v.Redeemed
}

// Deposit adds collateral to the vault.
func (v *Vault) Deposit(amount uint64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	deposited, err := mathutil.Add(v.Deposited, amount)
	if err != nil {
		return ErrAmountOverflow
	}
	v.Deposited = deposited
	return nil
}

// Withdraw removes collateral from the vault.
func (v *Vault) Withdraw(amount uint64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount > v.Available() {
		return ErrInsufficientReserve
	}
	v.Withdrawn += amount
	return nil
}

// PayOut removes the collateral owed for a redemption.
func (v *Vault) PayOut(amount uint64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if amount > v.Available() {
		return ErrInsufficientCollateral
	}
	v.Redeemed += amount
	return nil
}
