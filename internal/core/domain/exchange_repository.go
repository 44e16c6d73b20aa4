package domain

import "context"

// VaultRepository persists the collateral vault.
type VaultRepository interface {
	// AddVault stores the vault if none exists yet.
	AddVault(ctx context.Context, vault Vault) error
	// GetVault returns the vault or ErrVaultNotFound.
	GetVault(ctx context.Context) (*Vault, error)
	// UpdateVault ...
	UpdateVault(
		ctx context.Context, updateFn func(v *Vault) (*Vault, error),
	) error
}

// ExchangeRepository persists the redemption engine state and its history.
type ExchangeRepository interface {
	// AddExchange stores the exchange if none exists yet.
	AddExchange(ctx context.Context, exchange Exchange) error
	// GetExchange returns the exchange or ErrExchangeNotFound.
	GetExchange(ctx context.Context) (*Exchange, error)
	// UpdateExchange ...
	UpdateExchange(
		ctx context.Context, updateFn func(e *Exchange) (*Exchange, error),
	) error
	// AddRedemption ...
	AddRedemption(ctx context.Context, redemption Redemption) error
	// ListRedemptions returns the redemptions requested by or paid to the
	// given account, or all of them if account is empty, oldest first.
	ListRedemptions(
		ctx context.Context, account string, page *Page,
	) ([]Redemption, error)
}
