package domain

import "context"

// AccountRepository is the abstraction for any kind of database intended to
// persist the token ledger: balances, allowances and supply counters.
type AccountRepository interface {
	// GetAccount returns the account of the given address. An address that
	// never received anything has an empty account.
	GetAccount(ctx context.Context, address string) (*Account, error)
	// UpdateAccount updates the state of an account, creating it if needed.
	// The closure function let's to commit multiple changes to a certain
	// account in a transactional way.
	UpdateAccount(
		ctx context.Context,
		address string, updateFn func(a *Account) (*Account, error),
	) error
	// ListAccounts returns the accounts ordered by address.
	ListAccounts(ctx context.Context, page *Page) ([]Account, error)
	// GetAllowance returns the amount spender can move out of owner's account.
	GetAllowance(ctx context.Context, owner, spender string) (*Allowance, error)
	// UpdateAllowance updates an allowance, creating it if needed.
	UpdateAllowance(
		ctx context.Context, owner, spender string,
		updateFn func(a *Allowance) (*Allowance, error),
	) error
	// GetSupply returns the supply counters.
	GetSupply(ctx context.Context) (*Supply, error)
	// UpdateSupply updates the supply counters.
	UpdateSupply(
		ctx context.Context, updateFn func(s *Supply) (*Supply, error),
	) error
}
