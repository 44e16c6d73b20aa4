package ports

import (
	"context"

	"github.com/zakoken/zkkd/internal/core/domain"
)

// RepoManager gives access to every repository of the daemon's state space
// and lets to run a group of repository calls as a single atomic unit.
type RepoManager interface {
	AccountRepository() domain.AccountRepository
	MintRepository() domain.MintRepository
	PeerRepository() domain.PeerRepository
	MessageRepository() domain.MessageRepository
	VaultRepository() domain.VaultRepository
	ExchangeRepository() domain.ExchangeRepository

	// RunTransaction runs handler in a transaction. Repository calls must use
	// the context handed to handler to take part to it. Any error returned by
	// handler discards every change. Write transactions are serialized.
	RunTransaction(
		ctx context.Context,
		readOnly bool,
		handler func(ctx context.Context) (interface{}, error),
	) (interface{}, error)

	Close()
}
