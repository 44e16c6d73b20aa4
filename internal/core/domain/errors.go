package domain

import "errors"

var (
	// ErrReplayRejected is returned when minting against an external reference
	// that has already been consumed.
	ErrReplayRejected = errors.New("external reference already consumed")
	// ErrInsufficientBalance is returned when debiting more than an account
	// holds.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInsufficientAllowance is returned when a spender tries to move more
	// than what it's been approved for.
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	// ErrUntrustedPeer is returned when an inbound message does not come from
	// the peer configured for its source domain.
	ErrUntrustedPeer = errors.New("message sender is not the trusted peer for the source domain")
	// ErrNoPeerConfigured is returned when sending to a domain with no peer.
	ErrNoPeerConfigured = errors.New("no peer configured for domain")
	// ErrUnauthorized is returned when a privileged operation is invoked by
	// someone else than the operator.
	ErrUnauthorized = errors.New("caller is not authorized for this operation")
	// ErrInsufficientCollateral is returned when the vault can't cover a
	// redemption.
	ErrInsufficientCollateral = errors.New("insufficient collateral")
	// ErrInsufficientReserve is returned when a withdrawal would drive the
	// vault's available collateral negative.
	ErrInsufficientReserve = errors.New("insufficient reserve")
	// ErrExchangePaused is returned when redeeming while the exchange is paused.
	ErrExchangePaused = errors.New("exchange is paused")
	// ErrMessageReplayed is returned when an inbound message id has already
	// been consumed.
	ErrMessageReplayed = errors.New("message already processed")
)

// Validation errors
var (
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidAccount     = errors.New("invalid account address")
	ErrInvalidDomain      = errors.New("invalid domain id")
	ErrInvalidRate        = errors.New("exchange rate must be greater than zero")
	ErrInvalidExternalRef = errors.New("invalid external reference")
	ErrInvalidTag         = errors.New("invalid tag")
	ErrInvalidMessageID   = errors.New("invalid message id")
	ErrAmountOverflow     = errors.New("amount overflow")
	ErrSameDomain         = errors.New("destination domain must differ from the local one")
)

// Not found errors
var (
	ErrMintRecordNotFound = errors.New("mint record not found")
	ErrPeerNotFound       = errors.New("peer not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrVaultNotFound      = errors.New("vault not found")
	ErrExchangeNotFound   = errors.New("exchange not found")
)
