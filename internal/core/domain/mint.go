package domain

import "time"

// MintRecord binds an external reference (ie. the hash of an attested
// off-chain transaction) to the mint it authorized. Records are immutable
// once stored.
type MintRecord struct {
	ExternalRef string
	Recipient   string
	Amount      uint64
	// Tag groups mints for audit purposes, ie. a project or campaign id.
	Tag       string
	Consumed  bool
	Timestamp int64
}

// NewMintRecord returns a consumed record for the given mint.
func NewMintRecord(
	externalRef, recipient string, amount uint64, tag string,
) (*MintRecord, error) {
	if !isValidIdentifier(externalRef) {
		return nil, ErrInvalidExternalRef
	}
	if err := ValidateAccount(recipient); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	if !isValidIdentifier(tag) {
		return nil, ErrInvalidTag
	}

	return &MintRecord{
		ExternalRef: externalRef,
		Recipient:   recipient,
		Amount:      amount,
		Tag:         tag,
		Consumed:    true,
		Timestamp:   time.Now().Unix(),
	}, nil
}
