package domain

import "context"

// MintRepository persists the consumed external references.
type MintRepository interface {
	// AddMintRecord inserts a record if its external reference is not already
	// stored, otherwise returns ErrReplayRejected.
	AddMintRecord(ctx context.Context, record MintRecord) error
	// GetMintRecord returns the record for the given external reference or
	// ErrMintRecordNotFound.
	GetMintRecord(ctx context.Context, externalRef string) (*MintRecord, error)
	// ListMintRecords returns the records with the given tag, or all of them
	// if tag is empty, ordered by time.
	ListMintRecords(ctx context.Context, tag string, page *Page) ([]MintRecord, error)
}
