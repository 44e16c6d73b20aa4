package inmemory

import "errors"

// ErrReadOnlyTx is returned when writing within a read-only transaction.
var ErrReadOnlyTx = errors.New("cannot write in a read-only transaction")
