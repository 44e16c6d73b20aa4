package application

import (
	"errors"
	"fmt"

	"github.com/zakoken/zkkd/internal/core/domain"
)

var (
	// ErrUnknownDBType ...
	ErrUnknownDBType = errors.New("unknown db type")
	// ErrMissingOperator is returned when building the services without an
	// operator identity.
	ErrMissingOperator = errors.New("missing operator identity")
	// ErrMissingRepoManager ...
	ErrMissingRepoManager = errors.New("missing repo manager")
	// ErrMissingMessenger ...
	ErrMissingMessenger = errors.New("missing messenger")
	// ErrWrongDestination is returned when receiving a message addressed to
	// another domain.
	ErrWrongDestination = fmt.Errorf(
		"%w: message is not addressed to this domain", domain.ErrInvalidDomain,
	)
)
