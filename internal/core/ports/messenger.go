package ports

import (
	"context"

	"github.com/zakoken/zkkd/internal/core/domain"
)

// Messenger hands outbound messages over to the destination domain.
type Messenger interface {
	// Deliver returns nil once the destination acknowledged the message,
	// including the case it had already consumed it.
	Deliver(ctx context.Context, message domain.Message) error
	Close()
}

// InboundHandler consumes a message coming from another domain.
type InboundHandler func(ctx context.Context, message domain.Message) error
