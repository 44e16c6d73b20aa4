package domain

import "context"

// MessageRepository persists the outbox and the inbox of cross-domain
// messages.
type MessageRepository interface {
	// AddMessage inserts a message. A message whose id is already stored for
	// the same direction makes it return ErrMessageReplayed.
	AddMessage(ctx context.Context, message Message) error
	// GetMessage returns the message or ErrMessageNotFound.
	GetMessage(
		ctx context.Context, direction MessageDirection, id string,
	) (*Message, error)
	// UpdateMessage updates an existing message.
	UpdateMessage(
		ctx context.Context, direction MessageDirection, id string,
		updateFn func(m *Message) (*Message, error),
	) error
	// GetPendingMessages returns up to limit outbound messages still to be
	// delivered, oldest first.
	GetPendingMessages(ctx context.Context, limit int) ([]Message, error)
	// ListMessages returns the messages for the given direction, oldest first.
	ListMessages(
		ctx context.Context, direction MessageDirection, page *Page,
	) ([]Message, error)
}
