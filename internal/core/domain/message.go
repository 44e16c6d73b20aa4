package domain

import (
	"time"

	"github.com/google/uuid"
)

// MessageDirection tells whether a message leaves or enters this domain.
type MessageDirection int

const (
	MessageOutbound MessageDirection = iota
	MessageInbound
)

func (d MessageDirection) String() string {
	if d == MessageInbound {
		return "inbound"
	}
	return "outbound"
}

// MessageStatus is the lifecycle state of a message.
type MessageStatus int

const (
	// MessagePending is an outbound message whose burn is committed and that
	// is waiting to be delivered to the destination domain.
	MessagePending MessageStatus = iota
	// MessageDelivered is an outbound message acknowledged by the
	// destination domain.
	MessageDelivered
	// MessageConsumed is an inbound message whose amount has been credited.
	MessageConsumed
)

func (s MessageStatus) String() string {
	switch s {
	case MessageDelivered:
		return "delivered"
	case MessageConsumed:
		return "consumed"
	default:
		return "pending"
	}
}

// Message is a cross-domain transfer. The same ID identifies the outbound
// record on the source domain and the inbound one on the destination.
type Message struct {
	ID          string
	Direction   MessageDirection
	SrcDomain   uint32
	DstDomain   uint32
	Sender      string
	Recipient   string
	Amount      uint64
	Status      MessageStatus
	Attempts    int
	LastError   string
	CreatedAt   int64
	DeliveredAt int64
}

// NewOutboundMessage returns a pending message with a fresh id. Sender is
// the identity of the local token, the one the destination trusts as peer.
func NewOutboundMessage(
	srcDomain, dstDomain uint32, sender, recipient string, amount uint64,
) (*Message, error) {
	if srcDomain == 0 || dstDomain == 0 {
		return nil, ErrInvalidDomain
	}
	if srcDomain == dstDomain {
		return nil, ErrSameDomain
	}
	if err := ValidateAccount(sender); err != nil {
		return nil, err
	}
	if err := ValidateAccount(recipient); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	return &Message{
		ID:        uuid.New().String(),
		Direction: MessageOutbound,
		SrcDomain: srcDomain,
		DstDomain: dstDomain,
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Status:    MessagePending,
		CreatedAt: time.Now().Unix(),
	}, nil
}

// NewInboundMessage returns the consumed record of a message received from
// another domain.
func NewInboundMessage(
	id string, srcDomain, dstDomain uint32, sender, recipient string,
	amount uint64,
) (*Message, error) {
	if !isValidIdentifier(id) {
		return nil, ErrInvalidMessageID
	}
	if srcDomain == 0 || dstDomain == 0 {
		return nil, ErrInvalidDomain
	}
	if err := ValidateAccount(sender); err != nil {
		return nil, err
	}
	if err := ValidateAccount(recipient); err != nil {
		return nil, err
	}
	if err := validateAmount(amount); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	return &Message{
		ID:          id,
		Direction:   MessageInbound,
		SrcDomain:   srcDomain,
		DstDomain:   dstDomain,
		Sender:      sender,
		Recipient:   recipient,
		Amount:      amount,
		Status:      MessageConsumed,
		CreatedAt:   now,
		DeliveredAt: now,
	}, nil
}

// Key returns the storage key, unique per direction.
func (m Message) Key() string {
	return MessageKey(m.Direction, m.ID)
}

// MessageKey ...
func MessageKey(direction MessageDirection, id string) string {
	return direction.String() + "/" + id
}

// IsPending ...
func (m Message) IsPending() bool {
	return m.Direction == MessageOutbound && m.Status == MessagePending
}

// MarkDelivered moves a pending outbound message to delivered.
func (m *Message) MarkDelivered() {
	if !m.IsPending() {
		return
	}
	m.Status = MessageDelivered
	m.DeliveredAt = time.Now().Unix()
	m.LastError = ""
}

// RecordFailure keeps track of a failed delivery attempt.
func (m *Message) RecordFailure(err error) {
	m.Attempts++
	if err != nil {
		m.LastError = err.Error()
	}
}
