package application

import "github.com/zakoken/zkkd/internal/core/domain"

// Roles holds the identities allowed to invoke privileged operations.
type Roles struct {
	// Operator owns the token: it configures peers, manages the vault and the
	// exchange, and can mint.
	Operator string
	// Attesters are allowed to mint on attestation of an external event.
	Attesters []string
	// Relayer is the only identity allowed to hand inbound messages to the
	// transport.
	Relayer string
}

func (r Roles) IsOperator(caller string) bool {
	return len(r.Operator) > 0 && caller == r.Operator
}

func (r Roles) CanMint(caller string) bool {
	if r.IsOperator(caller) {
		return true
	}
	for _, a := range r.Attesters {
		if len(a) > 0 && a == caller {
			return true
		}
	}
	return false
}

func (r Roles) IsRelayer(caller string) bool {
	return len(r.Relayer) > 0 && caller == r.Relayer
}

// InboundMessage is a message delivered by another domain's relayer.
type InboundMessage struct {
	ID        string
	SrcDomain uint32
	// DstDomain is optional, if set it must match the local domain.
	DstDomain uint32
	Sender    string
	Recipient string
	Amount    uint64
}

// InboundMessageFromDomain ...
func InboundMessageFromDomain(m domain.Message) InboundMessage {
	return InboundMessage{
		ID:        m.ID,
		SrcDomain: m.SrcDomain,
		DstDomain: m.DstDomain,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Amount:    m.Amount,
	}
}

// ExchangeInfo is the public state of the redemption engine.
type ExchangeInfo struct {
	Rate                uint64
	BasisPoints         uint64
	Status              domain.ExchangeStatus
	CollateralAsset     string
	AvailableCollateral uint64
}
