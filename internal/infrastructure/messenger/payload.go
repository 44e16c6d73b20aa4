package messenger

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/zakoken/zkkd/internal/core/domain"
)

// Payload is the wire format of a cross-domain message, shared by every
// messenger and by the receive endpoint of the daemon.
type Payload struct {
	ID        string `json:"id"`
	SrcDomain uint32 `json:"src_domain"`
	DstDomain uint32 `json:"dst_domain"`
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	// Amount is in base units, encoded as string to not lose precision with
	// JSON decoders that treat numbers as float64.
	Amount string `json:"amount"`
}

// NewPayload ...
func NewPayload(m domain.Message) Payload {
	return Payload{
		ID:        m.ID,
		SrcDomain: m.SrcDomain,
		DstDomain: m.DstDomain,
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Amount:    strconv.FormatUint(m.Amount, 10),
	}
}

// DecodePayload parses a JSON serialized payload.
func DecodePayload(buf []byte) (*Payload, error) {
	p := &Payload{}
	if err := json.Unmarshal(buf, p); err != nil {
		return nil, fmt.Errorf("invalid message payload: %w", err)
	}
	return p, nil
}

func (p Payload) Serialize() []byte {
	buf, _ := json.Marshal(p)
	return buf
}

// ToDomain returns the message described by the payload.
func (p Payload) ToDomain() (*domain.Message, error) {
	amount, err := strconv.ParseUint(p.Amount, 10, 64)
	if err != nil {
		return nil, domain.ErrInvalidAmount
	}
	return &domain.Message{
		ID:        p.ID,
		Direction: domain.MessageInbound,
		SrcDomain: p.SrcDomain,
		DstDomain: p.DstDomain,
		Sender:    p.Sender,
		Recipient: p.Recipient,
		Amount:    amount,
	}, nil
}
