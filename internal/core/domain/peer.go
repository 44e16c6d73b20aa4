package domain

import "time"

// Peer is the trusted counterpart of the local token on a remote domain.
// Only messages sent by Address on DomainID are accepted, and only domains
// with a peer can be sent to.
type Peer struct {
	DomainID  uint32
	Address   string
	UpdatedAt int64
}

// NewPeer ...
func NewPeer(domainID uint32, address string) (*Peer, error) {
	if domainID == 0 {
		return nil, ErrInvalidDomain
	}
	if err := ValidateAccount(address); err != nil {
		return nil, err
	}
	return &Peer{
		DomainID:  domainID,
		Address:   address,
		UpdatedAt: time.Now().Unix(),
	}, nil
}

// IsTrusted returns whether sender is the peer's address.
func (p Peer) IsTrusted(sender string) bool {
	return p.Address == sender
}

// knownDomains maps the supported network names to their domain ids.
var knownDomains = map[string]uint32{
	"sepolia":     40161,
	"baseSepolia": 40245,
}

// DomainIDForNetwork returns the domain id of a known network.
func DomainIDForNetwork(network string) (uint32, bool) {
	id, ok := knownDomains[network]
	return id, ok
}
