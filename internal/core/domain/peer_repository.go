package domain

import "context"

// PeerRepository persists the trusted counterparts on remote domains.
type PeerRepository interface {
	// GetPeer returns the peer for the given domain or ErrPeerNotFound.
	GetPeer(ctx context.Context, domainID uint32) (*Peer, error)
	// UpsertPeer creates or overwrites the peer for its domain.
	UpsertPeer(ctx context.Context, peer Peer) error
	// ListPeers returns all peers ordered by domain.
	ListPeers(ctx context.Context) ([]Peer, error)
}
