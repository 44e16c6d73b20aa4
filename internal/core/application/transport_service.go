package application

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
)

// TransportService defines the methods of the application layer to move
// tokens between domains through trusted peers.
type TransportService interface {
	LocalDomain() uint32
	LocalAddress() string
	SetPeer(ctx context.Context, caller string, domainID uint32, address string) error
	GetPeer(ctx context.Context, domainID uint32) (*domain.Peer, error)
	ListPeers(ctx context.Context) ([]domain.Peer, error)
	// Send burns amount from caller's balance and queues a message for
	// dstDomain. Delivery happens only after the burn is committed.
	Send(
		ctx context.Context, caller string, amount uint64,
		dstDomain uint32, recipient string,
	) (*domain.Message, error)
	// Receive credits the recipient of a message sent by the trusted peer of
	// its source domain. A message already consumed returns
	// domain.ErrMessageReplayed and leaves the state untouched.
	Receive(ctx context.Context, caller string, message InboundMessage) error
	GetMessage(
		ctx context.Context, direction domain.MessageDirection, id string,
	) (*domain.Message, error)
	ListMessages(
		ctx context.Context, direction domain.MessageDirection, page *domain.Page,
	) ([]domain.Message, error)
}

type transportService struct {
	repoManager  ports.RepoManager
	roles        Roles
	localDomain  uint32
	localAddress string
}

// NewTransportService is a constructor function for TransportService.
// localAddress is the identity of the token on this domain, the one remote
// domains configure as their peer.
func NewTransportService(
	repoManager ports.RepoManager, roles Roles,
	localDomain uint32, localAddress string,
) (TransportService, error) {
	if localDomain == 0 {
		return nil, domain.ErrInvalidDomain
	}
	if err := domain.ValidateAccount(localAddress); err != nil {
		return nil, err
	}
	return &transportService{repoManager, roles, localDomain, localAddress}, nil
}

func (s *transportService) LocalDomain() uint32 {
	return s.localDomain
}

func (s *transportService) LocalAddress() string {
	return s.localAddress
}

func (s *transportService) SetPeer(
	ctx context.Context, caller string, domainID uint32, address string,
) error {
	if !s.roles.IsOperator(caller) {
		return domain.ErrUnauthorized
	}
	if domainID == s.localDomain {
		return domain.ErrSameDomain
	}
	peer, err := domain.NewPeer(domainID, address)
	if err != nil {
		return err
	}

	prevPeer, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			repo := s.repoManager.PeerRepository()
			prev, err := repo.GetPeer(ctx, domainID)
			if err != nil && !errors.Is(err, domain.ErrPeerNotFound) {
				return nil, err
			}
			if err := repo.UpsertPeer(ctx, *peer); err != nil {
				return nil, err
			}
			return prev, nil
		},
	)
	if err != nil {
		return err
	}

	entry := log.WithFields(log.Fields{"domain": domainID, "peer": address})
	if prev, ok := prevPeer.(*domain.Peer); ok && prev != nil {
		if prev.Address != address {
			entry.WithField("previous", prev.Address).Warn("peer overwritten")
		}
		return nil
	}
	entry.Info("peer updated")
	return nil
}

func (s *transportService) GetPeer(
	ctx context.Context, domainID uint32,
) (*domain.Peer, error) {
	peer, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.PeerRepository().GetPeer(ctx, domainID)
		},
	)
	if err != nil {
		return nil, err
	}
	return peer.(*domain.Peer), nil
}

func (s *transportService) ListPeers(ctx context.Context) ([]domain.Peer, error) {
	peers, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.PeerRepository().ListPeers(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	return peers.([]domain.Peer), nil
}

func (s *transportService) Send(
	ctx context.Context, caller string, amount uint64,
	dstDomain uint32, recipient string,
) (*domain.Message, error) {
	if err := domain.ValidateAccount(caller); err != nil {
		return nil, err
	}
	msg, err := domain.NewOutboundMessage(
		s.localDomain, dstDomain, s.localAddress, recipient, amount,
	)
	if err != nil {
		return nil, err
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			if _, err := s.repoManager.PeerRepository().GetPeer(
				ctx, dstDomain,
			); err != nil {
				if errors.Is(err, domain.ErrPeerNotFound) {
					return nil, domain.ErrNoPeerConfigured
				}
				return nil, err
			}
			if err := debit(ctx, s.repoManager, caller, amount); err != nil {
				return nil, err
			}
			if err := updateSupply(ctx, s.repoManager, func(supply *domain.Supply) error {
				return supply.AddSent(amount)
			}); err != nil {
				return nil, err
			}
			return nil, s.repoManager.MessageRepository().AddMessage(ctx, *msg)
		},
	); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"id":        msg.ID,
		"from":      caller,
		"dst":       dstDomain,
		"recipient": recipient,
		"amount":    amount,
	}).Info("message queued")
	return msg, nil
}

func (s *transportService) Receive(
	ctx context.Context, caller string, message InboundMessage,
) error {
	if !s.roles.IsRelayer(caller) {
		return domain.ErrUnauthorized
	}
	if message.DstDomain != 0 && message.DstDomain != s.localDomain {
		return ErrWrongDestination
	}
	msg, err := domain.NewInboundMessage(
		message.ID, message.SrcDomain, s.localDomain,
		message.Sender, message.Recipient, message.Amount,
	)
	if err != nil {
		return err
	}

	if _, err := s.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			// A consumed message is an ack regardless of the current peer.
			if _, err := s.repoManager.MessageRepository().GetMessage(
				ctx, domain.MessageInbound, msg.ID,
			); err == nil {
				return nil, domain.ErrMessageReplayed
			} else if !errors.Is(err, domain.ErrMessageNotFound) {
				return nil, err
			}

			peer, err := s.repoManager.PeerRepository().GetPeer(
				ctx, msg.SrcDomain,
			)
			if err != nil {
				if errors.Is(err, domain.ErrPeerNotFound) {
					return nil, domain.ErrUntrustedPeer
				}
				return nil, err
			}
			if !peer.IsTrusted(msg.Sender) {
				return nil, domain.ErrUntrustedPeer
			}
			if err := s.repoManager.MessageRepository().AddMessage(
				ctx, *msg,
			); err != nil {
				return nil, err
			}
			if err := credit(ctx, s.repoManager, msg.Recipient, msg.Amount); err != nil {
				return nil, err
			}
			return nil, updateSupply(ctx, s.repoManager, func(supply *domain.Supply) error {
				return supply.AddReceived(msg.Amount)
			})
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"id":        msg.ID,
		"src":       msg.SrcDomain,
		"recipient": msg.Recipient,
		"amount":    msg.Amount,
	}).Info("message received")
	return nil
}

func (s *transportService) GetMessage(
	ctx context.Context, direction domain.MessageDirection, id string,
) (*domain.Message, error) {
	msg, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.MessageRepository().GetMessage(ctx, direction, id)
		},
	)
	if err != nil {
		return nil, err
	}
	return msg.(*domain.Message), nil
}

func (s *transportService) ListMessages(
	ctx context.Context, direction domain.MessageDirection, page *domain.Page,
) ([]domain.Message, error) {
	msgs, err := s.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return s.repoManager.MessageRepository().ListMessages(
				ctx, direction, page,
			)
		},
	)
	if err != nil {
		return nil, err
	}
	return msgs.([]domain.Message), nil
}
