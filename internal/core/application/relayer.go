package application

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
	"github.com/zakoken/zkkd/pkg/circuitbreaker"
	"go.uber.org/ratelimit"
)

const (
	DefaultRelayInterval  = 2 * time.Second
	DefaultRelayRateLimit = 10
	DefaultRelayBatchSize = 50
)

// Relayer delivers the pending outbound messages to their destination
// domain.
type Relayer interface {
	// Start relays pending messages every interval until ctx is canceled.
	Start(ctx context.Context) error
	// RelayPending runs a single delivery round and returns the number of
	// messages delivered.
	RelayPending(ctx context.Context) (int, error)
}

// RelayerConfig ...
type RelayerConfig struct {
	Interval time.Duration
	// RateLimit is the max number of deliveries per second.
	RateLimit int
	// BatchSize is the max number of messages handled per round.
	BatchSize int
	// OnDelivery, if defined, is invoked after every delivery attempt.
	OnDelivery func(message domain.Message, err error)
}

type relayer struct {
	repoManager ports.RepoManager
	messenger   ports.Messenger
	limiter     ratelimit.Limiter
	cb          *gobreaker.CircuitBreaker
	interval    time.Duration
	batchSize   int
	onDelivery  func(message domain.Message, err error)
}

// NewRelayer is a constructor function for Relayer.
func NewRelayer(
	repoManager ports.RepoManager, messenger ports.Messenger, cfg RelayerConfig,
) (Relayer, error) {
	if repoManager == nil {
		return nil, ErrMissingRepoManager
	}
	if messenger == nil {
		return nil, ErrMissingMessenger
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultRelayInterval
	}
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRelayRateLimit
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultRelayBatchSize
	}
	onDelivery := cfg.OnDelivery
	if onDelivery == nil {
		onDelivery = func(domain.Message, error) {}
	}

	cb := circuitbreaker.NewCircuitBreaker(
		"relayer", func(name string, from, to gobreaker.State) {
			log.Warnf("%s circuit breaker moved from %s to %s", name, from, to)
		},
	)

	return &relayer{
		repoManager: repoManager,
		messenger:   messenger,
		limiter:     ratelimit.New(rateLimit),
		cb:          cb,
		interval:    interval,
		batchSize:   batchSize,
		onDelivery:  onDelivery,
	}, nil
}

func (r *relayer) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Debugf("relayer started with interval %s", r.interval)
	for {
		if _, err := r.RelayPending(ctx); err != nil &&
			!errors.Is(err, context.Canceled) {
			log.WithError(err).Warn("relayer: delivery round failed")
		}

		select {
		case <-ctx.Done():
			log.Debug("relayer stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (r *relayer) RelayPending(ctx context.Context) (int, error) {
	iMsgs, err := r.repoManager.RunTransaction(
		ctx, true, func(ctx context.Context) (interface{}, error) {
			return r.repoManager.MessageRepository().GetPendingMessages(
				ctx, r.batchSize,
			)
		},
	)
	if err != nil {
		return 0, err
	}
	msgs := iMsgs.([]domain.Message)

	count := 0
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		r.limiter.Take()
		_, deliveryErr := r.cb.Execute(func() (interface{}, error) {
			return nil, r.messenger.Deliver(ctx, msg)
		})
		r.onDelivery(msg, deliveryErr)

		if deliveryErr != nil {
			// The breaker rejected the call, nothing was attempted.
			if errors.Is(deliveryErr, gobreaker.ErrOpenState) ||
				errors.Is(deliveryErr, gobreaker.ErrTooManyRequests) {
				return count, nil
			}
			log.WithError(deliveryErr).WithField("id", msg.ID).
				Warn("relayer: failed to deliver message")
			if err := r.updateMessage(ctx, msg, deliveryErr); err != nil {
				return count, err
			}
			continue
		}

		if err := r.updateMessage(ctx, msg, nil); err != nil {
			return count, err
		}
		count++
		log.WithFields(log.Fields{
			"id":  msg.ID,
			"dst": msg.DstDomain,
		}).Info("message delivered")
	}

	return count, nil
}

func (r *relayer) updateMessage(
	ctx context.Context, msg domain.Message, deliveryErr error,
) error {
	_, err := r.repoManager.RunTransaction(
		ctx, false, func(ctx context.Context) (interface{}, error) {
			return nil, r.repoManager.MessageRepository().UpdateMessage(
				ctx, msg.Direction, msg.ID,
				func(m *domain.Message) (*domain.Message, error) {
					if deliveryErr != nil {
						m.RecordFailure(deliveryErr)
						return m, nil
					}
					m.MarkDelivered()
					return m, nil
				},
			)
		},
	)
	return err
}
