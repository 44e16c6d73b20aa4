package kafkamessenger

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
	"github.com/zakoken/zkkd/internal/infrastructure/messenger"
)

const (
	DefaultGroupID       = "zkkd"
	defaultRetryInterval = 5 * time.Second
)

// Errors that make a message unprocessable forever. The message is committed
// and skipped. An untrusted sender or an unauthorized relayer depend on the
// local configuration, so they are retried until the peer or the relayer
// identity is fixed.
var permanentErrors = []error{
	domain.ErrMessageReplayed,
	domain.ErrInvalidMessageID,
	domain.ErrInvalidDomain,
	domain.ErrSameDomain,
	domain.ErrInvalidAccount,
	domain.ErrInvalidAmount,
	domain.ErrAmountOverflow,
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads the messages addressed to the local domain and hands them
// over to an InboundHandler. Offsets are committed only once a message is
// processed, transient failures are retried until they succeed.
type Consumer struct {
	reader        messageReader
	handler       ports.InboundHandler
	retryInterval time.Duration
}

// NewConsumer ...
func NewConsumer(
	brokers []string, topicPrefix, groupID string, localDomain uint32,
	handler ports.InboundHandler,
) (*Consumer, error) {
	if len(brokers) <= 0 {
		return nil, ErrMissingBrokers
	}
	if handler == nil {
		return nil, ErrMissingHandler
	}
	if len(groupID) <= 0 {
		groupID = DefaultGroupID
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    Topic(topicPrefix, localDomain),
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Tracef(msg, args...)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Debugf(msg, args...)
		}),
	})
	return newConsumer(reader, handler, defaultRetryInterval), nil
}

func newConsumer(
	reader messageReader, handler ports.InboundHandler, retryInterval time.Duration,
) *Consumer {
	return &Consumer{reader, handler, retryInterval}
}

// Start consumes messages until ctx is canceled or the consumer is closed.
func (c *Consumer) Start(ctx context.Context) error {
	log.Debug("kafka consumer started")
	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				log.Debug("kafka consumer stopped")
				return nil
			}
			return err
		}

		if err := c.process(ctx, m); err != nil {
			if ctx.Err() != nil {
				log.Debug("kafka consumer stopped")
				return nil
			}
			return err
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		log.WithError(err).Warn("kafka consumer: failed to close reader")
	}
}

// process returns an error only if ctx is done before the message could be
// handled.
func (c *Consumer) process(ctx context.Context, m kafka.Message) error {
	entry := log.WithFields(log.Fields{
		"topic":  m.Topic,
		"offset": m.Offset,
		"key":    string(m.Key),
	})

	payload, err := messenger.DecodePayload(m.Value)
	if err != nil {
		entry.WithError(err).Warn("kafka consumer: skipping malformed message")
		return nil
	}
	msg, err := payload.ToDomain()
	if err != nil {
		entry.WithError(err).Warn("kafka consumer: skipping malformed message")
		return nil
	}

	for {
		err := c.handler(ctx, *msg)
		if err == nil {
			return nil
		}
		if errors.Is(err, domain.ErrMessageReplayed) {
			entry.Debug("kafka consumer: message already consumed")
			return nil
		}
		if isPermanent(err) {
			entry.WithError(err).Warn("kafka consumer: message rejected")
			return nil
		}

		entry.WithError(err).Warnf(
			"kafka consumer: failed to handle message, retrying in %s",
			c.retryInterval,
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryInterval):
		}
	}
}

func isPermanent(err error) bool {
	for _, e := range permanentErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
