package kafkamessenger

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
	"github.com/zakoken/zkkd/internal/infrastructure/messenger"
)

const (
	DefaultTopicPrefix = "zkk.messages"

	writeTimeout = 10 * time.Second
)

var kafkaPublishErrors = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "zkkd_kafka_publish_errors_total",
		Help: "Total number of kafka publish errors",
	},
)

// Topic returns the name of the topic carrying the messages addressed to the
// given domain.
func Topic(prefix string, domainID uint32) string {
	if len(prefix) <= 0 {
		prefix = DefaultTopicPrefix
	}
	return fmt.Sprintf("%s.%d", prefix, domainID)
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaMessenger struct {
	writer      messageWriter
	topicPrefix string
}

// NewMessenger returns a Messenger that publishes every message to the
// topic of its destination domain, keyed by message id.
func NewMessenger(brokers []string, topicPrefix string) (ports.Messenger, error) {
	if len(brokers) <= 0 {
		return nil, ErrMissingBrokers
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		MaxAttempts:            3,
		WriteTimeout:           writeTimeout,
		Logger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Tracef(msg, args...)
		}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			log.Debugf(msg, args...)
		}),
	}
	return newMessenger(writer, topicPrefix), nil
}

func newMessenger(writer messageWriter, topicPrefix string) *kafkaMessenger {
	return &kafkaMessenger{writer, topicPrefix}
}

// Deliver returns once the brokers acknowledged the message. Consumption on
// the destination happens asynchronously and is idempotent.
func (m *kafkaMessenger) Deliver(ctx context.Context, msg domain.Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := m.writer.WriteMessages(ctx, kafka.Message{
		Topic: Topic(m.topicPrefix, msg.DstDomain),
		Key:   []byte(msg.ID),
		Value: messenger.NewPayload(msg).Serialize(),
		Time:  time.Now(),
	}); err != nil {
		kafkaPublishErrors.Inc()
		return fmt.Errorf("failed to publish message %s: %w", msg.ID, err)
	}
	return nil
}

func (m *kafkaMessenger) Close() {
	if err := m.writer.Close(); err != nil {
		log.WithError(err).Warn("kafka messenger: failed to close writer")
	}
}
