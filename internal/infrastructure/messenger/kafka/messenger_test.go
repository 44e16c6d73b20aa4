package kafkamessenger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/infrastructure/messenger"
	"github.com/zakoken/zkkd/internal/infrastructure/storage/db/inmemory"
)

const (
	srcDomain = uint32(40161)
	dstDomain = uint32(40245)
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

// fakeReader serves the given messages, then blocks until ctx is done.
type fakeReader struct {
	lock      sync.Mutex
	msgs      []kafka.Message
	committed []kafka.Message
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.lock.Lock()
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.lock.Unlock()
		return m, nil
	}
	r.lock.Unlock()

	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.committed = append(r.committed, msgs...)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) numCommitted() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.committed)
}

func newMessage(t *testing.T) *domain.Message {
	msg, err := domain.NewOutboundMessage(srcDomain, dstDomain, "0xsrc", "bob", 10)
	require.NoError(t, err)
	return msg
}

func TestTopic(t *testing.T) {
	require.Equal(t, "zkk.messages.40245", Topic("", dstDomain))
	require.Equal(t, "bridge.40161", Topic("bridge", srcDomain))
}

func TestDeliver(t *testing.T) {
	msg := newMessage(t)

	writer := &fakeWriter{}
	m := newMessenger(writer, "bridge")
	err := m.Deliver(context.Background(), *msg)
	require.NoError(t, err)

	require.Len(t, writer.msgs, 1)
	require.Equal(t, "bridge.40245", writer.msgs[0].Topic)
	require.Equal(t, msg.ID, string(writer.msgs[0].Key))

	payload, err := messenger.DecodePayload(writer.msgs[0].Value)
	require.NoError(t, err)
	require.Equal(t, msg.ID, payload.ID)

	writer.err = errors.New("leader not available")
	err = m.Deliver(context.Background(), *msg)
	require.Error(t, err)
}

func TestConsumer(t *testing.T) {
	replayed := newMessage(t)
	invalid := newMessage(t)
	transient := newMessage(t)

	reader := &fakeReader{msgs: []kafka.Message{
		{Offset: 0, Value: []byte("garbage")},
		{Offset: 1, Value: messenger.NewPayload(*replayed).Serialize()},
		{Offset: 2, Value: messenger.NewPayload(*invalid).Serialize()},
		{Offset: 3, Value: messenger.NewPayload(*transient).Serialize()},
	}}

	var lock sync.Mutex
	calls := make(map[string]int)
	handler := func(_ context.Context, m domain.Message) error {
		lock.Lock()
		defer lock.Unlock()
		calls[m.ID]++

		switch m.ID {
		case replayed.ID:
			return domain.ErrMessageReplayed
		case invalid.ID:
			return domain.ErrInvalidAccount
		default:
			if calls[m.ID] < 3 {
				return errors.New("database is locked")
			}
			return nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	consumer := newConsumer(reader, handler, time.Millisecond)
	done := make(chan error)
	go func() { done <- consumer.Start(ctx) }()

	require.Eventually(t, func() bool {
		return reader.numCommitted() == 4
	}, 5*time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	lock.Lock()
	defer lock.Unlock()
	require.Equal(t, 1, calls[replayed.ID])
	require.Equal(t, 1, calls[invalid.ID])
	require.Equal(t, 3, calls[transient.ID])
}

func TestConsumerStopsWhileRetrying(t *testing.T) {
	msg := newMessage(t)
	reader := &fakeReader{msgs: []kafka.Message{
		{Value: messenger.NewPayload(*msg).Serialize()},
	}}
	handler := func(context.Context, domain.Message) error {
		return errors.New("connection reset")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := newConsumer(reader, handler, 10*time.Millisecond).Start(ctx)
	require.NoError(t, err)
	require.Zero(t, reader.numCommitted())
}

func TestConsumerWaitsForPeer(t *testing.T) {
	roles := application.Roles{Operator: "operator", Relayer: "relayer"}
	repoManager := inmemory.NewRepoManager()
	transport, err := application.NewTransportService(
		repoManager, roles, dstDomain, "0xdst",
	)
	require.NoError(t, err)
	ledger := application.NewLedgerService(repoManager)

	msg := newMessage(t)
	reader := &fakeReader{msgs: []kafka.Message{
		{Value: messenger.NewPayload(*msg).Serialize()},
	}}

	var calls int32
	handler := func(ctx context.Context, m domain.Message) error {
		atomic.AddInt32(&calls, 1)
		return transport.Receive(
			ctx, roles.Relayer, application.InboundMessageFromDomain(m),
		)
	}

	ctx, cancel := context.WithCancel(context.Background())
	consumer := newConsumer(reader, handler, 5*time.Millisecond)
	done := make(chan error)
	go func() { done <- consumer.Start(ctx) }()

	// Without a peer for the source domain the message is retried, not
	// committed.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 3
	}, 5*time.Second, 5*time.Millisecond)
	require.Zero(t, reader.numCommitted())

	err = transport.SetPeer(context.Background(), roles.Operator, srcDomain, "0xsrc")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return reader.numCommitted() == 1
	}, 5*time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	account, err := ledger.BalanceOf(context.Background(), "bob")
	require.NoError(t, err)
	require.Equal(t, uint64(10), account.Balance)

	inbound, err := transport.GetMessage(
		context.Background(), domain.MessageInbound, msg.ID,
	)
	require.NoError(t, err)
	require.Equal(t, domain.MessageConsumed, inbound.Status)
}
