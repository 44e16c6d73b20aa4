package application_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/core/domain"
)

func TestRelayer(t *testing.T) {
	t.Run("delivery failure", func(t *testing.T) {
		src, _ := newPeeredNodes(t)
		src.mintTo(t, "alice", 100)
		msg, err := src.transport.Send(ctx, "alice", 10, baseSepolia, "bob")
		require.NoError(t, err)

		messenger := &mockMessenger{}
		messenger.On("Deliver", mock.Anything, mock.Anything).
			Return(errors.New("connection refused")).Once()
		messenger.On("Deliver", mock.Anything, mock.Anything).Return(nil)

		attempts := 0
		relayer, err := application.NewRelayer(
			src.repo, messenger, application.RelayerConfig{
				RateLimit: 1000,
				OnDelivery: func(m domain.Message, err error) {
					require.Equal(t, msg.ID, m.ID)
					attempts++
				},
			},
		)
		require.NoError(t, err)

		count, err := relayer.RelayPending(ctx)
		require.NoError(t, err)
		require.Zero(t, count)

		stored, err := src.transport.GetMessage(ctx, domain.MessageOutbound, msg.ID)
		require.NoError(t, err)
		require.Equal(t, domain.MessagePending, stored.Status)
		require.Equal(t, 1, stored.Attempts)
		require.Equal(t, "connection refused", stored.LastError)

		count, err = relayer.RelayPending(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, count)
		require.Equal(t, 2, attempts)

		stored, err = src.transport.GetMessage(ctx, domain.MessageOutbound, msg.ID)
		require.NoError(t, err)
		require.Equal(t, domain.MessageDelivered, stored.Status)
		require.Empty(t, stored.LastError)
		messenger.AssertNumberOfCalls(t, "Deliver", 2)
	})

	t.Run("missing deps", func(t *testing.T) {
		n := newNode(t, sepolia, sepoliaToken)

		_, err := application.NewRelayer(nil, &mockMessenger{}, application.RelayerConfig{})
		require.ErrorIs(t, err, application.ErrMissingRepoManager)
		_, err = application.NewRelayer(n.repo, nil, application.RelayerConfig{})
		require.ErrorIs(t, err, application.ErrMissingMessenger)
	})
}
