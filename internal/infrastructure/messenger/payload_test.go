package messenger_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/infrastructure/messenger"
)

func TestPayload(t *testing.T) {
	msg, err := domain.NewOutboundMessage(
		40161, 40245, "0xsrc", "bob", 18446744073709551615,
	)
	require.NoError(t, err)

	buf := messenger.NewPayload(*msg).Serialize()
	require.Contains(t, string(buf), `"amount":"18446744073709551615"`)

	payload, err := messenger.DecodePayload(buf)
	require.NoError(t, err)

	inbound, err := payload.ToDomain()
	require.NoError(t, err)
	require.Equal(t, msg.ID, inbound.ID)
	require.Equal(t, domain.MessageInbound, inbound.Direction)
	require.Equal(t, msg.Amount, inbound.Amount)
	require.Equal(t, msg.SrcDomain, inbound.SrcDomain)
	require.Equal(t, msg.DstDomain, inbound.DstDomain)

	_, err = messenger.DecodePayload([]byte("not json"))
	require.Error(t, err)

	payload.Amount = "-1"
	_, err = payload.ToDomain()
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}
