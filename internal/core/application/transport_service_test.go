package application_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/core/domain"
)

func newPeeredNodes(t *testing.T) (*node, *node) {
	src := newNode(t, sepolia, sepoliaToken)
	dst := newNode(t, baseSepolia, baseSepoliaToken)

	err := src.transport.SetPeer(ctx, operator, baseSepolia, baseSepoliaToken)
	require.NoError(t, err)
	err = dst.transport.SetPeer(ctx, operator, sepolia, sepoliaToken)
	require.NoError(t, err)
	return src, dst
}

func TestSendAndReceive(t *testing.T) {
	src, dst := newPeeredNodes(t)
	src.mintTo(t, "alice", 1000)

	msg, err := src.transport.Send(ctx, "alice", 400, baseSepolia, "bob")
	require.NoError(t, err)
	require.Equal(t, domain.MessagePending, msg.Status)
	require.Equal(t, sepoliaToken, msg.Sender)
	require.Equal(t, uint64(600), src.balanceOf(t, "alice"))

	messenger := loopbackMessenger{nodes: map[uint32]*node{
		sepolia:     src,
		baseSepolia: dst,
	}}
	relayer, err := application.NewRelayer(
		src.repo, messenger, application.RelayerConfig{RateLimit: 1000},
	)
	require.NoError(t, err)

	count, err := relayer.RelayPending(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Equal(t, uint64(400), dst.balanceOf(t, "bob"))

	outbound, err := src.transport.GetMessage(ctx, domain.MessageOutbound, msg.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MessageDelivered, outbound.Status)

	inbound, err := dst.transport.GetMessage(ctx, domain.MessageInbound, msg.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MessageConsumed, inbound.Status)
	require.Equal(t, sepolia, inbound.SrcDomain)

	// Nothing left to relay.
	count, err = relayer.RelayPending(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	// A duplicate delivery is rejected and credits nothing.
	err = dst.transport.Receive(
		ctx, relayerID, application.InboundMessageFromDomain(*msg),
	)
	require.ErrorIs(t, err, domain.ErrMessageReplayed)
	require.Equal(t, uint64(400), dst.balanceOf(t, "bob"))

	// Still a replay once the peer has been replaced.
	err = dst.transport.SetPeer(ctx, operator, sepolia, randomHex(20))
	require.NoError(t, err)
	err = dst.transport.Receive(
		ctx, relayerID, application.InboundMessageFromDomain(*msg),
	)
	require.ErrorIs(t, err, domain.ErrMessageReplayed)
	require.Equal(t, uint64(400), dst.balanceOf(t, "bob"))

	srcSupply, err := src.ledger.TotalSupply(ctx)
	require.NoError(t, err)
	dstSupply, err := dst.ledger.TotalSupply(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), srcSupply.Total()+dstSupply.Total())
	require.Equal(t, uint64(400), srcSupply.Sent)
	require.Equal(t, uint64(400), dstSupply.Received)

	src.requireSupplyMatchesBalances(t)
	dst.requireSupplyMatchesBalances(t)
}

func TestSendFailures(t *testing.T) {
	t.Run("no peer", func(t *testing.T) {
		n := newNode(t, sepolia, sepoliaToken)
		n.mintTo(t, "alice", 100)

		_, err := n.transport.Send(ctx, "alice", 10, baseSepolia, "bob")
		require.ErrorIs(t, err, domain.ErrNoPeerConfigured)
		require.Equal(t, uint64(100), n.balanceOf(t, "alice"))
	})

	t.Run("insufficient balance", func(t *testing.T) {
		src, _ := newPeeredNodes(t)
		src.mintTo(t, "alice", 100)

		_, err := src.transport.Send(ctx, "alice", 101, baseSepolia, "bob")
		require.ErrorIs(t, err, domain.ErrInsufficientBalance)
		require.Equal(t, uint64(100), src.balanceOf(t, "alice"))

		msgs, err := src.transport.ListMessages(ctx, domain.MessageOutbound, nil)
		require.NoError(t, err)
		require.Empty(t, msgs)
	})

	t.Run("same domain", func(t *testing.T) {
		n := newNode(t, sepolia, sepoliaToken)
		n.mintTo(t, "alice", 100)

		_, err := n.transport.Send(ctx, "alice", 10, sepolia, "bob")
		require.ErrorIs(t, err, domain.ErrSameDomain)
	})
}

func TestReceiveFailures(t *testing.T) {
	_, dst := newPeeredNodes(t)
	inbound := application.InboundMessage{
		ID:        randomHex(16),
		SrcDomain: sepolia,
		Sender:    sepoliaToken,
		Recipient: "bob",
		Amount:    10,
	}

	tests := []struct {
		name    string
		caller  string
		message func() application.InboundMessage
		wantErr error
	}{
		{
			name:    "not the relayer",
			caller:  "mallory",
			message: func() application.InboundMessage { return inbound },
			wantErr: domain.ErrUnauthorized,
		},
		{
			name:   "untrusted sender",
			caller: relayerID,
			message: func() application.InboundMessage {
				m := inbound
				m.Sender = "0xdeadbeef"
				return m
			},
			wantErr: domain.ErrUntrustedPeer,
		},
		{
			name:   "unknown source domain",
			caller: relayerID,
			message: func() application.InboundMessage {
				m := inbound
				m.SrcDomain = 30101
				return m
			},
			wantErr: domain.ErrUntrustedPeer,
		},
		{
			name:   "wrong destination",
			caller: relayerID,
			message: func() application.InboundMessage {
				m := inbound
				m.DstDomain = 30184
				return m
			},
			wantErr: application.ErrWrongDestination,
		},
		{
			name:   "zero amount",
			caller: relayerID,
			message: func() application.InboundMessage {
				m := inbound
				m.Amount = 0
				return m
			},
			wantErr: domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := dst.transport.Receive(ctx, tt.caller, tt.message())
			require.ErrorIs(t, err, tt.wantErr)
			require.Zero(t, dst.balanceOf(t, "bob"))
		})
	}

	_, err := dst.transport.GetMessage(ctx, domain.MessageInbound, inbound.ID)
	require.ErrorIs(t, err, domain.ErrMessageNotFound)
}

func TestSetPeer(t *testing.T) {
	n := newNode(t, sepolia, sepoliaToken)

	err := n.transport.SetPeer(ctx, "mallory", baseSepolia, "0xdeadbeef")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = n.transport.GetPeer(ctx, baseSepolia)
	require.ErrorIs(t, err, domain.ErrPeerNotFound)

	err = n.transport.SetPeer(ctx, operator, sepolia, sepoliaToken)
	require.ErrorIs(t, err, domain.ErrSameDomain)

	err = n.transport.SetPeer(ctx, operator, baseSepolia, baseSepoliaToken)
	require.NoError(t, err)
	err = n.transport.SetPeer(ctx, operator, baseSepolia, "0xnewpeer")
	require.NoError(t, err)

	peer, err := n.transport.GetPeer(ctx, baseSepolia)
	require.NoError(t, err)
	require.Equal(t, "0xnewpeer", peer.Address)

	peers, err := n.transport.ListPeers(ctx)
	require.NoError(t, err)
	require.Len(t, peers, 1)
}
