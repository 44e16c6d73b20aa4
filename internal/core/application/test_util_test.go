package application_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zakoken/zkkd/internal/core/application"
	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
	"github.com/zakoken/zkkd/internal/infrastructure/storage/db/inmemory"
)

const (
	operator  = "operator"
	attester  = "attester"
	relayerID = "relayer"
	tag       = "zakoken-demo"

	sepolia     = uint32(40161)
	baseSepolia = uint32(40245)

	sepoliaToken     = "0x7462f4984a1551ACeE53ecAF3E2CCC6ffd6Ae4e1"
	baseSepoliaToken = "0x83f0D7A6a2eC2ee0cE5DaC3Bf9c9A323d6D6b755"
)

var (
	ctx   = context.Background()
	roles = application.Roles{
		Operator:  operator,
		Attesters: []string{attester},
		Relayer:   relayerID,
	}
)

// node groups the services of a single domain.
type node struct {
	repo      ports.RepoManager
	ledger    application.LedgerService
	mint      application.MintService
	transport application.TransportService
	exchange  application.ExchangeService
}

func newNode(t *testing.T, domainID uint32, address string) *node {
	repo := inmemory.NewRepoManager()
	transport, err := application.NewTransportService(repo, roles, domainID, address)
	require.NoError(t, err)
	exchange, err := application.NewExchangeService(
		repo, roles, "USDC", domain.BasisPoints,
	)
	require.NoError(t, err)

	return &node{
		repo:      repo,
		ledger:    application.NewLedgerService(repo),
		mint:      application.NewMintService(repo, roles, tag),
		transport: transport,
		exchange:  exchange,
	}
}

func (n *node) mintTo(t *testing.T, recipient string, amount uint64) {
	_, err := n.mint.MintWithCompose(
		ctx, operator, recipient, amount, randomHex(32), "",
	)
	require.NoError(t, err)
}

func (n *node) balanceOf(t *testing.T, address string) uint64 {
	account, err := n.ledger.BalanceOf(ctx, address)
	require.NoError(t, err)
	return account.Balance
}

// requireSupplyMatchesBalances checks that the total supply equals the sum
// of all balances.
func (n *node) requireSupplyMatchesBalances(t *testing.T) {
	supply, err := n.ledger.TotalSupply(ctx)
	require.NoError(t, err)
	accounts, err := n.ledger.ListAccounts(ctx, nil)
	require.NoError(t, err)

	sum := uint64(0)
	for _, a := range accounts {
		sum += a.Balance
	}
	require.Equal(t, supply.Total(), sum)
}

// loopbackMessenger delivers messages straight to the transport service of
// the destination node, like a relayer would do.
type loopbackMessenger struct {
	nodes map[uint32]*node
}

func (m loopbackMessenger) Deliver(ctx context.Context, msg domain.Message) error {
	dst, ok := m.nodes[msg.DstDomain]
	if !ok {
		return errors.New("unknown destination")
	}
	err := dst.transport.Receive(
		ctx, relayerID, application.InboundMessageFromDomain(msg),
	)
	if errors.Is(err, domain.ErrMessageReplayed) {
		return nil
	}
	return err
}

func (m loopbackMessenger) Close() {}

type mockMessenger struct {
	mock.Mock
}

func (m *mockMessenger) Deliver(ctx context.Context, msg domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMessenger) Close() {}

func randomHex(len int) string {
	b := make([]byte, len)
	//nolint
	rand.Read(b)
	return hex.EncodeToString(b)
}
