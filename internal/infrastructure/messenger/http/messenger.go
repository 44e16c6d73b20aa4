package httpmessenger

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/zakoken/zkkd/internal/core/domain"
	"github.com/zakoken/zkkd/internal/core/ports"
	"github.com/zakoken/zkkd/internal/infrastructure/messenger"
)

const (
	// ReceivePath is the route of the receive endpoint exposed by every
	// daemon.
	ReceivePath = "/v1/transport/receive"

	defaultRequestTimeout = 15 * time.Second
)

type httpMessenger struct {
	client    *client
	endpoints map[uint32]string
	tokens    map[uint32]string
}

// NewMessenger returns a Messenger that POSTs every message to the receive
// endpoint of the daemon of its destination domain. tokens are the bearer
// tokens, per domain, with the relayer identity of the remote daemon.
func NewMessenger(
	endpoints, tokens map[uint32]string, requestTimeout time.Duration,
) (ports.Messenger, error) {
	if len(endpoints) <= 0 {
		return nil, ErrMissingEndpoints
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}

	urls := make(map[uint32]string, len(endpoints))
	for domainID, endpoint := range endpoints {
		urls[domainID] = strings.TrimSuffix(endpoint, "/") + ReceivePath
	}
	if tokens == nil {
		tokens = make(map[uint32]string)
	}

	return &httpMessenger{
		client:    newHTTPClient(requestTimeout),
		endpoints: urls,
		tokens:    tokens,
	}, nil
}

func (m *httpMessenger) Deliver(ctx context.Context, msg domain.Message) error {
	url, ok := m.endpoints[msg.DstDomain]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDomain, msg.DstDomain)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if token := m.tokens[msg.DstDomain]; len(token) > 0 {
		headers["Authorization"] = fmt.Sprintf("Bearer %s", token)
	}

	status, resp, err := m.client.post(
		ctx, url, messenger.NewPayload(msg).Serialize(), headers,
	)
	if err != nil {
		return err
	}
	// The destination already consumed the message.
	if status == http.StatusConflict {
		return nil
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf(
			"delivery to domain %d failed with status %d: %s",
			msg.DstDomain, status, strings.TrimSpace(resp),
		)
	}
	return nil
}

func (m *httpMessenger) Close() {
	m.client.CloseIdleConnections()
}
